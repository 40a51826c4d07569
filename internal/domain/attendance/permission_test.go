package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/user"
	"github.com/stretchr/testify/assert"
)

func TestCanEdit(t *testing.T) {
	today := time.Date(2024, time.January, 10, 14, 30, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	lastYear := today.AddDate(-1, 0, 0)
	tomorrow := today.AddDate(0, 0, 1)

	tests := []struct {
		name string
		role user.Role
		date time.Time
		want bool
	}{
		{"foreman today", user.RoleForeman, today, true},
		{"foreman today at midnight", user.RoleForeman, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), true},
		{"foreman yesterday", user.RoleForeman, yesterday, false},
		{"foreman tomorrow", user.RoleForeman, tomorrow, false},
		{"hr any date", user.RoleHR, lastYear, true},
		{"hr future", user.RoleHR, tomorrow, true},
		{"accountant any date", user.RoleAccountant, yesterday, true},
		{"engineer today", user.RoleEngineer, today, false},
		{"unknown role", user.Role("Guest"), today, false},
		{"empty role", user.Role(""), today, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanEdit(tt.role, tt.date, today))
		})
	}
}
