package attendance

import (
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/cycle"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/user"
)

// CanEdit decides whether role may change the cell dated cellDate.
// It must be asked per cell since a grid mixes past days with today.
func CanEdit(role user.Role, cellDate, today time.Time) bool {
	switch role {
	case user.RoleHR, user.RoleAccountant:
		return true
	case user.RoleForeman:
		return cycle.SameDay(cellDate, today)
	default:
		return false
	}
}
