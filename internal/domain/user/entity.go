package user

import "time"

type Role string

const (
	RoleHR         Role = "HR"         // Manages people, sites and reviews
	RoleForeman    Role = "Foreman"    // Records today's attendance for own crew
	RoleEngineer   Role = "Engineer"   // Signs off the cycle
	RoleAccountant Role = "Accountant" // Corrects attendance, exports timesheets
)

// Roles lists every role a user can be assigned.
var Roles = []Role{RoleHR, RoleForeman, RoleEngineer, RoleAccountant}

func (r Role) IsValid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

func (l Language) IsValid() bool {
	return l == LanguageEnglish || l == LanguageArabic
}

type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string
	FullName     string
	Role         Role
	Language     Language
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsHR checks if user belongs to HR
func (u *User) IsHR() bool {
	return u.Role == RoleHR
}

func (u *User) IsForeman() bool {
	return u.Role == RoleForeman
}

func (u *User) IsEngineer() bool {
	return u.Role == RoleEngineer
}
