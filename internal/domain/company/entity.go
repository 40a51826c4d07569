package company

import "time"

type Company struct {
	ID        string
	Name      string
	LogoURL   *string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Headcount is the number of active workers, computed on read
	Headcount int
}
