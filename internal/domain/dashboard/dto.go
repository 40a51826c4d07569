package dashboard

import "github.com/cmlabs-hris/workforce-attendance/internal/domain/cycle"

// DashboardResponse is the combined response for the main dashboard endpoint
type DashboardResponse struct {
	ActiveWorkers int                 `json:"active_workers"`
	ActiveSites   int                 `json:"active_sites"`
	PresentToday  int                 `json:"present_today"`
	AbsentToday   int                 `json:"absent_today"`
	Date          string              `json:"date"` // Format: "YYYY-MM-DD"
	Cycle         cycle.CycleResponse `json:"cycle"`

	// TodayByStatus breaks today's entries down by every status code
	TodayByStatus map[string]int `json:"today_by_status"`
}
