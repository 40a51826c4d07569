package cycle

type CycleResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Label     string `json:"month_label"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
}

func NewCycleResponse(c Cycle) CycleResponse {
	return CycleResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Label:     c.Label,
		StartDate: FormatDate(c.StartDate),
		EndDate:   FormatDate(c.EndDate),
		Days:      c.Days(),
	}
}

type DateResponse struct {
	Date    string `json:"date"`
	Day     int    `json:"day"`
	Weekday string `json:"weekday"`
	Weekend bool   `json:"weekend"`
}
