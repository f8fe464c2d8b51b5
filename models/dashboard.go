package models

// LabelCount is one bar of a dashboard chart.
type LabelCount struct {
	Label string  `json:"label"`
	Count int64   `json:"count"`
	Area  float64 `json:"area"`
}

// DashboardSummary aggregates the title registry for the dashboard charts.
type DashboardSummary struct {
	TotalTitles         int64        `json:"total_titles"`
	TotalMunicipalities int64        `json:"total_municipalities"`
	TotalArea           float64      `json:"total_area"`
	ByStatus            []LabelCount `json:"by_status"`
	ByTitleType         []LabelCount `json:"by_title_type"`
	ByMunicipality      []LabelCount `json:"by_municipality"`
	ByYear              []LabelCount `json:"by_year"`
}
