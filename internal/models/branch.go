package models

// Branch is the dynamically fetched descriptor that drives per-branch chart
// series and export columns without hardcoding branch lists.
type Branch struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
	Color       string `json:"color"`
	DataKey     string `json:"data_key"`
	ForecastKey string `json:"forecast_key"`
}
