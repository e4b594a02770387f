package models

// DailyStats is a single day's count in an analytics time series.
type DailyStats struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}
