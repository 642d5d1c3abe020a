package model

// StatCard is one dashboard tile, shaped for the frontend.
type StatCard struct {
	Title       string `json:"title"`
	Value       string `json:"value"`
	Change      string `json:"change"`
	ChangeType  string `json:"changeType"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// RiskDistribution buckets all history rows by the tiering thresholds.
type RiskDistribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Total is the number of history rows the distribution was computed over.
func (d RiskDistribution) Total() int {
	return d.High + d.Medium + d.Low
}

// CostTrendPoint is one calendar day of the cost trend. Date is an ISO
// date (YYYY-MM-DD); days without cost rows carry a zero total.
type CostTrendPoint struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// DailyUsage is one day of an inventory item's consumption trend.
type DailyUsage struct {
	Date string `json:"date"`
	Used int    `json:"used"`
}

// ResourceUtilization is the per-item analytics view over inventory and
// its usage log.
type ResourceUtilization struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Region      string       `json:"region"`
	Available   int          `json:"available"`
	Total       int          `json:"total"`
	Status      string       `json:"status"`
	PercentUsed float64      `json:"percent_used"`
	Cost        *float64     `json:"cost"`
	Unit        *string      `json:"unit"`
	Trend       []DailyUsage `json:"trend"`
}
