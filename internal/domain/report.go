package domain

// DailyReportEntry is one project's aggregated totals for one day.
// Recomputed on every pipeline run, never persisted directly.
type DailyReportEntry struct {
	ProjectID ProjectID `json:"projectId"`
	Timestamp UnixTime  `json:"timestamp"`
	USDTVL    float64   `json:"usdTvl"`
	ETHTVL    float64   `json:"ethTvl"`
}

// ChartPoint is one row of a TVL chart: [day, usd, eth].
type ChartPoint struct {
	Timestamp UnixTime `json:"timestamp"`
	USD       float64  `json:"usd"`
	ETH       float64  `json:"eth"`
}

// ReportOutput is the latest successfully computed daily report, cached for
// fast reads. Replaced atomically on every successful pipeline run.
// SevenDayChange holds the relative USD TVL change between the latest day
// and the day one week earlier, per project and for the aggregate, for
// charts that cover both days.
type ReportOutput struct {
	GeneratedAt    UnixTime                   `json:"generatedAt"`
	Aggregate      []ChartPoint               `json:"aggregate"`
	AggregateDelta float64                    `json:"aggregateSevenDayChange"`
	Projects       map[ProjectID][]ChartPoint `json:"byProject"`
	SevenDayChange map[ProjectID]float64      `json:"sevenDayChange,omitempty"`
}
