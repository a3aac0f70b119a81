package domain

// ReportMetrics holds the count breakdowns for one run report.
type ReportMetrics struct {
	TotalInsights    int            `json:"total_insights"`
	TotalActions     int            `json:"total_actions"`
	TotalCreatives   int            `json:"total_creatives"`
	InsightBreakdown map[string]int `json:"insight_breakdown"`
	ActionBreakdown  map[string]int `json:"action_breakdown"`
}

// Report is the aggregated output of one pipeline run: the full insight,
// action, and creative lists plus a one-sentence summary and count breakdowns.
type Report struct {
	RunID     string        `json:"run_id"`
	RunDate   string        `json:"run_date"`
	Summary   string        `json:"summary"`
	Insights  []Insight     `json:"insights"`
	Actions   []Action      `json:"actions"`
	Creatives []Creative    `json:"creatives"`
	Metrics   ReportMetrics `json:"metrics"`
}
