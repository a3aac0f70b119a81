package domain

import "time"

// DailyMetric holds one day of performance numbers for a campaign from one
// source. The natural key is (date, campaign_id, source); re-ingesting the
// same key overwrites all five numeric fields (last-write-wins).
type DailyMetric struct {
	ID          string    `gorm:"type:text;primaryKey" json:"id"`
	Date        time.Time `gorm:"type:date;not null;index:idx_daily_metrics_key,unique;index:idx_daily_metrics_date" json:"date"`
	CampaignID  string    `gorm:"type:text;not null;index:idx_daily_metrics_key,unique;index:idx_daily_metrics_campaign" json:"campaign_id"`
	Source      string    `gorm:"type:text;not null;index:idx_daily_metrics_key,unique" json:"source"`
	Impressions int64     `gorm:"default:0" json:"impressions"`
	Clicks      int64     `gorm:"default:0" json:"clicks"`
	Spend       float64   `gorm:"default:0" json:"spend"`
	Conversions int64     `gorm:"default:0" json:"conversions"`
	Revenue     float64   `gorm:"default:0" json:"revenue"`
	CreatedAt   time.Time `json:"created_at"`

	Campaign *Campaign `gorm:"foreignKey:CampaignID" json:"-"`
}

// TableName returns the database table name for DailyMetric.
func (DailyMetric) TableName() string {
	return "daily_metrics"
}

// CampaignWindow is the aggregation of a campaign's daily metrics over a
// half-open date range [start, end), across all sources, with derived ratios.
// All ratio denominators of zero yield 0, never an error.
type CampaignWindow struct {
	CampaignID  string  `json:"campaign_id"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Spend       float64 `json:"spend"`
	Conversions int64   `json:"conversions"`
	Revenue     float64 `json:"revenue"`

	ROAS           float64 `json:"roas"`            // revenue / spend
	CTR            float64 `json:"ctr"`             // clicks / impressions * 100
	CPC            float64 `json:"cpc"`             // spend / clicks
	ConversionRate float64 `json:"conversion_rate"` // conversions / clicks * 100
}

// Metric returns the named window value used by period comparison.
// Unknown names return 0.
func (w *CampaignWindow) Metric(name string) float64 {
	switch name {
	case MetricROAS:
		return w.ROAS
	case MetricCTR:
		return w.CTR
	case MetricCPC:
		return w.CPC
	case MetricConversionRate:
		return w.ConversionRate
	case MetricRevenue:
		return w.Revenue
	case MetricSpend:
		return w.Spend
	default:
		return 0
	}
}

// Metric names used in windows and insights.
const (
	MetricROAS           = "roas"
	MetricCTR            = "ctr"
	MetricCPC            = "cpc"
	MetricConversionRate = "conversion_rate"
	MetricRevenue        = "revenue"
	MetricSpend          = "spend"
	MetricNewCampaign    = "new_campaign"
)
