package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mkral/adpilot/internal/domain"
)

// CanonicalRecord is a normalized metric record with fixed field names,
// independent of the source schema.
type CanonicalRecord struct {
	ExternalID   string
	CampaignName string
	Date         time.Time
	Impressions  int64
	Clicks       int64
	Spend        float64
	Conversions  int64
	Revenue      float64
	Source       string
	Status       string
}

const (
	maxExternalIDLen   = 255
	maxCampaignNameLen = 500
)

// dateFormats are tried in fixed order. Two-digit/two-digit dates are claimed
// by the month-first pattern; the order must not change (see NormalizeMetricData).
var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02/01/2006",
}

// NormalizeMetricData maps a raw source record to the canonical format.
//
// Field aliases resolve first-present-wins: campaign|campaign_name,
// date|date_start, spend|cost, revenue|value, conversions|purchases.
// Missing numeric fields default to 0. Date strings are parsed with a fixed
// format order, so "01/02/2024" is January 2nd; this is the accepted
// non-locale-aware behavior, not a bug to fix.
func NormalizeMetricData(raw map[string]interface{}, source string) (*CanonicalRecord, error) {
	externalID := strings.TrimSpace(stringField(raw, "external_id"))
	if externalID == "" {
		return nil, domain.NewValidationError("external_id", "required for source %s", source)
	}
	if len(externalID) > maxExternalIDLen {
		return nil, domain.NewValidationError("external_id", "must be <= %d characters", maxExternalIDLen)
	}

	campaignName := strings.TrimSpace(firstString(raw, "campaign", "campaign_name"))
	if campaignName == "" {
		return nil, domain.NewValidationError("campaign_name", "required for source %s", source)
	}
	if len(campaignName) > maxCampaignNameLen {
		return nil, domain.NewValidationError("campaign_name", "must be <= %d characters", maxCampaignNameLen)
	}

	rawDate, ok := firstPresent(raw, "date", "date_start")
	if !ok {
		return nil, domain.NewValidationError("date", "required for source %s", source)
	}
	date, err := parseDate(rawDate)
	if err != nil {
		return nil, domain.NewValidationError("date", "%v", err)
	}

	impressions, err := intField(raw, "impressions")
	if err != nil {
		return nil, err
	}
	clicks, err := intField(raw, "clicks")
	if err != nil {
		return nil, err
	}
	conversions, err := intAliasField(raw, "conversions", "purchases")
	if err != nil {
		return nil, err
	}
	spend, err := floatAliasField(raw, "spend", "cost")
	if err != nil {
		return nil, err
	}
	revenue, err := floatAliasField(raw, "revenue", "value")
	if err != nil {
		return nil, err
	}

	// Logical consistency checks on top of the per-field validation.
	if impressions > 0 && clicks > impressions {
		return nil, domain.NewValidationError("clicks", "cannot exceed impressions")
	}
	if clicks > 0 && conversions > clicks {
		return nil, domain.NewValidationError("conversions", "cannot exceed clicks")
	}

	status := stringField(raw, "status")
	if status == "" {
		status = string(domain.CampaignStatusActive)
	}

	return &CanonicalRecord{
		ExternalID:   externalID,
		CampaignName: campaignName,
		Date:         date,
		Impressions:  impressions,
		Clicks:       clicks,
		Spend:        spend,
		Conversions:  conversions,
		Revenue:      revenue,
		Source:       source,
		Status:       status,
	}, nil
}

// parseDate accepts a date string in one of the fixed formats, or an already
// typed time.Time (truncated to its date component). The first matching
// format wins.
func parseDate(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return truncateToDate(v), nil
	case *time.Time:
		if v == nil {
			return time.Time{}, fmt.Errorf("date is nil")
		}
		return truncateToDate(*v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, fmt.Errorf("date is empty")
		}
		for _, format := range dateFormats {
			if t, err := time.Parse(format, s); err == nil {
				return truncateToDate(t), nil
			}
		}
		return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
	default:
		return time.Time{}, fmt.Errorf("invalid date type: %T", value)
	}
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// firstPresent returns the first key whose value exists and is non-nil.
func firstPresent(raw map[string]interface{}, keys ...string) (interface{}, bool) {
	for _, key := range keys {
		if v, ok := raw[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// firstString returns the first non-empty string value among the keys.
func firstString(raw map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s := stringField(raw, key); s != "" {
			return s
		}
	}
	return ""
}

func stringField(raw map[string]interface{}, key string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}

func intAliasField(raw map[string]interface{}, primary, fallback string) (int64, error) {
	if _, ok := firstPresent(raw, primary); ok {
		return intField(raw, primary)
	}
	return intField(raw, fallback)
}

func floatAliasField(raw map[string]interface{}, primary, fallback string) (float64, error) {
	if _, ok := firstPresent(raw, primary); ok {
		return floatField(raw, primary)
	}
	return floatField(raw, fallback)
}

func intField(raw map[string]interface{}, key string) (int64, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return 0, nil
	}
	n, err := coerceFloat(v)
	if err != nil {
		return 0, domain.NewValidationError(key, "invalid numeric value: %v", v)
	}
	if n < 0 {
		return 0, domain.NewValidationError(key, "must be non-negative (got: %v)", v)
	}
	// Count fields take whole numbers only; a fractional value is a sign of
	// a mismapped field, not something to truncate away.
	if n != math.Trunc(n) {
		return 0, domain.NewValidationError(key, "must be an integer (got: %v)", v)
	}
	return int64(n), nil
}

func floatField(raw map[string]interface{}, key string) (float64, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return 0, nil
	}
	n, err := coerceFloat(v)
	if err != nil {
		return 0, domain.NewValidationError(key, "invalid numeric value: %v", v)
	}
	if n < 0 {
		return 0, domain.NewValidationError(key, "must be non-negative (got: %v)", v)
	}
	return n, nil
}

func coerceFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, nil
		}
		return strconv.ParseFloat(s, 64)
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", v)
	}
}
