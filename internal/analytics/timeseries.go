// Package analytics derives presentation-ready chart and table view models
// from immutable usage snapshots. Every derivation is a pure function of
// (snapshot, filter state); nothing here performs I/O or retains state except
// the Orchestrator, which owns the single FilterState value.
package analytics

import (
	"fmt"

	"github.com/voltgrid/opsconsole/internal/domain"
)

// Format converts raw monthly or yearly snapshot buckets into a uniform chart
// series for the selected metric. A snapshot without a bucket for the period
// yields an empty series, never an error, so callers can render a "no data"
// state. Ordering is chronological, preserved from the snapshot; Format does
// no sorting of its own.
func Format(snap domain.UsageSnapshot, metric domain.MetricKind, period domain.TimePeriod) ([]domain.TimeSeriesPoint, error) {
	var bucket []domain.UsagePeriodRecord
	switch period {
	case domain.PeriodMonthly:
		bucket = snap.Monthly
	case domain.PeriodYearly:
		bucket = snap.Yearly
	default:
		// Daily, weekly, quarterly and custom views are built from the
		// detail table, not from pre-aggregated buckets.
		return []domain.TimeSeriesPoint{}, nil
	}

	points := make([]domain.TimeSeriesPoint, 0, len(bucket))
	for _, rec := range bucket {
		value, err := periodMetricValue(rec, metric)
		if err != nil {
			return nil, err
		}
		points = append(points, domain.TimeSeriesPoint{
			Label: rec.Label,
			Value: value,
		})
	}
	return points, nil
}

// periodMetricValue reads the snapshot field matching the metric. Sessions,
// users and chargers all read the session count as a count proxy.
func periodMetricValue(rec domain.UsagePeriodRecord, metric domain.MetricKind) (float64, error) {
	switch metric {
	case domain.MetricEnergy:
		return rec.TotalEnergy, nil
	case domain.MetricRevenue:
		return rec.TotalRevenue, nil
	case domain.MetricSessions, domain.MetricUsers, domain.MetricChargers:
		return float64(rec.SessionCount), nil
	}
	return 0, fmt.Errorf("%w: metric %q", domain.ErrUnknownEnum, metric)
}
