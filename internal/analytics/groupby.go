package analytics

import (
	"fmt"
	"strconv"

	"github.com/voltgrid/opsconsole/internal/domain"
)

// Aggregate buckets utilization records by the grouping key and reduces each
// bucket to a metric total. Groups whose total is zero are dropped so pie and
// bar widgets never render zero-value slices. Output order is the insertion
// order of first encounter, not sorted; for a fixed input the output is
// identical regardless of how often it is recomputed.
func Aggregate(records []domain.EntityUtilizationRecord, groupBy domain.GroupKey, metric domain.MetricKind) ([]domain.GroupedAggregate, error) {
	keyOf, err := partitionFunc(groupBy)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	order := make([]string, 0)
	for _, rec := range records {
		key := keyOf(rec)
		value, err := recordMetricValue(rec, metric)
		if err != nil {
			return nil, err
		}
		if _, seen := totals[key]; !seen {
			order = append(order, key)
		}
		totals[key] += value
	}

	out := make([]domain.GroupedAggregate, 0, len(order))
	for _, key := range order {
		if totals[key] == 0 {
			continue
		}
		out = append(out, domain.GroupedAggregate{Key: key, Value: totals[key]})
	}
	return out, nil
}

// partitionFunc returns the key function for a grouping dimension.
func partitionFunc(groupBy domain.GroupKey) (func(domain.EntityUtilizationRecord) string, error) {
	switch groupBy {
	case domain.GroupByLocation:
		return func(r domain.EntityUtilizationRecord) string {
			if r.Location == "" {
				return "Unknown"
			}
			return r.Location
		}, nil
	case domain.GroupByOnlineStatus:
		return func(r domain.EntityUtilizationRecord) string {
			if r.IsOnline {
				return "Online"
			}
			return "Offline"
		}, nil
	case domain.GroupByConnectorCount:
		return func(r domain.EntityUtilizationRecord) string {
			switch r.ConnectorCount {
			case 0:
				return "None"
			case 1:
				return "1 Connector"
			default:
				return strconv.Itoa(r.ConnectorCount) + " Connectors"
			}
		}, nil
	}
	return nil, fmt.Errorf("%w: group key %q", domain.ErrUnknownEnum, groupBy)
}

// recordMetricValue is the per-record accumulator for a metric. Users has no
// field of its own on utilization records and uses sessions as a proxy;
// chargers counts records.
func recordMetricValue(rec domain.EntityUtilizationRecord, metric domain.MetricKind) (float64, error) {
	switch metric {
	case domain.MetricEnergy:
		return rec.EnergyDelivered, nil
	case domain.MetricRevenue:
		return rec.Revenue, nil
	case domain.MetricSessions, domain.MetricUsers:
		return float64(rec.Sessions), nil
	case domain.MetricChargers:
		return 1, nil
	}
	return 0, fmt.Errorf("%w: metric %q", domain.ErrUnknownEnum, metric)
}
