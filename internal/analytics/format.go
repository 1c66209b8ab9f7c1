package analytics

import (
	"fmt"
	"strconv"

	"github.com/voltgrid/opsconsole/internal/domain"
)

// FormatValue renders a metric value for display. Decimal precision, unit
// suffix and currency symbol are a pure function of the metric; the data
// model itself never stores formatted strings.
func FormatValue(metric domain.MetricKind, value float64) string {
	switch metric {
	case domain.MetricEnergy:
		return strconv.FormatFloat(value, 'f', 1, 64) + " kWh"
	case domain.MetricRevenue:
		return "$" + strconv.FormatFloat(value, 'f', 2, 64)
	default:
		return strconv.FormatFloat(value, 'f', 0, 64)
	}
}

// MetricLabel is the human column header for a metric, used by chart axes and
// the CSV export.
func MetricLabel(metric domain.MetricKind) string {
	switch metric {
	case domain.MetricEnergy:
		return "Energy (kWh)"
	case domain.MetricRevenue:
		return "Revenue ($)"
	case domain.MetricSessions:
		return "Sessions"
	case domain.MetricUsers:
		return "Active Users"
	case domain.MetricChargers:
		return "Chargers"
	}
	return fmt.Sprintf("Unknown (%s)", metric)
}
