package analytics

import (
	"github.com/voltgrid/opsconsole/internal/domain"
)

// Comparison ratios applied to the primary value. Without a second historical
// fetch available in-process these are deterministic placeholders, not real
// shifted-range series; a production comparison should refetch against the
// shifted date range instead (see DESIGN.md).
const (
	previousPeriodRatio = 0.75
	lastYearRatio       = 0.85
	forecastRatio       = 1.12
)

// maxComparable caps synthesized values at 2^53-1 so they survive a round
// trip through JSON consumers that read them as doubles.
const maxComparable = float64(1<<53 - 1)

// Synthesize returns a copy of the series with the comparison value populated
// for the given mode. With mode "none" the series is returned unchanged and
// no comparison value is set.
func Synthesize(series []domain.TimeSeriesPoint, mode domain.ComparisonMode) ([]domain.TimeSeriesPoint, error) {
	ratio := 0.0
	switch mode {
	case domain.CompareNone:
		return series, nil
	case domain.ComparePrevious:
		ratio = previousPeriodRatio
	case domain.CompareLastYear:
		ratio = lastYearRatio
	case domain.CompareForecast:
		ratio = forecastRatio
	default:
		return nil, domain.ErrUnknownEnum
	}

	out := make([]domain.TimeSeriesPoint, len(series))
	for i, p := range series {
		cv := p.Value * ratio
		if cv > maxComparable {
			cv = maxComparable
		}
		out[i] = domain.TimeSeriesPoint{Label: p.Label, Value: p.Value}
		out[i].ComparisonValue = &cv
	}
	return out, nil
}
