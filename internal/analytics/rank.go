package analytics

import (
	"fmt"
	"sort"

	"github.com/voltgrid/opsconsole/internal/domain"
)

// Rank returns the top entities by the chosen field, sorted descending.
// Records whose field is <= 0 are filtered out before truncation, so the
// result never pads with zero-value entries even when fewer than topCount
// qualify. Ties keep stable input order. A topCount <= 0 yields an empty
// result.
func Rank(records []domain.EntityUtilizationRecord, sortBy domain.SortField, topCount int) ([]domain.RankedEntry, error) {
	valueOf, err := sortFieldValue(sortBy)
	if err != nil {
		return nil, err
	}
	if topCount < 0 {
		topCount = 0
	}

	entries := make([]domain.RankedEntry, 0, len(records))
	for _, rec := range records {
		v := valueOf(rec)
		if v <= 0 {
			continue
		}
		entries = append(entries, domain.RankedEntry{Name: rec.Name, Value: v})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})

	if len(entries) > topCount {
		entries = entries[:topCount]
	}
	return entries, nil
}

func sortFieldValue(sortBy domain.SortField) (func(domain.EntityUtilizationRecord) float64, error) {
	switch sortBy {
	case domain.SortByRevenue:
		return func(r domain.EntityUtilizationRecord) float64 { return r.Revenue }, nil
	case domain.SortByEnergyDelivered:
		return func(r domain.EntityUtilizationRecord) float64 { return r.EnergyDelivered }, nil
	case domain.SortBySessions:
		return func(r domain.EntityUtilizationRecord) float64 { return float64(r.Sessions) }, nil
	case domain.SortByUtilizationRate:
		return func(r domain.EntityUtilizationRecord) float64 { return r.UtilizationRate }, nil
	case domain.SortByHoursActive:
		return func(r domain.EntityUtilizationRecord) float64 { return r.HoursActive }, nil
	case domain.SortByAvailabilityRate:
		return func(r domain.EntityUtilizationRecord) float64 { return r.AvailabilityRate }, nil
	}
	return nil, fmt.Errorf("%w: sort field %q", domain.ErrUnknownEnum, sortBy)
}
