package domain

import (
	"fmt"
	"time"
)

// MetricKind selects which quantity is charted and which snapshot field is read.
type MetricKind string

const (
	MetricEnergy   MetricKind = "energy"
	MetricRevenue  MetricKind = "revenue"
	MetricSessions MetricKind = "sessions"
	MetricUsers    MetricKind = "users"
	MetricChargers MetricKind = "chargers"
)

// ParseMetricKind validates a metric string. Unknown values are a caller bug,
// not a runtime condition, so they fail fast instead of defaulting.
func ParseMetricKind(s string) (MetricKind, error) {
	switch MetricKind(s) {
	case MetricEnergy, MetricRevenue, MetricSessions, MetricUsers, MetricChargers:
		return MetricKind(s), nil
	}
	return "", fmt.Errorf("%w: metric %q", ErrUnknownEnum, s)
}

// TimePeriod selects which raw snapshot bucket is consulted.
type TimePeriod string

const (
	PeriodDaily     TimePeriod = "daily"
	PeriodWeekly    TimePeriod = "weekly"
	PeriodMonthly   TimePeriod = "monthly"
	PeriodQuarterly TimePeriod = "quarterly"
	PeriodYearly    TimePeriod = "yearly"
	PeriodCustom    TimePeriod = "custom"
)

func ParseTimePeriod(s string) (TimePeriod, error) {
	switch TimePeriod(s) {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodYearly, PeriodCustom:
		return TimePeriod(s), nil
	}
	return "", fmt.Errorf("%w: time period %q", ErrUnknownEnum, s)
}

// GroupKey defines the partition function over EntityUtilizationRecord.
type GroupKey string

const (
	GroupByLocation       GroupKey = "location"
	GroupByOnlineStatus   GroupKey = "onlineStatus"
	GroupByConnectorCount GroupKey = "connectorCount"
)

func ParseGroupKey(s string) (GroupKey, error) {
	switch GroupKey(s) {
	case GroupByLocation, GroupByOnlineStatus, GroupByConnectorCount:
		return GroupKey(s), nil
	}
	return "", fmt.Errorf("%w: group key %q", ErrUnknownEnum, s)
}

// SortField selects the numeric field used for top-N ranking.
type SortField string

const (
	SortByRevenue          SortField = "revenue"
	SortByEnergyDelivered  SortField = "energyDelivered"
	SortBySessions         SortField = "sessions"
	SortByUtilizationRate  SortField = "utilizationRate"
	SortByHoursActive      SortField = "hoursActive"
	SortByAvailabilityRate SortField = "availabilityRate"
)

func ParseSortField(s string) (SortField, error) {
	switch SortField(s) {
	case SortByRevenue, SortByEnergyDelivered, SortBySessions,
		SortByUtilizationRate, SortByHoursActive, SortByAvailabilityRate:
		return SortField(s), nil
	}
	return "", fmt.Errorf("%w: sort field %q", ErrUnknownEnum, s)
}

// ComparisonMode selects how the secondary chart series is derived.
type ComparisonMode string

const (
	CompareNone     ComparisonMode = "none"
	ComparePrevious ComparisonMode = "previous-period"
	CompareLastYear ComparisonMode = "same-period-last-year"
	CompareForecast ComparisonMode = "forecast"
)

func ParseComparisonMode(s string) (ComparisonMode, error) {
	switch ComparisonMode(s) {
	case CompareNone, ComparePrevious, CompareLastYear, CompareForecast:
		return ComparisonMode(s), nil
	}
	return "", fmt.Errorf("%w: comparison mode %q", ErrUnknownEnum, s)
}

// DateRange bounds a custom reporting period. Both bounds are required and
// From must not be after To, but only when the custom period is selected.
type DateRange struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

// Validate reports whether the range is usable for aggregation.
func (r DateRange) Validate() error {
	if r.From == nil || r.To == nil {
		return fmt.Errorf("%w: both bounds are required", ErrInvalidDateRange)
	}
	if r.From.After(*r.To) {
		return fmt.Errorf("%w: from %s is after to %s",
			ErrInvalidDateRange, r.From.Format("2006-01-02"), r.To.Format("2006-01-02"))
	}
	return nil
}

// TimeSeriesPoint is one chart sample. Labels are unique within a series and
// ordering is chronological, preserved from the source snapshot.
type TimeSeriesPoint struct {
	Label           string   `json:"label"`
	Value           float64  `json:"value"`
	ComparisonValue *float64 `json:"comparison_value,omitempty"`
}

// UsagePeriodRecord is one pre-aggregated monthly or yearly bucket as
// delivered by the snapshot layer.
type UsagePeriodRecord struct {
	Label        string  `json:"label"` // "2024-01" for monthly, "2024" for yearly
	TotalEnergy  float64 `json:"total_energy"`
	TotalRevenue float64 `json:"total_revenue"`
	SessionCount int     `json:"session_count"`
}

// UsageSnapshot is the immutable time-series input for one render cycle.
// A refetch produces a wholly new snapshot, never an in-place patch.
type UsageSnapshot struct {
	Monthly   []UsagePeriodRecord `json:"monthly"`
	Yearly    []UsagePeriodRecord `json:"yearly"`
	FetchedAt time.Time           `json:"fetched_at"`
}

// EntityUtilizationRecord is one row per charger. All numeric fields are >= 0;
// rates are percentages in [0,100].
type EntityUtilizationRecord struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Location         string    `json:"location"`
	IsOnline         bool      `json:"is_online"`
	Sessions         int       `json:"sessions"`
	EnergyDelivered  float64   `json:"energy_delivered"` // kWh
	Revenue          float64   `json:"revenue"`
	HoursActive      float64   `json:"hours_active"`
	AvailabilityRate float64   `json:"availability_rate"` // percent
	UtilizationRate  float64   `json:"utilization_rate"`  // percent
	ConnectorCount   int       `json:"connector_count"`
	LastSession      time.Time `json:"last_session"`
}

// UserActivityRecord is one row per driver account, feeding the detail table
// when the selected metric is "users".
type UserActivityRecord struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Location       string  `json:"location"` // most frequent charging location
	Date           string  `json:"date"`     // last activity, "2006-01-02"
	Sessions       int     `json:"sessions"`
	EnergyConsumed float64 `json:"energy_consumed"` // kWh
	ActiveUsers    int     `json:"active_users"`    // cohort size sharing this row
	Utilization    float64 `json:"utilization"`     // percent of days active
}

// GroupedAggregate is one slice of a distribution chart.
type GroupedAggregate struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// RankedEntry is one bar of the top-N chart. Value is always > 0.
type RankedEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// DetailRow is the unified projection shown in the searchable detail table.
type DetailRow struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Date        string  `json:"date"`
	MetricValue float64 `json:"metric_value"`
	Sessions    int     `json:"sessions"`
	Utilization float64 `json:"utilization"`
	Users       int     `json:"users"`
}

// FilterState is the single value driving every derived view model. It is
// replaced, never mutated in place, on each viewer interaction.
type FilterState struct {
	Metric         MetricKind     `json:"metric"`
	TimePeriod     TimePeriod     `json:"time_period"`
	DateRange      DateRange      `json:"date_range"`
	GroupBy        GroupKey       `json:"group_by"`
	SortBy         SortField      `json:"sort_by"`
	TopCount       int            `json:"top_count"`
	ComparisonMode ComparisonMode `json:"comparison_mode"`
}

// DefaultFilterState is the state a fresh viewer session starts from.
func DefaultFilterState() FilterState {
	return FilterState{
		Metric:         MetricEnergy,
		TimePeriod:     PeriodMonthly,
		GroupBy:        GroupByLocation,
		SortBy:         SortByRevenue,
		TopCount:       10,
		ComparisonMode: CompareNone,
	}
}
