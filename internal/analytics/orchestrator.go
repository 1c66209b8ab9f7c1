package analytics

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/voltgrid/opsconsole/internal/domain"
)

// Snapshots bundles the immutable inputs for one render cycle. The fetch
// layer owns them; the orchestrator only reads.
type Snapshots struct {
	Usage        domain.UsageSnapshot
	Utilization  []domain.EntityUtilizationRecord
	UserActivity []domain.UserActivityRecord
}

// View is the full set of derived view models republished to the rendering
// layer after every filter change.
type View struct {
	Filters     domain.FilterState        `json:"filters"`
	MetricLabel string                    `json:"metric_label"`
	Series      []domain.TimeSeriesPoint  `json:"series"`
	Groups      []domain.GroupedAggregate `json:"groups"`
	Top         []domain.RankedEntry      `json:"top"`
	Table       TablePage                 `json:"table"`
}

// Orchestrator owns the FilterState for one viewer session and re-derives all
// view models from it plus the latest snapshots. Filter setters replace the
// state value rather than mutating it in place; each replacement bumps the
// request generation so a superseded fetch delivering late is discarded
// instead of applied.
type Orchestrator struct {
	mu         sync.Mutex
	state      domain.FilterState
	table      *TableEngine
	snaps      Snapshots
	haveSnaps  bool
	generation uint64

	log *zap.Logger
}

// NewOrchestrator creates an orchestrator with default filter state.
func NewOrchestrator(log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		state: domain.DefaultFilterState(),
		table: NewTableEngine(),
		log:   log,
	}
}

// Filters returns a copy of the current filter state.
func (o *Orchestrator) Filters() domain.FilterState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Generation identifies the filter state a fetch was issued for. The fetch
// layer passes it back to ApplySnapshots.
func (o *Orchestrator) Generation() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.generation
}

// ApplySnapshots installs freshly fetched snapshots. Snapshots requested for
// an older filter generation are stale and are dropped; the return value
// reports whether the snapshots were accepted.
func (o *Orchestrator) ApplySnapshots(generation uint64, snaps Snapshots) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if generation != o.generation {
		o.log.Debug("Discarding stale snapshot delivery",
			zap.Uint64("delivered", generation),
			zap.Uint64("current", o.generation),
		)
		return false
	}
	o.snaps = snaps
	o.haveSnaps = true
	return true
}

// replace swaps in a new filter state and invalidates in-flight fetches.
func (o *Orchestrator) replace(next domain.FilterState) {
	o.state = next
	o.generation++
}

// OnMetricChange selects the charted metric.
func (o *Orchestrator) OnMetricChange(metric string) error {
	m, err := domain.ParseMetricKind(metric)
	if err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	next := o.state
	next.Metric = m
	o.replace(next)
	return nil
}

// OnTimePeriodChange selects the reporting period. The generation bump makes
// every view model, the series included, derive fresh from the next snapshot
// delivery, so a period switch never shows chart data from the old period.
func (o *Orchestrator) OnTimePeriodChange(period string) error {
	p, err := domain.ParseTimePeriod(period)
	if err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	next := o.state
	next.TimePeriod = p
	o.replace(next)
	return nil
}

// OnDateRangeChange sets the custom period bounds. The bounds are stored as
// given; validation gates derivation, not entry, so a half-filled picker does
// not error.
func (o *Orchestrator) OnDateRangeChange(from, to *time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	next := o.state
	next.DateRange = domain.DateRange{From: from, To: to}
	o.replace(next)
}

// OnGroupByChange selects the distribution partition key.
func (o *Orchestrator) OnGroupByChange(groupBy string) error {
	g, err := domain.ParseGroupKey(groupBy)
	if err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	next := o.state
	next.GroupBy = g
	o.replace(next)
	return nil
}

// OnSortByChange selects the ranking field for the top-N view.
func (o *Orchestrator) OnSortByChange(sortBy string) error {
	s, err := domain.ParseSortField(sortBy)
	if err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	next := o.state
	next.SortBy = s
	o.replace(next)
	return nil
}

// OnTopCountChange sets the ranking length. Non-positive counts are kept as
// zero and yield an empty ranking.
func (o *Orchestrator) OnTopCountChange(count int) {
	if count < 0 {
		count = 0
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	next := o.state
	next.TopCount = count
	o.replace(next)
}

// OnComparisonModeChange selects the secondary series derivation.
func (o *Orchestrator) OnComparisonModeChange(mode string) error {
	m, err := domain.ParseComparisonMode(mode)
	if err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	next := o.state
	next.ComparisonMode = m
	o.replace(next)
	return nil
}

// OnSearch applies a free-text query to the detail table. Searching resets
// pagination to the first page. Table interaction does not invalidate
// snapshots, so the generation is untouched.
func (o *Orchestrator) OnSearch(query string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.table.Search(query)
}

// OnSortColumn sorts the detail table, toggling direction on repeat.
func (o *Orchestrator) OnSortColumn(col string) error {
	c, err := ParseTableColumn(col)
	if err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.table.SortBy(c)
	return nil
}

// OnPageChange moves the detail table to the given page.
func (o *Orchestrator) OnPageChange(page int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.table.SetPage(page)
}

// OnPageSizeChange changes the detail table page size.
func (o *Orchestrator) OnPageSizeChange(size int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.table.SetPageSize(size)
}

// TableState exposes the current table interaction state.
func (o *Orchestrator) TableState() TableState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.table.State()
}

// View recomputes every derived view model from the current filter state and
// the latest snapshots. For a fixed state and snapshot the result is
// identical however many times it is called. A custom period with an invalid
// range refuses to aggregate and surfaces the validation error instead.
func (o *Orchestrator) View() (View, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.TimePeriod == domain.PeriodCustom {
		if err := o.state.DateRange.Validate(); err != nil {
			return View{}, err
		}
	}

	view := View{
		Filters:     o.state,
		MetricLabel: MetricLabel(o.state.Metric),
	}
	if !o.haveSnaps {
		// Nothing fetched yet: publish an explicit empty state.
		view.Series = []domain.TimeSeriesPoint{}
		view.Groups = []domain.GroupedAggregate{}
		view.Top = []domain.RankedEntry{}
		view.Table = o.table.Apply(nil)
		return view, nil
	}

	series, err := Format(o.snaps.Usage, o.state.Metric, o.state.TimePeriod)
	if err != nil {
		return View{}, err
	}
	series, err = Synthesize(series, o.state.ComparisonMode)
	if err != nil {
		return View{}, err
	}
	view.Series = series

	view.Groups, err = Aggregate(o.snaps.Utilization, o.state.GroupBy, o.state.Metric)
	if err != nil {
		return View{}, err
	}

	view.Top, err = Rank(o.snaps.Utilization, o.state.SortBy, o.state.TopCount)
	if err != nil {
		return View{}, err
	}

	rows, err := Project(o.snaps.Utilization, o.snaps.UserActivity, o.state.Metric)
	if err != nil {
		return View{}, err
	}
	view.Table = o.table.Apply(rows)

	return view, nil
}

// ExportCSV serializes the currently visible (searched, sorted, unpaginated)
// detail rows.
func (o *Orchestrator) ExportCSV() (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.TimePeriod == domain.PeriodCustom {
		if err := o.state.DateRange.Validate(); err != nil {
			return "", err
		}
	}

	var rows []domain.DetailRow
	if o.haveSnaps {
		projected, err := Project(o.snaps.Utilization, o.snaps.UserActivity, o.state.Metric)
		if err != nil {
			return "", err
		}
		rows = o.table.Visible(projected)
	}
	return ToCSV(rows, MetricLabel(o.state.Metric))
}
