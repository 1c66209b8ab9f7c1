package analytics

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/voltgrid/opsconsole/internal/domain"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func testSnapshots() Snapshots {
	return Snapshots{
		Usage:       sampleSnapshot(),
		Utilization: utilizationFixture(),
		UserActivity: []domain.UserActivityRecord{
			{ID: "u-1", Name: "Fleet North", Sessions: 6, ActiveUsers: 4},
		},
	}
}

func TestOrchestrator_DefaultView(t *testing.T) {
	// Arrange
	o := NewOrchestrator(newTestLogger())
	o.ApplySnapshots(o.Generation(), testSnapshots())

	// Act
	view, err := o.View()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(view.Series) != 3 {
		t.Errorf("expected 3 series points, got %d", len(view.Series))
	}
	if len(view.Groups) == 0 || len(view.Top) == 0 {
		t.Errorf("expected groups and top entries, got %+v", view)
	}
	if view.MetricLabel != "Energy (kWh)" {
		t.Errorf("expected default metric label, got %q", view.MetricLabel)
	}
}

func TestOrchestrator_NoSnapshotsYieldsEmptyState(t *testing.T) {
	o := NewOrchestrator(newTestLogger())

	view, err := o.View()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(view.Series) != 0 || len(view.Groups) != 0 || len(view.Top) != 0 {
		t.Errorf("expected empty view models before any fetch, got %+v", view)
	}
}

func TestOrchestrator_ViewIsIdempotent(t *testing.T) {
	// Arrange
	o := NewOrchestrator(newTestLogger())
	o.ApplySnapshots(o.Generation(), testSnapshots())

	// Act
	first, err := o.View()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := o.View()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Assert: recomputation accumulates no state
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical views for identical state and snapshots")
	}
}

func TestOrchestrator_FilterChangeInvalidatesInFlightFetch(t *testing.T) {
	// Arrange: a fetch is issued for the current generation
	o := NewOrchestrator(newTestLogger())
	staleGen := o.Generation()

	// Act: the viewer changes a filter before the fetch lands
	if err := o.OnMetricChange("revenue"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	accepted := o.ApplySnapshots(staleGen, testSnapshots())

	// Assert: the stale delivery is discarded
	if accepted {
		t.Error("expected stale snapshot delivery to be discarded")
	}
	view, err := o.View()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(view.Series) != 0 {
		t.Error("expected no data from a discarded delivery")
	}

	// A delivery for the current generation is accepted
	if !o.ApplySnapshots(o.Generation(), testSnapshots()) {
		t.Error("expected current-generation delivery to be accepted")
	}
}

func TestOrchestrator_SettersReplaceState(t *testing.T) {
	o := NewOrchestrator(newTestLogger())
	before := o.Filters()

	if err := o.OnGroupByChange("onlineStatus"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	after := o.Filters()
	if after.GroupBy != domain.GroupByOnlineStatus {
		t.Errorf("expected group key to change, got %s", after.GroupBy)
	}
	// Other fields carried over unchanged
	if after.Metric != before.Metric || after.TopCount != before.TopCount {
		t.Error("expected unrelated fields to carry over")
	}
}

func TestOrchestrator_UnknownEnumFailsFast(t *testing.T) {
	o := NewOrchestrator(newTestLogger())

	cases := []error{
		o.OnMetricChange("bananas"),
		o.OnTimePeriodChange("fortnightly"),
		o.OnGroupByChange("postcode"),
		o.OnSortByChange("popularity"),
		o.OnComparisonModeChange("sideways"),
		o.OnSortColumn("favorite"),
	}
	for i, err := range cases {
		if !errors.Is(err, domain.ErrUnknownEnum) {
			t.Errorf("case %d: expected ErrUnknownEnum, got %v", i, err)
		}
	}
}

func TestOrchestrator_CustomPeriodRequiresValidRange(t *testing.T) {
	// Arrange
	o := NewOrchestrator(newTestLogger())
	o.ApplySnapshots(o.Generation(), testSnapshots())
	if err := o.OnTimePeriodChange("custom"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Act: no bounds set yet
	_, err := o.View()

	// Assert: aggregation refuses to run
	if !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}

	// Inverted bounds are also rejected
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	o.OnDateRangeChange(&from, &to)
	if _, err := o.View(); !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange for inverted bounds, got %v", err)
	}

	// A valid range unblocks derivation
	o.OnDateRangeChange(&to, &from)
	o.ApplySnapshots(o.Generation(), testSnapshots())
	if _, err := o.View(); err != nil {
		t.Fatalf("expected no error with valid range, got %v", err)
	}
}

func TestOrchestrator_PeriodSwitchDropsSeries(t *testing.T) {
	// Arrange: monthly view has data
	o := NewOrchestrator(newTestLogger())
	o.ApplySnapshots(o.Generation(), testSnapshots())
	view, err := o.View()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(view.Series) == 0 {
		t.Fatal("expected monthly series data")
	}

	// Act: switch to a period without a pre-aggregated bucket
	if err := o.OnTimePeriodChange("weekly"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	o.ApplySnapshots(o.Generation(), testSnapshots())
	view, err = o.View()

	// Assert: no stale series remains visible
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(view.Series) != 0 {
		t.Errorf("expected empty series after period switch, got %d points", len(view.Series))
	}
}

func TestOrchestrator_TopCountFlowsThrough(t *testing.T) {
	o := NewOrchestrator(newTestLogger())
	o.OnTopCountChange(1)
	o.ApplySnapshots(o.Generation(), testSnapshots())

	view, err := o.View()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(view.Top) != 1 {
		t.Errorf("expected 1 ranked entry, got %d", len(view.Top))
	}
}

func TestOrchestrator_TableInteraction(t *testing.T) {
	// Arrange
	o := NewOrchestrator(newTestLogger())
	o.ApplySnapshots(o.Generation(), testSnapshots())

	// Act: search for a station name
	o.OnSearch("station c")
	view, err := o.View()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if view.Table.TotalRows != 1 {
		t.Fatalf("expected 1 matching row, got %d", view.Table.TotalRows)
	}
	if view.Table.Rows[0].Name != "Station C" {
		t.Errorf("expected 'Station C', got %q", view.Table.Rows[0].Name)
	}
}

func TestOrchestrator_ExportCSVUsesVisibleRows(t *testing.T) {
	// Arrange
	o := NewOrchestrator(newTestLogger())
	o.ApplySnapshots(o.Generation(), testSnapshots())
	o.OnSearch("station a")

	// Act
	out, err := o.ExportCSV()

	// Assert: only the filtered rows are exported, plus the header
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	lines := 0
	for _, c := range out {
		if c == '\n' {
			lines++
		}
	}
	if lines != 2 {
		t.Errorf("expected header plus 1 row, got %d lines", lines)
	}
}
