package analytics

import (
	"errors"
	"reflect"
	"testing"

	"github.com/voltgrid/opsconsole/internal/domain"
)

func utilizationFixture() []domain.EntityUtilizationRecord {
	return []domain.EntityUtilizationRecord{
		{ID: "cp-1", Name: "Station A", Location: "X", IsOnline: true, Sessions: 4, EnergyDelivered: 10, Revenue: 5, ConnectorCount: 2},
		{ID: "cp-2", Name: "Station B", Location: "X", IsOnline: false, Sessions: 2, EnergyDelivered: 5, Revenue: 2.5, ConnectorCount: 1},
		{ID: "cp-3", Name: "Station C", Location: "Y", IsOnline: true, Sessions: 8, EnergyDelivered: 20, Revenue: 10, ConnectorCount: 2},
	}
}

func TestAggregate_ByLocation(t *testing.T) {
	// Arrange
	records := utilizationFixture()

	// Act
	groups, err := Aggregate(records, domain.GroupByLocation, domain.MetricEnergy)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []domain.GroupedAggregate{{Key: "X", Value: 15}, {Key: "Y", Value: 20}}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("expected %+v, got %+v", want, groups)
	}
}

func TestAggregate_ClosureInvariant(t *testing.T) {
	// The sum over groups equals the sum of the metric field over all records
	records := utilizationFixture()

	for _, groupBy := range []domain.GroupKey{domain.GroupByLocation, domain.GroupByOnlineStatus, domain.GroupByConnectorCount} {
		groups, err := Aggregate(records, groupBy, domain.MetricRevenue)
		if err != nil {
			t.Fatalf("groupBy %s: expected no error, got %v", groupBy, err)
		}

		var groupTotal, recordTotal float64
		for _, g := range groups {
			groupTotal += g.Value
		}
		for _, r := range records {
			recordTotal += r.Revenue
		}
		if groupTotal != recordTotal {
			t.Errorf("groupBy %s: group total %f != record total %f", groupBy, groupTotal, recordTotal)
		}
	}
}

func TestAggregate_OnlineStatusKeys(t *testing.T) {
	records := utilizationFixture()

	groups, err := Aggregate(records, domain.GroupByOnlineStatus, domain.MetricSessions)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []domain.GroupedAggregate{{Key: "Online", Value: 12}, {Key: "Offline", Value: 2}}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("expected %+v, got %+v", want, groups)
	}
}

func TestAggregate_ConnectorCountBuckets(t *testing.T) {
	// Arrange
	records := []domain.EntityUtilizationRecord{
		{Name: "A", ConnectorCount: 0, Sessions: 1},
		{Name: "B", ConnectorCount: 1, Sessions: 2},
		{Name: "C", ConnectorCount: 3, Sessions: 3},
	}

	// Act
	groups, err := Aggregate(records, domain.GroupByConnectorCount, domain.MetricSessions)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []domain.GroupedAggregate{
		{Key: "None", Value: 1},
		{Key: "1 Connector", Value: 2},
		{Key: "3 Connectors", Value: 3},
	}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("expected %+v, got %+v", want, groups)
	}
}

func TestAggregate_EmptyLocationIsUnknown(t *testing.T) {
	records := []domain.EntityUtilizationRecord{
		{Name: "A", Location: "", EnergyDelivered: 7},
	}

	groups, err := Aggregate(records, domain.GroupByLocation, domain.MetricEnergy)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(groups) != 1 || groups[0].Key != "Unknown" {
		t.Errorf("expected single 'Unknown' group, got %+v", groups)
	}
}

func TestAggregate_DropsZeroGroups(t *testing.T) {
	// Arrange: location Y contributes no revenue
	records := []domain.EntityUtilizationRecord{
		{Name: "A", Location: "X", Revenue: 10},
		{Name: "B", Location: "Y", Revenue: 0},
	}

	// Act
	groups, err := Aggregate(records, domain.GroupByLocation, domain.MetricRevenue)

	// Assert: no zero-value slices
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(groups) != 1 || groups[0].Key != "X" {
		t.Errorf("expected only group X, got %+v", groups)
	}
}

func TestAggregate_ChargersCountsRecords(t *testing.T) {
	records := utilizationFixture()

	groups, err := Aggregate(records, domain.GroupByLocation, domain.MetricChargers)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []domain.GroupedAggregate{{Key: "X", Value: 2}, {Key: "Y", Value: 1}}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("expected %+v, got %+v", want, groups)
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	groups, err := Aggregate(nil, domain.GroupByLocation, domain.MetricEnergy)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("expected empty output, got %+v", groups)
	}
}

func TestAggregate_UnknownGroupKey(t *testing.T) {
	_, err := Aggregate(utilizationFixture(), domain.GroupKey("postcode"), domain.MetricEnergy)
	if !errors.Is(err, domain.ErrUnknownEnum) {
		t.Fatalf("expected ErrUnknownEnum, got %v", err)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	records := utilizationFixture()

	first, err := Aggregate(records, domain.GroupByLocation, domain.MetricEnergy)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := Aggregate(records, domain.GroupByLocation, domain.MetricEnergy)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical output for identical input")
	}
}
