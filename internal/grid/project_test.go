package grid_test

import (
	"reflect"
	"testing"

	"gridbook/internal/grid"
)

func demoColumns() []grid.Column {
	return []grid.Column{
		{Field: "id", Header: "ID"},
		{Field: "firstName", Header: "First Name"},
		{Field: "lastName", Header: "Last Name"},
		{Field: "country", Header: "Country"},
	}
}

func headerLabels(p grid.Projection) []string {
	labels := make([]string, len(p.Headers))
	for i, h := range p.Headers {
		labels[i] = h.Header
	}
	return labels
}

func TestProject_HiddenColumnExcludedInDisplayOrder(t *testing.T) {
	state := grid.ViewState{
		ColumnVisibility: map[string]bool{"lastName": false},
		OrderedFields:    []string{"lastName", "id", "firstName", "country"},
	}
	p := grid.Project(demoColumns(), state, sampleRows())

	want := []grid.Header{
		{Header: "ID", Field: "id"},
		{Header: "First Name", Field: "firstName"},
		{Header: "Country", Field: "country"},
	}
	if !reflect.DeepEqual(p.Headers, want) {
		t.Fatalf("headers = %+v, want %+v", p.Headers, want)
	}
}

func TestProject_EmptyStateUsesRegistryOrder(t *testing.T) {
	p := grid.Project(demoColumns(), grid.ViewState{}, sampleRows())
	want := []string{"ID", "First Name", "Last Name", "Country"}
	if !reflect.DeepEqual(headerLabels(p), want) {
		t.Fatalf("headers = %v, want %v", headerLabels(p), want)
	}
	if len(p.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(p.Rows))
	}
}

func TestProject_UnknownFieldDropped(t *testing.T) {
	state := grid.ViewState{
		OrderedFields: []string{"id", "ghost", "country"},
	}
	p := grid.Project(demoColumns(), state, nil)
	want := []string{"ID", "Country"}
	if !reflect.DeepEqual(headerLabels(p), want) {
		t.Fatalf("headers = %v, want %v", headerLabels(p), want)
	}
}

func TestProject_HeaderDefaultsToField(t *testing.T) {
	cols := []grid.Column{{Field: "salary"}}
	p := grid.Project(cols, grid.ViewState{}, nil)
	if len(p.Headers) != 1 || p.Headers[0].Header != "salary" {
		t.Fatalf("headers = %+v, want label 'salary'", p.Headers)
	}
}

func TestProject_FilterThenSort(t *testing.T) {
	state := grid.ViewState{
		OrderedFields: []string{"firstName", "country"},
		FilterModel:   []grid.FilterItem{{Field: "firstName", Operator: "contains", Value: "a"}},
		SortModel:     []grid.SortItem{{Field: "firstName", Sort: "asc"}},
	}
	p := grid.Project(demoColumns(), state, sampleRows())
	got := rowNames(p.Rows)
	want := []string{"Arya", "Cersei"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
}

func TestProject_SortOnHiddenColumnSkipped(t *testing.T) {
	state := grid.ViewState{
		ColumnVisibility: map[string]bool{"firstName": false},
		OrderedFields:    []string{"id", "firstName", "country"},
		SortModel:        []grid.SortItem{{Field: "firstName", Sort: "asc"}},
	}
	p := grid.Project(demoColumns(), state, sampleRows())
	// Sort target is hidden, so rows stay in source order.
	got := make([]any, len(p.Rows))
	for i, r := range p.Rows {
		got[i] = r["id"]
	}
	want := []any{float64(1), float64(2), float64(3)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("rows = %v, want source order %v", got, want)
	}
}

func TestProject_NoColumnsYieldsEmptyProjection(t *testing.T) {
	p := grid.Project(nil, grid.ViewState{}, nil)
	if len(p.Headers) != 0 || len(p.Rows) != 0 {
		t.Fatalf("projection = %+v, want empty", p)
	}
	if p.Rows == nil {
		t.Fatal("rows should be an empty slice, not nil")
	}
}
