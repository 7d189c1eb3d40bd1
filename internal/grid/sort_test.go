package grid_test

import (
	"reflect"
	"testing"

	"gridbook/internal/grid"
)

func TestSort_EmptyModelReturnsInput(t *testing.T) {
	rows := sampleRows()
	out := grid.Sort(rows, nil)
	if !reflect.DeepEqual(rowNames(out), rowNames(rows)) {
		t.Fatalf("empty sort model reordered rows: %v", rowNames(out))
	}
}

func TestSort_AscendingStrings(t *testing.T) {
	out := grid.Sort(sampleRows(), []grid.SortItem{{Field: "firstName", Sort: "asc"}})
	want := []string{"Arya", "Cersei", "Jon"}
	if !reflect.DeepEqual(rowNames(out), want) {
		t.Fatalf("asc = %v, want %v", rowNames(out), want)
	}
}

func TestSort_DescendingIsReverseOfAscending(t *testing.T) {
	asc := grid.Sort(sampleRows(), []grid.SortItem{{Field: "firstName", Sort: "asc"}})
	desc := grid.Sort(sampleRows(), []grid.SortItem{{Field: "firstName", Sort: "desc"}})
	for i := range asc {
		if asc[i]["firstName"] != desc[len(desc)-1-i]["firstName"] {
			t.Fatalf("desc is not the reverse of asc: %v vs %v", rowNames(asc), rowNames(desc))
		}
	}
}

func TestSort_NumericComparison(t *testing.T) {
	rows := []grid.Row{
		{"name": "a", "salary": float64(1500)},
		{"name": "b", "salary": float64(200)},
		{"name": "c", "salary": float64(1000)},
	}
	out := grid.Sort(rows, []grid.SortItem{{Field: "salary", Sort: "asc"}})
	got := []any{out[0]["salary"], out[1]["salary"], out[2]["salary"]}
	want := []any{float64(200), float64(1000), float64(1500)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("numeric asc = %v, want %v (lexicographic would give 1000,1500,200)", got, want)
	}
}

func TestSort_StringValuesCompareLexicographically(t *testing.T) {
	rows := []grid.Row{
		{"code": "10"},
		{"code": "9"},
	}
	out := grid.Sort(rows, []grid.SortItem{{Field: "code", Sort: "asc"}})
	got := []any{out[0]["code"], out[1]["code"]}
	want := []any{"10", "9"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("string cells coerced to numbers: asc = %v, want %v", got, want)
	}

	out = grid.Sort(rows, []grid.SortItem{{Field: "code", Sort: "desc"}})
	got = []any{out[0]["code"], out[1]["code"]}
	want = []any{"9", "10"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("string cells coerced to numbers: desc = %v, want %v", got, want)
	}
}

func TestSort_NullsFirstAscending(t *testing.T) {
	rows := []grid.Row{
		{"name": "x", "dept": "ABC"},
		{"name": "y"},
		{"name": "z", "dept": "XYZ"},
	}
	out := grid.Sort(rows, []grid.SortItem{{Field: "dept", Sort: "asc"}})
	if out[0]["name"] != "y" {
		t.Fatalf("asc should place the null row first, got %v", out[0]["name"])
	}

	out = grid.Sort(rows, []grid.SortItem{{Field: "dept", Sort: "desc"}})
	if out[2]["name"] != "y" {
		t.Fatalf("desc should place the null row last, got %v", out[2]["name"])
	}
}

func TestSort_Stability(t *testing.T) {
	rows := []grid.Row{
		{"id": float64(1), "group": "a"},
		{"id": float64(2), "group": "b"},
		{"id": float64(3), "group": "a"},
		{"id": float64(4), "group": "b"},
	}
	out := grid.Sort(rows, []grid.SortItem{{Field: "group", Sort: "asc"}})
	ids := []any{out[0]["id"], out[1]["id"], out[2]["id"], out[3]["id"]}
	want := []any{float64(1), float64(3), float64(2), float64(4)}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("ties reordered: %v, want %v", ids, want)
	}
}

func TestSort_IdempotentOnSortedInput(t *testing.T) {
	once := grid.Sort(sampleRows(), []grid.SortItem{{Field: "firstName", Sort: "asc"}})
	twice := grid.Sort(once, []grid.SortItem{{Field: "firstName", Sort: "asc"}})
	if !reflect.DeepEqual(rowNames(once), rowNames(twice)) {
		t.Fatalf("re-sorting changed order: %v vs %v", rowNames(once), rowNames(twice))
	}
}

func TestSort_OnlyFirstItemHonored(t *testing.T) {
	rows := []grid.Row{
		{"a": "2", "b": "1"},
		{"a": "1", "b": "2"},
		{"a": "1", "b": "1"},
	}
	out := grid.Sort(rows, []grid.SortItem{
		{Field: "a", Sort: "asc"},
		{Field: "b", Sort: "desc"},
	})
	// Second entry ignored: a-ties keep input order.
	if out[0]["b"] != "2" || out[1]["b"] != "1" {
		t.Fatalf("second sort entry was applied: %v", out)
	}
}

func TestSort_InvalidDirectionReturnsInputOrder(t *testing.T) {
	rows := sampleRows()
	out := grid.Sort(rows, []grid.SortItem{{Field: "firstName", Sort: ""}})
	if !reflect.DeepEqual(rowNames(out), rowNames(rows)) {
		t.Fatalf("blank direction reordered rows: %v", rowNames(out))
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	rows := sampleRows()
	grid.Sort(rows, []grid.SortItem{{Field: "firstName", Sort: "asc"}})
	if rows[0]["firstName"] != "Jon" {
		t.Fatal("input slice was mutated")
	}
}
