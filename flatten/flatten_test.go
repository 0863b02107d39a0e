package flatten_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/modelkit/flatten"
)

func TestFlatten_NestedListOfMaps(t *testing.T) {
	in := map[string]any{"a": []any{map[string]any{"b": 1}}}
	flat := flatten.Flatten(in)
	if diff := cmp.Diff(map[string]any{"a.0.b": 1}, flat); diff != "" {
		t.Fatalf("flatten mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(in, flatten.Expand(flat)); diff != "" {
		t.Fatalf("expand mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten_MarkersPrefixAndNone(t *testing.T) {
	in := map[string]any{
		"name":  "x",
		"tags":  []any{},
		"meta":  map[string]any{},
		"empty": nil,
		"deep":  map[string]any{"list": []any{"a", []any{"b", "c"}}},
	}
	got := flatten.Flatten(in, flatten.Options{Prefix: "doc"})
	want := map[string]any{
		"doc.name":          "x",
		"doc.tags":          "[]",
		"doc.meta":          "{}",
		"doc.deep.list.0":   "a",
		"doc.deep.list.1.0": "b",
		"doc.deep.list.1.1": "c",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("flatten mismatch (-want +got):\n%s", diff)
	}

	kept := flatten.Flatten(map[string]any{"empty": nil}, flatten.Options{KeepNone: true})
	if diff := cmp.Diff(map[string]any{"empty": nil}, kept); diff != "" {
		t.Fatalf("keep none mismatch (-want +got):\n%s", diff)
	}
}

func TestExpand_RoundTrip(t *testing.T) {
	cases := []map[string]any{
		{},
		{"a": 1, "b": "two", "c": true},
		{"list": []any{1, 2, 3}},
		{"matrix": []any{[]any{1, 2}, []any{3}}},
		{"empty": []any{}, "nothing": map[string]any{}},
		{"users": []any{map[string]any{"name": "a", "roles": []any{"x"}}, map[string]any{"name": "b", "roles": []any{}}}},
		{"m": map[string]any{"k1": map[string]any{"k2": 2.5}}},
		{"holes": []any{1, nil, 3}},
		{"only": []any{nil}, "nested": []any{[]any{nil, "x"}, 2}},
	}
	for _, in := range cases {
		if diff := cmp.Diff(in, flatten.Expand(flatten.Flatten(in))); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestFlatten_NilListElementsKeepTheirIndex(t *testing.T) {
	got := flatten.Flatten(map[string]any{"a": []any{1, nil, 3}, "gone": nil})
	want := map[string]any{"a.0": 1, "a.1": nil, "a.2": 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("flatten mismatch (-want +got):\n%s", diff)
	}
}

func TestExpand_SparseIndicesStayMaps(t *testing.T) {
	got := flatten.Expand(map[string]any{"a.0": 1, "a.2": 3, "b.01": "x"})
	want := map[string]any{
		"a": map[string]any{"0": 1, "2": 3},
		"b": map[string]any{"01": "x"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("expand mismatch (-want +got):\n%s", diff)
	}
}

func TestExpand_ParentWinsOverLeaf(t *testing.T) {
	got := flatten.Expand(map[string]any{"a": 1, "a.b": 2})
	if diff := cmp.Diff(map[string]any{"a": map[string]any{"b": 2}}, got); diff != "" {
		t.Fatalf("expand mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten_TypedContainers(t *testing.T) {
	got := flatten.Flatten(map[string]any{"ints": []int{1, 2}, "m": map[string]int{"a": 1}})
	want := map[string]any{"ints.0": 1, "ints.1": 2, "m.a": 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("flatten mismatch (-want +got):\n%s", diff)
	}
}
