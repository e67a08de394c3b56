package analysis

import (
	"encoding/json"
	"testing"
)

func TestSelectionToggle(t *testing.T) {
	base := NewSelectionSet("A", "B", "A", "", "C")
	if !equalStrings(base.Codes(), []string{"A", "B", "C"}) {
		t.Fatalf("codes = %v", base.Codes())
	}

	added := base.Toggle("D")
	if !equalStrings(added.Codes(), []string{"A", "B", "C", "D"}) {
		t.Fatalf("after add = %v", added.Codes())
	}
	if base.Len() != 3 {
		t.Fatal("Toggle mutated the receiver")
	}

	removed := added.Toggle("A")
	if removed.Contains("A") || !equalStrings(removed.Codes(), []string{"B", "C", "D"}) {
		t.Fatalf("after remove = %v", removed.Codes())
	}
	readded := removed.Toggle("A")
	if !equalStrings(readded.Codes(), []string{"B", "C", "D", "A"}) {
		t.Fatalf("re-added code must move to the end, got %v", readded.Codes())
	}
}

func TestSelectionJSON(t *testing.T) {
	data, err := json.Marshal(NewSelectionSet("X", "Y"))
	if err != nil || string(data) != `["X","Y"]` {
		t.Fatalf("marshal = %s, %v", data, err)
	}
	var back SelectionSet
	if err := json.Unmarshal([]byte(`["Y","X","Y"]`), &back); err != nil {
		t.Fatal(err)
	}
	if !equalStrings(back.Codes(), []string{"Y", "X"}) {
		t.Fatalf("unmarshal = %v", back.Codes())
	}
}

func TestDefaultSelectionTopByGDP(t *testing.T) {
	records := bundleOf(8).Countries
	// reverse so input order differs from GDP order
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	sel := DefaultSelection(records, 5)
	if !equalStrings(sel.Codes(), []string{"C000", "C001", "C002", "C003", "C004"}) {
		t.Fatalf("default = %v", sel.Codes())
	}
	if DefaultSelection(records[:2], 5).Len() != 2 {
		t.Fatal("short store must select what it has")
	}
}
