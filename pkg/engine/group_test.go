package engine

import "testing"

func TestGroupRecords_DiscoveryOrderAndCompleteness(t *testing.T) {
	data := []Record{
		{"id": 1, "brand": "acme"},
		{"id": 2, "brand": "bolt"},
		{"id": 3, "brand": "acme"},
		{"id": 4, "brand": "crux"},
		{"id": 5, "brand": "bolt"},
	}

	groups := GroupRecords(data, "brand")

	wantKeys := []string{"acme", "bolt", "crux"}
	if len(groups) != len(wantKeys) {
		t.Fatalf("len(groups) = %d, want %d", len(groups), len(wantKeys))
	}
	for i, g := range groups {
		if g.Key != wantKeys[i] {
			t.Errorf("groups[%d].Key = %q, want %q (discovery order)", i, g.Key, wantKeys[i])
		}
	}

	// Completeness: concatenating groups is a permutation of the input.
	total := 0
	seen := map[any]bool{}
	for _, g := range groups {
		total += len(g.Records)
		for _, rec := range g.Records {
			if seen[rec["id"]] {
				t.Errorf("record %v appears in more than one group", rec["id"])
			}
			seen[rec["id"]] = true
		}
	}
	if total != len(data) {
		t.Errorf("total grouped records = %d, want %d", total, len(data))
	}

	// Relative order within a group matches input order.
	acme := groups[0].Records
	if acme[0]["id"] != 1 || acme[1]["id"] != 3 {
		t.Errorf("acme group = [%v, %v], want [1, 3]", acme[0]["id"], acme[1]["id"])
	}
}

func TestGroupRecords_MissingFieldGroupsUnderEmptyKey(t *testing.T) {
	data := []Record{{"id": 1}, {"id": 2, "brand": "acme"}}

	groups := GroupRecords(data, "brand")

	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}
	if groups[0].Key != "" {
		t.Errorf("first group key = %q, want empty string", groups[0].Key)
	}
}

func TestGroupRecords_NumericKeysStringCoerced(t *testing.T) {
	data := []Record{{"tier": 1}, {"tier": 2}, {"tier": 1}}

	groups := GroupRecords(data, "tier")

	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}
	if groups[0].Key != "1" || groups[1].Key != "2" {
		t.Errorf("keys = [%q, %q], want [1, 2]", groups[0].Key, groups[1].Key)
	}
}

func TestDeduplicate_FirstWins(t *testing.T) {
	data := []Record{
		{"id": 1, "v": "a"},
		{"id": 1, "v": "b"},
		{"id": 2, "v": "c"},
	}

	got := Deduplicate(data, "id")

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0]["v"] != "a" {
		t.Errorf("got[0].v = %v, want a (first occurrence wins)", got[0]["v"])
	}
	if got[1]["v"] != "c" {
		t.Errorf("got[1].v = %v, want c", got[1]["v"])
	}
}

func TestDeduplicate_EmptyInput(t *testing.T) {
	got := Deduplicate(nil, "id")
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}
