package layering

import (
	"testing"

	object "github.com/goliatone/go-object"
)

func TestNewChainOrdersByPriorityAndDedupes(t *testing.T) {
	arena := object.NewArena()
	a, b, c := arena.Make(), arena.Make(), arena.Make()
	defer a.Release()
	defer b.Release()
	defer c.Release()

	chain := NewChain(
		Layer{Name: "defaults", Priority: 0, Source: a},
		Layer{Name: "document", Priority: 10, Source: b},
		Layer{Name: "defaults", Priority: 99, Source: c},
		Layer{Name: "missing", Priority: 50},
		Layer{Name: "theme", Priority: 5, Source: c},
	)

	ordered := chain.Ordered()
	if len(ordered) != 3 {
		t.Fatalf("expected 3 layers, got %d", len(ordered))
	}
	names := []string{ordered[0].Name, ordered[1].Name, ordered[2].Name}
	want := []string{"document", "theme", "defaults"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, names)
		}
	}
	if chain.Strongest().Name != "document" || chain.Weakest().Name != "defaults" {
		t.Fatalf("unexpected ends: %s / %s", chain.Strongest().Name, chain.Weakest().Name)
	}
	ordered[0].Name = "mutated"
	if chain.Strongest().Name != "document" {
		t.Fatalf("Ordered should return a copy")
	}
}

func TestChainResolveTracksCommits(t *testing.T) {
	arena := object.NewArena()
	doc, defaults := arena.Make(), arena.Make()
	defer doc.Release()
	defer defaults.Release()

	chain := NewChain(
		Layer{Name: "defaults", Priority: 0, Source: defaults},
		Layer{Name: "document", Priority: 1, Source: doc},
	)

	set := func(ref object.Ref, value bool) {
		t.Helper()
		txn := object.NewTransaction()
		d, err := ref.Modify(txn)
		if err != nil {
			t.Fatalf("modify: %v", err)
		}
		if err := d.Set(enabled, value); err != nil {
			t.Fatalf("set: %v", err)
		}
		if err := txn.Commit(nil); err != nil {
			t.Fatalf("commit: %v", err)
		}
	}

	set(defaults, true)
	v, layer, ok := chain.Resolve(enabled)
	if !ok || layer.Name != "defaults" || v.Any() != true {
		t.Fatalf("expected defaults to supply value, got %v from %q", v.Any(), layer.Name)
	}

	set(doc, false)
	v, layer, ok = chain.Resolve(enabled)
	if !ok || layer.Name != "document" || v.Any() != false {
		t.Fatalf("expected document to override, got %v from %q", v.Any(), layer.Name)
	}
	if chain.Merge().Value(enabled).Any() != false {
		t.Fatalf("merged view should follow the strongest layer")
	}

	if _, _, ok := chain.Resolve(tags); ok {
		t.Fatalf("expected miss for unknown key")
	}
	if (Chain{}).Len() != 0 {
		t.Fatalf("zero chain should be empty")
	}
}
