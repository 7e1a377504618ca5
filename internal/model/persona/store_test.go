package persona

import "testing"

func TestMemoryStoreFindByID(t *testing.T) {
	store := NewMemoryStore(Seed())

	got, ok := store.FindByID(DefaultID)
	if !ok {
		t.Fatal("expected seeded persona")
	}
	if got.Name != "Eunoia" {
		t.Fatalf("unexpected persona name %q", got.Name)
	}
	if len(got.RoomObjects) != 4 {
		t.Fatalf("expected 4 room objects, got %d", len(got.RoomObjects))
	}

	if _, ok := store.FindByID("missing"); ok {
		t.Fatal("expected missing persona lookup to fail")
	}
}

func TestMemoryStoreListIsCopy(t *testing.T) {
	store := NewMemoryStore(Seed())
	list := store.List()
	list[0].Name = "mutated"

	if got, _ := store.FindByID(DefaultID); got.Name != "Eunoia" {
		t.Fatalf("store mutated through List result: %q", got.Name)
	}
}

func TestMemoryStoreDefault(t *testing.T) {
	if got := NewMemoryStore(nil).Default(); got.ID != DefaultID {
		t.Fatalf("empty store should fall back to seed, got %q", got.ID)
	}

	custom := NewMemoryStore([]Persona{{ID: "mochi", Name: "Mochi"}})
	if got := custom.Default(); got.ID != "mochi" {
		t.Fatalf("expected first persona, got %q", got.ID)
	}
}
