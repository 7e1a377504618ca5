package persona

// Store exposes persona retrieval to handlers and the companion service.
type Store interface {
	List() []Persona
	FindByID(id string) (Persona, bool)
	Default() Persona
}

// MemoryStore keeps the seeded personas in a slice.
type MemoryStore struct {
	items []Persona
}

func NewMemoryStore(items []Persona) *MemoryStore {
	return &MemoryStore{items: append([]Persona(nil), items...)}
}

func (s *MemoryStore) List() []Persona {
	return append([]Persona(nil), s.items...)
}

func (s *MemoryStore) FindByID(id string) (Persona, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Persona{}, false
}

// Default returns the DefaultID persona, the first item, or the built-in seed
// when the store is empty.
func (s *MemoryStore) Default() Persona {
	if p, ok := s.FindByID(DefaultID); ok {
		return p
	}
	if len(s.items) > 0 {
		return s.items[0]
	}
	return Seed()[0]
}
