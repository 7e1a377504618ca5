package persona

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/eunoia/backend/internal/model/persona"
)

func TestListPersonas(t *testing.T) {
	r := chi.NewRouter()
	New(persona.NewMemoryStore(persona.Seed())).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/personas", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var got []persona.Persona
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].ID != persona.DefaultID {
		t.Fatalf("unexpected personas: %+v", got)
	}
	if len(got[0].RoomObjects) != 4 {
		t.Fatalf("expected 4 room objects, got %d", len(got[0].RoomObjects))
	}
}
