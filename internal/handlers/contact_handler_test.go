package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vieerr/dearmom-backend/internal/auth"
	"github.com/vieerr/dearmom-backend/internal/models"
	"github.com/vieerr/dearmom-backend/internal/service"
	"github.com/vieerr/dearmom-backend/internal/storage"
)

func newTestContactHandler(t *testing.T) (*ContactHandler, *models.User) {
	t.Helper()
	store := storage.NewMemoryStore()
	tokens := auth.NewJWTManager("test-secret-key", 0)
	svc := service.NewUserService(store, tokens)

	user, err := store.CreateUser(context.Background(), "Ana", "a@x.com", "hash", "1234")
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	return NewContactHandler(svc), user
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	encoded, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to encode request: %v", err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(encoded))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeUser(t *testing.T, rec *httptest.ResponseRecorder) *models.User {
	t.Helper()
	var user models.User
	if err := json.NewDecoder(rec.Body).Decode(&user); err != nil {
		t.Fatalf("failed to decode user response: %v", err)
	}
	return &user
}

func TestAddContact_OK(t *testing.T) {
	h, seeded := newTestContactHandler(t)

	rec := doJSON(t, h.Add, http.MethodPatch, "/add-contact", AddContactRequest{
		UserID:  seeded.ID,
		Contact: &models.Contact{Name: "Gran"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	user := decodeUser(t, rec)
	if len(user.Contacts) != 3 {
		t.Fatalf("expected 3 contacts, got %d", len(user.Contacts))
	}
	if user.Contacts[2].Name != "Gran" || user.Contacts[2].ID == "" {
		t.Errorf("expected appended Gran with generated id, got %+v", user.Contacts[2])
	}
}

func TestAddContact_PasswordHashNeverSerialized(t *testing.T) {
	h, seeded := newTestContactHandler(t)

	rec := doJSON(t, h.Add, http.MethodPatch, "/add-contact", AddContactRequest{
		UserID:  seeded.ID,
		Contact: &models.Contact{Name: "Gran"},
	})

	var raw map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	for key := range raw {
		if key == "passwordHash" || key == "password_hash" || key == "password" {
			t.Errorf("response leaks credential field %q", key)
		}
	}
}

func TestAddContact_MissingFields(t *testing.T) {
	h, _ := newTestContactHandler(t)

	rec := doJSON(t, h.Add, http.MethodPatch, "/add-contact", AddContactRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAddContact_UnknownUser(t *testing.T) {
	h, _ := newTestContactHandler(t)

	rec := doJSON(t, h.Add, http.MethodPatch, "/add-contact", AddContactRequest{
		UserID:  "missing",
		Contact: &models.Contact{Name: "Gran"},
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteContact_OK(t *testing.T) {
	h, seeded := newTestContactHandler(t)

	rec := doJSON(t, h.Delete, http.MethodDelete, "/delete-contact", DeleteContactRequest{
		UserID:    seeded.ID,
		ContactID: seeded.Contacts[0].ID,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	user := decodeUser(t, rec)
	if len(user.Contacts) != 1 || user.Contacts[0].Name != "dad" {
		t.Errorf("expected only dad to remain, got %+v", user.Contacts)
	}
}

func TestDeleteContact_AbsentIdStillSucceeds(t *testing.T) {
	h, seeded := newTestContactHandler(t)

	rec := doJSON(t, h.Delete, http.MethodDelete, "/delete-contact", DeleteContactRequest{
		UserID:    seeded.ID,
		ContactID: "no-such-contact",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for absent contact id, got %d", rec.Code)
	}
	if user := decodeUser(t, rec); len(user.Contacts) != 2 {
		t.Errorf("expected unchanged contact list, got %d", len(user.Contacts))
	}
}

func TestDeleteContact_MissingFields(t *testing.T) {
	h, seeded := newTestContactHandler(t)

	rec := doJSON(t, h.Delete, http.MethodDelete, "/delete-contact", DeleteContactRequest{
		UserID: seeded.ID,
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if resp.Error != "userId and contactId are required" {
		t.Errorf("unexpected error message: %q", resp.Error)
	}
}

func TestDeleteContact_UnknownUser(t *testing.T) {
	h, _ := newTestContactHandler(t)

	rec := doJSON(t, h.Delete, http.MethodDelete, "/delete-contact", DeleteContactRequest{
		UserID:    "missing",
		ContactID: "c-1",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateContact_OK(t *testing.T) {
	h, seeded := newTestContactHandler(t)
	dadID := seeded.Contacts[1].ID

	rec := doJSON(t, h.Update, http.MethodPut, "/update-contact", UpdateContactRequest{
		UserID:         seeded.ID,
		ContactID:      dadID,
		UpdatedContact: &models.Contact{Name: "papa", Color: "#green"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	user := decodeUser(t, rec)
	if user.Contacts[1].Name != "papa" {
		t.Errorf("expected renamed contact, got '%s'", user.Contacts[1].Name)
	}
	if user.Contacts[1].ID != dadID {
		t.Error("expected contact id to stay stable across update")
	}
	if user.Contacts[0].Name != "mom" {
		t.Error("expected other contacts untouched")
	}
}

func TestUpdateContact_MissingFields(t *testing.T) {
	h, seeded := newTestContactHandler(t)

	rec := doJSON(t, h.Update, http.MethodPut, "/update-contact", UpdateContactRequest{
		UserID:    seeded.ID,
		ContactID: seeded.Contacts[0].ID,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateContact_UnknownContact(t *testing.T) {
	h, seeded := newTestContactHandler(t)

	rec := doJSON(t, h.Update, http.MethodPut, "/update-contact", UpdateContactRequest{
		UserID:         seeded.ID,
		ContactID:      "no-such-contact",
		UpdatedContact: &models.Contact{Name: "ghost"},
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestContactHandlers_MethodNotAllowed(t *testing.T) {
	h, _ := newTestContactHandler(t)

	cases := []struct {
		name    string
		handler http.HandlerFunc
		method  string
	}{
		{"add with POST", h.Add, http.MethodPost},
		{"delete with GET", h.Delete, http.MethodGet},
		{"update with PATCH", h.Update, http.MethodPatch},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, "/contact", nil)
		rec := httptest.NewRecorder()
		tc.handler(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected 405, got %d", tc.name, rec.Code)
		}
	}
}
