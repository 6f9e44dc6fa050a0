package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vieerr/dearmom-backend/internal/logger"
	"github.com/vieerr/dearmom-backend/internal/models"
	"github.com/vieerr/dearmom-backend/internal/service"
)

type ContactHandler struct {
	users *service.UserService
	log   *logger.Logger
}

func NewContactHandler(users *service.UserService) *ContactHandler {
	return &ContactHandler{
		users: users,
		log:   logger.New("contact-handler"),
	}
}

type AddContactRequest struct {
	UserID  string          `json:"userId"`
	Contact *models.Contact `json:"contact"`
}

type DeleteContactRequest struct {
	UserID    string `json:"userId"`
	ContactID string `json:"contactId"`
}

type UpdateContactRequest struct {
	UserID         string          `json:"userId"`
	ContactID      string          `json:"contactId"`
	UpdatedContact *models.Contact `json:"updatedContact"`
}

// Add appends a contact and returns the full updated record. Deliberately
// no new token: the client's held token is stale from here until it calls
// GET /me.
func (h *ContactHandler) Add(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AddContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == "" || req.Contact == nil {
		respondError(w, http.StatusBadRequest, "userId and contact are required")
		return
	}

	user, err := h.users.AddContact(r.Context(), req.UserID, *req.Contact)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.log.Error("Failed to add contact: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req DeleteContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == "" || req.ContactID == "" {
		respondError(w, http.StatusBadRequest, "userId and contactId are required")
		return
	}

	user, err := h.users.RemoveContact(r.Context(), req.UserID, req.ContactID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.log.Error("Failed to delete contact: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req UpdateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == "" || req.ContactID == "" || req.UpdatedContact == nil {
		respondError(w, http.StatusBadRequest, "userId, contactId, and updatedContact are required")
		return
	}

	user, err := h.users.UpdateContact(r.Context(), req.UserID, req.ContactID, *req.UpdatedContact)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			respondError(w, http.StatusNotFound, "User or contact not found")
			return
		}
		h.log.Error("Failed to update contact: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, user)
}
