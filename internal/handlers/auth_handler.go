package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vieerr/dearmom-backend/internal/logger"
	"github.com/vieerr/dearmom-backend/internal/models"
	"github.com/vieerr/dearmom-backend/internal/service"
)

type AuthHandler struct {
	users *service.UserService
	log   *logger.Logger
}

func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{
		users: users,
		log:   logger.New("auth-handler"),
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Pin      string `json:"pin"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password, req.Pin)
	if err != nil {
		h.log.Error("Failed to register user: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, models.TokenResponse{Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.log.Error("Failed to login: %v", err)
		respondError(w, http.StatusInternalServerError, "Server login error")
		return
	}

	respondJSON(w, http.StatusOK, models.TokenResponse{Token: token})
}

// Me verifies the bearer token, re-reads the stored record and returns a
// new token stamped with the current contact list. This is the only
// endpoint that brings a stale token back in sync after contact mutations.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	token := bearerToken(r)
	if token == "" {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	refreshed, err := h.users.Refresh(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		h.log.Error("Failed to refresh token: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, models.TokenResponse{Token: refreshed})
}
