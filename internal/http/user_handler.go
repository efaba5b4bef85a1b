package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jay6909/qkart-backend/internal/domain"
)

type UserService interface {
	SetAddress(ctx context.Context, user *domain.User, address string) (*domain.User, error)
}

type UserHandler struct {
	service UserService
	timeout time.Duration
}

func NewUserHandler(service UserService, timeout time.Duration) *UserHandler {
	return &UserHandler{
		service: service,
		timeout: timeout,
	}
}

type SetAddressRequestDTO struct {
	Address string `json:"address"`
}

// GetMe returns the authenticated user's own record.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *UserHandler) SetAddress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := getUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req SetAddressRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	updated, err := h.service.SetAddress(ctx, user, req.Address)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}
