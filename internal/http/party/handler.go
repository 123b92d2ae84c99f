package party

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mpsousa/flatbill/internal/http/session"
	"github.com/mpsousa/flatbill/internal/party"
)

var validate = validator.New()

type Handler struct {
	svc *party.Service
}

func NewHandler(svc *party.Service) *Handler {
	return &Handler{svc: svc}
}

// FlatmateRoutes registers the owner's flatmate management endpoints.
func (h *Handler) FlatmateRoutes(r chi.Router) {
	r.Get("/", h.listFlatmates)
	r.Delete("/{id}", h.removeFlatmate)
}

// ProfileRoutes registers the caller's own account endpoints.
func (h *Handler) ProfileRoutes(r chi.Router) {
	r.Get("/", h.getProfile)
	r.Patch("/", h.updateProfile)
	r.Put("/password", h.changePassword)
}

type partyResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      party.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

func toResponse(p *party.Party) partyResponse {
	return partyResponse{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
	}
}

func (h *Handler) listFlatmates(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok || sess.Role != party.RoleOwner {
		http.Error(w, "only owners can list flatmates", http.StatusForbidden)
		return
	}

	flatmates, err := h.svc.ListFlatmates(r.Context(), sess.PartyID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]partyResponse, len(flatmates))
	for i, p := range flatmates {
		resp[i] = toResponse(p)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) removeFlatmate(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok || sess.Role != party.RoleOwner {
		http.Error(w, "only owners can remove flatmates", http.StatusForbidden)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.RemoveFlatmate(r.Context(), sess.PartyID, id); err != nil {
		if errors.Is(err, party.ErrNotFound) {
			http.Error(w, "flatmate not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	p, err := h.svc.Get(r.Context(), sess.PartyID)
	if err != nil {
		if errors.Is(err, party.ErrNotFound) {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateProfileRequest struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.UpdateProfile(r.Context(), sess.PartyID, req.Name, req.Email)
	if err != nil {
		if errors.Is(err, party.ErrDuplicateEmail) {
			http.Error(w, "an account with this email already exists", http.StatusConflict)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.svc.ChangePassword(r.Context(), sess.PartyID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, party.ErrInvalidCredentials):
			http.Error(w, "current password is incorrect", http.StatusUnauthorized)
		case errors.Is(err, party.ErrWeakPassword):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
