package invitation

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
	"github.com/mpsousa/flatbill/internal/invitation"
	"github.com/mpsousa/flatbill/internal/party"
)

var validate = validator.New()

type Handler struct {
	svc *invitation.Service
}

func NewHandler(svc *invitation.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes registers the owner-facing endpoints; callers are authenticated.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Delete("/{id}", h.revoke)
}

// PublicRoutes registers the endpoints the invitee reaches before they
// have an account.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Get("/validate", h.validateToken)
	r.Post("/accept", h.accept)
}

type createInvitationRequest struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
}

type invitationResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type createInvitationResponse struct {
	invitationResponse
	InvitationLink string `json:"invitation_link"`
}

func toResponse(inv *invitation.Invitation) invitationResponse {
	return invitationResponse{
		ID:        inv.ID,
		Name:      inv.Name,
		Email:     inv.Email,
		ExpiresAt: inv.ExpiresAt,
		CreatedAt: inv.CreatedAt,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok || sess.Role != party.RoleOwner {
		http.Error(w, "only owners can create invitations", http.StatusForbidden)
		return
	}

	var req createInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Create(r.Context(), sess.PartyID, req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, invitation.ErrDuplicateAccount):
			http.Error(w, "an account with this email already exists", http.StatusConflict)
		case invitation.IsDependencyError(err):
			http.Error(w, "a downstream dependency failed", http.StatusBadGateway)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	resp := createInvitationResponse{
		invitationResponse: toResponse(inv),
		InvitationLink:     h.svc.AcceptLink(inv),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok || sess.Role != party.RoleOwner {
		http.Error(w, "only owners can view invitations", http.StatusForbidden)
		return
	}

	invs, err := h.svc.List(r.Context(), sess.PartyID)
	if err != nil {
		if invitation.IsDependencyError(err) {
			http.Error(w, "a downstream dependency failed", http.StatusBadGateway)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := make([]invitationResponse, len(invs))
	for i, inv := range invs {
		resp[i] = toResponse(inv)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) revoke(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok || sess.Role != party.RoleOwner {
		http.Error(w, "only owners can revoke invitations", http.StatusForbidden)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Revoke(r.Context(), id, sess.PartyID); err != nil {
		switch {
		case errors.Is(err, invitation.ErrNotFound):
			http.Error(w, "invitation not found", http.StatusNotFound)
		case invitation.IsDependencyError(err):
			http.Error(w, "a downstream dependency failed", http.StatusBadGateway)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type validateResponse struct {
	Valid bool   `json:"valid"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (h *Handler) validateToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Validate(r.Context(), token)
	if err != nil {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, invitation.ErrInvalidToken):
			status = http.StatusNotFound
		case errors.Is(err, invitation.ErrExpired):
			status = http.StatusBadRequest
		case invitation.IsDependencyError(err):
			status = http.StatusBadGateway
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)

		if err := json.NewEncoder(w).Encode(validateResponse{Valid: false}); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")

	resp := validateResponse{Valid: true, Name: inv.Name, Email: inv.Email}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type acceptRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type acceptResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func (h *Handler) accept(w http.ResponseWriter, r *http.Request) {
	var req acceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Accept(r.Context(), req.Token, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, invitation.ErrInvalidToken):
			http.Error(w, "invalid invitation token", http.StatusNotFound)
		case errors.Is(err, invitation.ErrExpired):
			http.Error(w, "invitation has expired", http.StatusBadRequest)
		case errors.Is(err, invitation.ErrDuplicateAccount):
			http.Error(w, "an account with this email already exists", http.StatusConflict)
		case errors.Is(err, party.ErrWeakPassword):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case invitation.IsDependencyError(err):
			http.Error(w, "a downstream dependency failed", http.StatusBadGateway)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	resp := acceptResponse{ID: p.ID, Name: p.Name, Email: p.Email}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
