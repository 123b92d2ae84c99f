package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mpsousa/flatbill/internal/auth"
	"github.com/mpsousa/flatbill/internal/party"
)

var validate = validator.New()

type Handler struct {
	parties *party.Service
	jwt     *auth.JWTManager
}

func NewHandler(parties *party.Service, jwt *auth.JWTManager) *Handler {
	return &Handler{parties: parties, jwt: jwt}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/signup", h.signup)
	r.Post("/signin", h.signin)
}

type signupRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type sessionResponse struct {
	Token string     `json:"token"`
	ID    uuid.UUID  `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  party.Role `json:"role"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.parties.RegisterOwner(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, party.ErrDuplicateEmail) {
			http.Error(w, "an account with this email already exists", http.StatusConflict)
			return
		}

		if errors.Is(err, party.ErrWeakPassword) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	h.respondWithToken(w, p, http.StatusCreated)
}

type signinRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.parties.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, party.ErrInvalidCredentials) {
			http.Error(w, "invalid email or password", http.StatusUnauthorized)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	h.respondWithToken(w, p, http.StatusOK)
}

func (h *Handler) respondWithToken(w http.ResponseWriter, p *party.Party, status int) {
	token, err := h.jwt.Generate(p)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := sessionResponse{
		Token: token,
		ID:    p.ID,
		Name:  p.Name,
		Email: p.Email,
		Role:  p.Role,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
