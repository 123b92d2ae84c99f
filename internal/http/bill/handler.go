package bill

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mpsousa/flatbill/internal/allocation"
	"github.com/mpsousa/flatbill/internal/bill"
	"github.com/mpsousa/flatbill/internal/http/session"
)

var validate = validator.New()

type Handler struct {
	svc *bill.Service
}

func NewHandler(svc *bill.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/mine", h.listMine)
	r.Get("/{id}", h.get)
	r.Get("/{id}/pdf", h.downloadPDF)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/notifications", h.notify)
}

type subReadingDTO struct {
	PartyID uuid.UUID `json:"party_id" validate:"required"`
	Name    string    `json:"name" validate:"required"`
	Reading float64   `json:"reading"`
}

type createBillRequest struct {
	MasterReading float64         `json:"master_reading"`
	ActualBill    float64         `json:"actual_bill"`
	SubReadings   []subReadingDTO `json:"sub_readings" validate:"dive"`
}

func requester(r *http.Request) (bill.Requester, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		return bill.Requester{}, false
	}

	return bill.Requester{PartyID: sess.PartyID, Role: sess.Role}, true
}

// writeServiceError maps domain errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var invalidInput *allocation.InvalidInputError

	switch {
	case errors.As(err, &invalidInput):
		http.Error(w, invalidInput.Error(), http.StatusBadRequest)
	case errors.Is(err, allocation.ErrOverAllocation):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, bill.ErrPermission):
		http.Error(w, "access denied", http.StatusForbidden)
	case errors.Is(err, bill.ErrNotFound):
		http.Error(w, "bill not found", http.StatusNotFound)
	case bill.IsDependencyError(err):
		http.Error(w, "a downstream dependency failed", http.StatusBadGateway)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	caller, ok := requester(r)
	if !ok {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	var req createBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := bill.CreateParams{
		MasterReading: req.MasterReading,
		ActualBill:    req.ActualBill,
	}

	for _, s := range req.SubReadings {
		params.SubReadings = append(params.SubReadings, allocation.SubReading{
			PartyID: s.PartyID,
			Name:    s.Name,
			Reading: s.Reading,
		})
	}

	b, err := h.svc.Create(r.Context(), caller, params)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(b)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	caller, ok := requester(r)
	if !ok {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	bills, err := h.svc.List(r.Context(), caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(bills)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := requester(r)
	if !ok {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	fbills, err := h.svc.ListForFlatmate(r.Context(), caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toFlatmateResponseList(fbills)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	caller, ok := requester(r)
	if !ok {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	b, err := h.svc.Get(r.Context(), caller, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(b)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) downloadPDF(w http.ResponseWriter, r *http.Request) {
	caller, ok := requester(r)
	if !ok {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	document, err := h.svc.RenderPDF(r.Context(), caller, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="bill-%s.pdf"`, id))

	if _, err := w.Write(document); err != nil {
		slog.Error("failed to write pdf response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := requester(r)
	if !ok {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), caller, id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) notify(w http.ResponseWriter, r *http.Request) {
	caller, ok := requester(r)
	if !ok {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Notify(r.Context(), caller, id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
