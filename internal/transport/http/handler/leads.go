package handler

import (
	"encoding/json"
	"net/http"

	"github.com/abramad/crisis-game-api/internal/application/lead"
	"github.com/abramad/crisis-game-api/internal/domain"
)

// LeadHandler handles the uniqueness pre-check and the final registration write.
type LeadHandler struct {
	svc lead.Service
}

func NewLeadHandler(svc lead.Service) *LeadHandler {
	return &LeadHandler{svc: svc}
}

// CheckEnvelope is the uniqueness-check response. An existing registration is
// a normal outcome, so it ships with a 200, not an error status.
type CheckEnvelope struct {
	Exists  bool   `json:"exists"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SubmitEnvelope is the registration response.
type SubmitEnvelope struct {
	OK    bool   `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`
}

func (h *LeadHandler) Check(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Phone string `json:"phone"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, CheckEnvelope{Error: "invalid request body"})
		return
	}

	result, err := h.svc.CheckUnique(r.Context(), body.Phone, body.Email)
	if err != nil {
		status, msg := errStatus(err)
		if msg == "" {
			msg = "failed to check existing user"
		}
		writeJSON(w, status, CheckEnvelope{Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, CheckEnvelope{
		Exists:  result.Exists,
		Field:   result.Field,
		Message: result.Message,
	})
}

func (h *LeadHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req domain.SubmitLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, SubmitEnvelope{Error: "invalid request body"})
		return
	}

	if err := h.svc.Submit(r.Context(), req); err != nil {
		status, msg := errStatus(err)
		if msg == "" {
			msg = "failed to save user data"
		}
		writeJSON(w, status, SubmitEnvelope{Error: msg})
		return
	}

	writeJSON(w, http.StatusCreated, SubmitEnvelope{OK: true})
}
