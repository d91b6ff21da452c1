package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/abramad/crisis-game-api/internal/application/admin"
)

// AdminHandler serves the campaign team's lead retrieval and export endpoints.
type AdminHandler struct {
	svc admin.Service
}

func NewAdminHandler(svc admin.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bearer, err := h.svc.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{Bearer: bearer})
}

func (h *AdminHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	cursor := r.URL.Query().Get("cursor")

	leads, next, err := h.svc.ListLeads(r.Context(), limit, cursor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PaginatedLeadsEnvelope{Data: leads, NextCursor: next})
}

func (h *AdminHandler) ExportLeads(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.ExportLeads(r.Context())
	if err != nil {
		if errors.Is(err, admin.ErrExportUnavailable) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
