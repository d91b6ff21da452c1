package handler

import (
	"encoding/json"
	"net/http"

	"github.com/abramad/crisis-game-api/internal/application/otp"
)

// OTPHandler handles verification-code issuance and validation.
type OTPHandler struct {
	svc otp.Service
	// showPreview exposes the issued code in the response for non-production
	// environments so end-to-end tests can complete the flow without an SMS.
	showPreview bool
}

func NewOTPHandler(svc otp.Service, showPreview bool) *OTPHandler {
	return &OTPHandler{svc: svc, showPreview: showPreview}
}

// OTPRequestEnvelope is the issuance response.
type OTPRequestEnvelope struct {
	Success     bool   `json:"success"`
	ExpiresInMs int64  `json:"expiresInMs,omitempty"`
	Message     string `json:"message,omitempty"`
	OTPPreview  string `json:"otpPreview,omitempty"`
	Error       string `json:"error,omitempty"`
}

// OTPVerifyEnvelope is the validation response.
type OTPVerifyEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (h *OTPHandler) Request(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, OTPRequestEnvelope{Error: "invalid request body"})
		return
	}

	result, err := h.svc.Request(r.Context(), body.Phone)
	if err != nil {
		status, msg := errStatus(err)
		if msg == "" {
			msg = "failed to generate OTP"
		}
		writeJSON(w, status, OTPRequestEnvelope{Error: msg})
		return
	}

	resp := OTPRequestEnvelope{
		Success:     true,
		ExpiresInMs: result.ExpiresIn.Milliseconds(),
		Message:     result.Message,
	}
	if h.showPreview {
		resp.OTPPreview = result.Code
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, OTPVerifyEnvelope{Error: "invalid request body"})
		return
	}

	if err := h.svc.Verify(r.Context(), body.Phone, body.Code); err != nil {
		status, msg := errStatus(err)
		if msg == "" {
			msg = "failed to verify OTP"
		}
		writeJSON(w, status, OTPVerifyEnvelope{Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, OTPVerifyEnvelope{Success: true})
}
