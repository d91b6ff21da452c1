package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/abramad/crisis-game-api/internal/config"
)

// MagfaSender sends SMS through the Magfa messaging gateway.
// Authentication is HTTP basic auth with the username qualified by the
// account domain ("domain/username").
type MagfaSender struct {
	apiURL       string
	username     string
	password     string
	domain       string
	senderNumber string
	httpClient   *http.Client
}

// magfaRequest is the gateway's message-submission payload.
type magfaRequest struct {
	SendingNumber string   `json:"sendingNumber"`
	Messages      []string `json:"messages"`
	Recipients    []string `json:"recipients"`
}

// NewMagfaSender builds a Magfa sender from configuration.
// Returns ErrNotConfigured when credentials are missing, so the caller can
// degrade to issuing codes without delivery instead of failing startup.
func NewMagfaSender(cfg *config.Config) (*MagfaSender, error) {
	if cfg.MagfaUsername == "" || cfg.MagfaPassword == "" || cfg.MagfaDomain == "" {
		return nil, fmt.Errorf("magfa credentials missing: %w", ErrNotConfigured)
	}
	return &MagfaSender{
		apiURL:       cfg.MagfaAPIURL,
		username:     cfg.MagfaUsername,
		password:     cfg.MagfaPassword,
		domain:       cfg.MagfaDomain,
		senderNumber: cfg.MagfaSenderNumber,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (s *MagfaSender) SendSMS(ctx context.Context, to, message string) error {
	body, err := json.Marshal(magfaRequest{
		SendingNumber: s.senderNumber,
		Messages:      []string{message},
		Recipients:    []string{to},
	})
	if err != nil {
		return fmt.Errorf("marshal magfa request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build magfa request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.domain+"/"+s.username, s.password)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("magfa request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("magfa gateway returned %d: %s", resp.StatusCode, raw)
	}
	return nil
}
