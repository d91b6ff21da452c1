// Package admin serves the campaign team: authenticated access to the
// captured leads and CSV export to object storage.
package admin

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/abramad/crisis-game-api/internal/domain"
)

// ErrExportUnavailable is returned when no export bucket is configured.
var ErrExportUnavailable = errors.New("export storage not configured")

const (
	defaultPageSize = 50
	maxPageSize     = 200
	exportLinkTTL   = 15 * time.Minute
)

// LeadPager is the read-side contract the admin surface needs from the lead store.
type LeadPager interface {
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Lead, string, error)
}

// TokenSigner issues bearer tokens for authenticated admins.
type TokenSigner interface {
	Sign(username, role string) (string, error)
}

// ObjectStore receives the exported CSV and hands back a download link.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Service interface {
	// Login checks the configured admin credentials and returns a bearer token.
	Login(ctx context.Context, username, password string) (string, error)
	// ListLeads returns a page of captured leads.
	ListLeads(ctx context.Context, limit int, cursor string) ([]domain.Lead, string, error)
	// ExportLeads writes all leads as CSV to object storage and returns a
	// presigned download URL.
	ExportLeads(ctx context.Context) (string, error)
}

type service struct {
	leadRepo     LeadPager
	signer       TokenSigner
	store        ObjectStore // nil when S3_BUCKET_NAME is unset
	username     string
	passwordHash string
}

func NewService(leadRepo LeadPager, signer TokenSigner, store ObjectStore, username, passwordHash string) Service {
	return &service{
		leadRepo:     leadRepo,
		signer:       signer,
		store:        store,
		username:     username,
		passwordHash: passwordHash,
	}
}

func (s *service) Login(ctx context.Context, username, password string) (string, error) {
	if username != s.username {
		return "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	return s.signer.Sign(username, "admin")
}

func (s *service) ListLeads(ctx context.Context, limit int, cursor string) ([]domain.Lead, string, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return s.leadRepo.ScanPage(ctx, int32(limit), cursor)
}

func (s *service) ExportLeads(ctx context.Context) (string, error) {
	if s.store == nil {
		return "", ErrExportUnavailable
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"lead_id", "first_name", "last_name", "phone", "email", "date", "created_at"}); err != nil {
		return "", err
	}
	cursor := ""
	for {
		leads, next, err := s.leadRepo.ScanPage(ctx, maxPageSize, cursor)
		if err != nil {
			return "", err
		}
		for _, l := range leads {
			if err := w.Write([]string{
				l.LeadID, l.FirstName, l.LastName, l.Phone, l.Email,
				l.Date.Format(time.RFC3339), l.CreatedAt.Format(time.RFC3339),
			}); err != nil {
				return "", err
			}
		}
		if next == "" {
			break
		}
		cursor = next
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	key := fmt.Sprintf("exports/leads-%s.csv", time.Now().UTC().Format("20060102-150405"))
	if _, err := s.store.Upload(ctx, key, bytes.NewReader(buf.Bytes()), "text/csv"); err != nil {
		return "", err
	}
	return s.store.PresignedURL(ctx, key, exportLinkTTL)
}
