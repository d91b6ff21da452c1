// Package lead owns the registration records captured by the game: the
// pre-submission uniqueness check and the final write on game completion.
package lead

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abramad/crisis-game-api/internal/domain"
	"github.com/abramad/crisis-game-api/internal/infrastructure/smtp"
	"github.com/abramad/crisis-game-api/internal/pkg/id"
	"github.com/abramad/crisis-game-api/internal/pkg/validate"
)

// LeadStore is the persistence contract for registration records.
type LeadStore interface {
	GetByPhone(ctx context.Context, phone string) (*domain.Lead, error)
	GetByEmail(ctx context.Context, email string) (*domain.Lead, error)
	Insert(ctx context.Context, l *domain.Lead) error
}

// CheckResult reports whether a conflicting registration exists and, when it
// does, which submitted field collided.
type CheckResult struct {
	Exists  bool
	Field   string // "phone" | "email" | "both"
	Message string
}

type Service interface {
	// CheckUnique looks for an existing lead matching phone or email.
	// A conflict is a normal outcome here, not an error.
	CheckUnique(ctx context.Context, phone, email string) (*CheckResult, error)
	// Submit validates and persists one registration record.
	Submit(ctx context.Context, req domain.SubmitLeadRequest) error
}

type service struct {
	leadRepo    LeadStore
	mailer      smtp.Mailer // nil disables the new-lead notification
	notifyEmail string
	emailDomain string
}

func NewService(leadRepo LeadStore, mailer smtp.Mailer, notifyEmail, emailDomain string) Service {
	return &service{
		leadRepo:    leadRepo,
		mailer:      mailer,
		notifyEmail: notifyEmail,
		emailDomain: emailDomain,
	}
}

const duplicateMessage = "شما با این ایمیل یا شماره موبایل قبلا در مسابقه شرکت کرده‌اید!"

func (s *service) CheckUnique(ctx context.Context, phone, email string) (*CheckResult, error) {
	if phone == "" && email == "" {
		return nil, fmt.Errorf("phone or email is required to perform the lookup: %w", domain.ErrBadRequest)
	}

	var existing *domain.Lead
	if phone != "" {
		l, err := s.leadRepo.GetByPhone(ctx, phone)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		existing = l
	}
	if existing == nil && email != "" {
		l, err := s.leadRepo.GetByEmail(ctx, email)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		existing = l
	}

	if existing == nil {
		return &CheckResult{Exists: false}, nil
	}

	field := ""
	phoneMatch := phone != "" && existing.Phone == phone
	emailMatch := email != "" && existing.Email == email
	switch {
	case phoneMatch && emailMatch:
		field = "both"
	case phoneMatch:
		field = "phone"
	case emailMatch:
		field = "email"
	}

	return &CheckResult{Exists: true, Field: field, Message: duplicateMessage}, nil
}

func (s *service) Submit(ctx context.Context, req domain.SubmitLeadRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}

	// Email is optional, but when present it must belong to the campaign's
	// target organisation.
	email := strings.TrimSpace(req.Email)
	if email != "" && !strings.HasSuffix(strings.ToLower(email), "@"+s.emailDomain) {
		return fmt.Errorf("email must belong to %s: %w", s.emailDomain, domain.ErrBadRequest)
	}

	now := time.Now().UTC()
	date := now
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			return fmt.Errorf("invalid date value: %w", domain.ErrBadRequest)
		}
		date = parsed.UTC()
	}

	l := &domain.Lead{
		Phone:     req.Phone,
		LeadID:    id.New(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     email,
		Date:      date,
		CreatedAt: now,
	}
	if err := s.leadRepo.Insert(ctx, l); err != nil {
		return err
	}

	s.notify(l)
	return nil
}

// notify emails the campaign inbox about the new lead. Failures are logged
// only; the registration is already saved.
func (s *service) notify(l *domain.Lead) {
	if s.mailer == nil || s.notifyEmail == "" {
		return
	}
	body := fmt.Sprintf("%s %s\nphone: %s\nemail: %s\ncompleted: %s",
		l.FirstName, l.LastName, l.Phone, l.Email, l.Date.Format(time.RFC3339))
	if err := s.mailer.SendEmail(s.notifyEmail, "New crisis-game lead", body); err != nil {
		slog.Warn("failed to send new-lead notification", "lead_id", l.LeadID, "err", err)
	}
}
