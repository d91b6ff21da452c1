// Package otp implements the verification-code flow the game gates
// registration behind: issue a short-lived 4-digit code per phone, deliver it
// by SMS, and validate it exactly once.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/abramad/crisis-game-api/internal/domain"
	"github.com/abramad/crisis-game-api/internal/infrastructure/sms"
)

// OTPStore is the persistence contract for verification codes.
type OTPStore interface {
	Get(ctx context.Context, phone string) (*domain.OTPRecord, error)
	Upsert(ctx context.Context, rec *domain.OTPRecord) error
	Delete(ctx context.Context, phone string) error
}

// RequestResult describes an issued (or still-active) code.
type RequestResult struct {
	Code      string
	ExpiresIn time.Duration
	Reused    bool
	Message   string
}

type Service interface {
	// Request issues a code for phone, or reports the remaining validity of a
	// code that is still active. Delivery failures do not fail the request.
	Request(ctx context.Context, phone string) (*RequestResult, error)
	// Verify checks the submitted code and consumes it on success.
	Verify(ctx context.Context, phone, code string) error
}

type service struct {
	otpRepo   OTPStore
	smsSender sms.Sender // nil when no gateway is configured
	ttl       time.Duration
}

func NewService(otpRepo OTPStore, smsSender sms.Sender, ttl time.Duration) Service {
	return &service{otpRepo: otpRepo, smsSender: smsSender, ttl: ttl}
}

func (s *service) Request(ctx context.Context, phone string) (*RequestResult, error) {
	if phone == "" {
		return nil, fmt.Errorf("phone number is required: %w", domain.ErrBadRequest)
	}

	now := time.Now().UTC()

	existing, err := s.otpRepo.Get(ctx, phone)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// A code still inside its TTL is returned untouched and not re-sent.
	// Hammering the request button must not generate SMS traffic.
	if existing != nil {
		if age := existing.Age(now); age < s.ttl {
			return &RequestResult{
				Code:      existing.Code,
				ExpiresIn: s.ttl - age,
				Reused:    true,
				Message:   "کد قبلی هنوز معتبر است",
			}, nil
		}
	}

	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("generate otp code: %w", err)
	}

	rec := &domain.OTPRecord{
		Phone:     phone,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl).Unix(),
	}
	if err := s.otpRepo.Upsert(ctx, rec); err != nil {
		return nil, err
	}

	s.deliver(ctx, phone, code)

	return &RequestResult{
		Code:      code,
		ExpiresIn: s.ttl,
		Message:   "کد تایید ارسال شد",
	}, nil
}

// deliver sends the code by SMS. The code stays valid even when delivery
// fails, so errors are logged and swallowed here; a missing gateway is
// reported separately from a gateway failure.
func (s *service) deliver(ctx context.Context, phone, code string) {
	if s.smsSender == nil {
		slog.Warn("otp generated but not delivered: no sms gateway configured", "phone", phone)
		return
	}
	if err := s.smsSender.SendSMS(ctx, phone, "کد تایید شما: "+code); err != nil {
		if errors.Is(err, sms.ErrNotConfigured) {
			slog.Warn("otp generated but not delivered: sms gateway misconfigured", "phone", phone, "err", err)
			return
		}
		slog.Error("otp sms delivery failed", "phone", phone, "err", err)
	}
}

func (s *service) Verify(ctx context.Context, phone, code string) error {
	if phone == "" || code == "" {
		return fmt.Errorf("phone number and otp code are required: %w", domain.ErrBadRequest)
	}

	rec, err := s.otpRepo.Get(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrCodeInvalid
		}
		return err
	}

	if rec.Age(time.Now().UTC()) > s.ttl {
		if err := s.otpRepo.Delete(ctx, phone); err != nil {
			slog.Warn("failed to delete expired otp record", "phone", phone, "err", err)
		}
		return domain.ErrCodeExpired
	}

	// Wrong code leaves the record intact; the user may retry until expiry.
	if rec.Code != code {
		return domain.ErrCodeMismatch
	}

	// Single use: a consumed code must not verify twice.
	if err := s.otpRepo.Delete(ctx, phone); err != nil {
		return fmt.Errorf("consume otp record: %w", err)
	}
	return nil
}

// generateCode returns a uniformly random 4-digit code in [1000, 9999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", 1000+n.Int64()), nil
}
