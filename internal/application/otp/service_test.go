package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/abramad/crisis-game-api/internal/domain"
)

// --- mocks ---

type mockOTPStore struct{ mock.Mock }

func (m *mockOTPStore) Get(ctx context.Context, phone string) (*domain.OTPRecord, error) {
	args := m.Called(ctx, phone)
	if r, _ := args.Get(0).(*domain.OTPRecord); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockOTPStore) Upsert(ctx context.Context, rec *domain.OTPRecord) error {
	return m.Called(ctx, rec).Error(0)
}
func (m *mockOTPStore) Delete(ctx context.Context, phone string) error {
	return m.Called(ctx, phone).Error(0)
}

type mockSMSSender struct{ mock.Mock }

func (m *mockSMSSender) SendSMS(ctx context.Context, to, message string) error {
	return m.Called(ctx, to, message).Error(0)
}

const testTTL = time.Minute

// --- Request ---

func TestRequestMissingPhone(t *testing.T) {
	svc := NewService(new(mockOTPStore), nil, testTTL)

	_, err := svc.Request(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestRequestIssuesNewCode(t *testing.T) {
	store := new(mockOTPStore)
	sender := new(mockSMSSender)
	store.On("Get", mock.Anything, "09123456789").Return(nil, domain.ErrNotFound)
	store.On("Upsert", mock.Anything, mock.MatchedBy(func(rec *domain.OTPRecord) bool {
		return rec.Phone == "09123456789" && len(rec.Code) == 4
	})).Return(nil)
	sender.On("SendSMS", mock.Anything, "09123456789", mock.Anything).Return(nil)

	svc := NewService(store, sender, testTTL)
	result, err := svc.Request(context.Background(), "09123456789")
	require.NoError(t, err)

	assert.Len(t, result.Code, 4)
	assert.GreaterOrEqual(t, result.Code, "1000")
	assert.LessOrEqual(t, result.Code, "9999")
	assert.Equal(t, testTTL, result.ExpiresIn)
	assert.False(t, result.Reused)
	assert.Equal(t, "کد تایید ارسال شد", result.Message)
	store.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestRequestReusesActiveCode(t *testing.T) {
	store := new(mockOTPStore)
	sender := new(mockSMSSender)
	store.On("Get", mock.Anything, "09123456789").Return(&domain.OTPRecord{
		Phone:     "09123456789",
		Code:      "4321",
		CreatedAt: time.Now().UTC().Add(-20 * time.Second),
	}, nil)

	svc := NewService(store, sender, testTTL)
	result, err := svc.Request(context.Background(), "09123456789")
	require.NoError(t, err)

	assert.Equal(t, "4321", result.Code)
	assert.True(t, result.Reused)
	assert.Equal(t, "کد قبلی هنوز معتبر است", result.Message)
	// Remaining validity, not a fresh window.
	assert.Less(t, result.ExpiresIn, testTTL)
	assert.Greater(t, result.ExpiresIn, 30*time.Second)
	// No regeneration, no SMS resend.
	store.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	sender.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestRegeneratesExpiredCode(t *testing.T) {
	store := new(mockOTPStore)
	sender := new(mockSMSSender)
	store.On("Get", mock.Anything, "09123456789").Return(&domain.OTPRecord{
		Phone:     "09123456789",
		Code:      "4321",
		CreatedAt: time.Now().UTC().Add(-2 * time.Minute),
	}, nil)
	store.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	sender.On("SendSMS", mock.Anything, "09123456789", mock.Anything).Return(nil)

	svc := NewService(store, sender, testTTL)
	result, err := svc.Request(context.Background(), "09123456789")
	require.NoError(t, err)

	assert.False(t, result.Reused)
	assert.Equal(t, testTTL, result.ExpiresIn)
	store.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestRequestSucceedsWhenDeliveryFails(t *testing.T) {
	store := new(mockOTPStore)
	sender := new(mockSMSSender)
	store.On("Get", mock.Anything, "09123456789").Return(nil, domain.ErrNotFound)
	store.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	sender.On("SendSMS", mock.Anything, "09123456789", mock.Anything).Return(errors.New("gateway down"))

	svc := NewService(store, sender, testTTL)
	result, err := svc.Request(context.Background(), "09123456789")
	require.NoError(t, err)
	assert.Len(t, result.Code, 4)
}

func TestRequestWithoutSenderStillIssues(t *testing.T) {
	store := new(mockOTPStore)
	store.On("Get", mock.Anything, "09123456789").Return(nil, domain.ErrNotFound)
	store.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(store, nil, testTTL)
	result, err := svc.Request(context.Background(), "09123456789")
	require.NoError(t, err)
	assert.Len(t, result.Code, 4)
}

func TestRequestStorageError(t *testing.T) {
	store := new(mockOTPStore)
	store.On("Get", mock.Anything, "09123456789").Return(nil, errors.New("dynamo down"))

	svc := NewService(store, nil, testTTL)
	_, err := svc.Request(context.Background(), "09123456789")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrBadRequest)
}

// --- Verify ---

func TestVerifyMissingInput(t *testing.T) {
	svc := NewService(new(mockOTPStore), nil, testTTL)

	assert.ErrorIs(t, svc.Verify(context.Background(), "", "1234"), domain.ErrBadRequest)
	assert.ErrorIs(t, svc.Verify(context.Background(), "09123456789", ""), domain.ErrBadRequest)
}

func TestVerifyNoRecord(t *testing.T) {
	store := new(mockOTPStore)
	store.On("Get", mock.Anything, "09123456789").Return(nil, domain.ErrNotFound)

	svc := NewService(store, nil, testTTL)
	err := svc.Verify(context.Background(), "09123456789", "1234")
	assert.ErrorIs(t, err, domain.ErrCodeInvalid)
}

func TestVerifyExpiredDeletesRecord(t *testing.T) {
	store := new(mockOTPStore)
	store.On("Get", mock.Anything, "09123456789").Return(&domain.OTPRecord{
		Phone:     "09123456789",
		Code:      "1234",
		CreatedAt: time.Now().UTC().Add(-2 * time.Minute),
	}, nil)
	store.On("Delete", mock.Anything, "09123456789").Return(nil)

	svc := NewService(store, nil, testTTL)
	// Expired wins even when the code would have matched.
	err := svc.Verify(context.Background(), "09123456789", "1234")
	assert.ErrorIs(t, err, domain.ErrCodeExpired)
	store.AssertCalled(t, "Delete", mock.Anything, "09123456789")
}

func TestVerifyMismatchKeepsRecord(t *testing.T) {
	store := new(mockOTPStore)
	store.On("Get", mock.Anything, "09123456789").Return(&domain.OTPRecord{
		Phone:     "09123456789",
		Code:      "1234",
		CreatedAt: time.Now().UTC(),
	}, nil)

	svc := NewService(store, nil, testTTL)
	err := svc.Verify(context.Background(), "09123456789", "9999")
	assert.ErrorIs(t, err, domain.ErrCodeMismatch)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestVerifyConsumesCode(t *testing.T) {
	store := new(mockOTPStore)
	store.On("Get", mock.Anything, "09123456789").Return(&domain.OTPRecord{
		Phone:     "09123456789",
		Code:      "1234",
		CreatedAt: time.Now().UTC(),
	}, nil).Once()
	store.On("Delete", mock.Anything, "09123456789").Return(nil).Once()

	svc := NewService(store, nil, testTTL)
	require.NoError(t, svc.Verify(context.Background(), "09123456789", "1234"))

	// The record is gone now; a replayed code must fail.
	store.On("Get", mock.Anything, "09123456789").Return(nil, domain.ErrNotFound)
	err := svc.Verify(context.Background(), "09123456789", "1234")
	assert.ErrorIs(t, err, domain.ErrCodeInvalid)
	store.AssertExpectations(t)
}
