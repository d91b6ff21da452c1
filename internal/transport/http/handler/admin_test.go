package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/abramad/crisis-game-api/internal/application/admin"
	"github.com/abramad/crisis-game-api/internal/domain"
)

// --- mock ---

type mockAdminSvc struct{ mock.Mock }

func (m *mockAdminSvc) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *mockAdminSvc) ListLeads(ctx context.Context, limit int, cursor string) ([]domain.Lead, string, error) {
	args := m.Called(ctx, limit, cursor)
	return args.Get(0).([]domain.Lead), args.String(1), args.Error(2)
}

func (m *mockAdminSvc) ExportLeads(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func TestAdminLoginSuccess(t *testing.T) {
	svc := new(mockAdminSvc)
	svc.On("Login", mock.Anything, "admin", "secret").Return("token-123", nil)

	h := NewAdminHandler(svc)
	rec := postJSON(t, h.Login, `{"username":"admin","password":"secret"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AuthEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "token-123", resp.Bearer)
}

func TestAdminLoginRejected(t *testing.T) {
	svc := new(mockAdminSvc)
	svc.On("Login", mock.Anything, "admin", "guess").Return("",
		fmtWrap("invalid credentials", domain.ErrUnauthorized))

	h := NewAdminHandler(svc)
	rec := postJSON(t, h.Login, `{"username":"admin","password":"guess"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Bearer")
}

func TestAdminListLeads(t *testing.T) {
	svc := new(mockAdminSvc)
	svc.On("ListLeads", mock.Anything, 10, "abc").Return([]domain.Lead{
		{LeadID: "01A", Phone: "09123456789", FirstName: "سارا"},
	}, "next", nil)

	h := NewAdminHandler(svc)
	req := httptest.NewRequest(http.MethodGet, "/?limit=10&cursor=abc", nil)
	rec := httptest.NewRecorder()
	h.ListLeads(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp PaginatedLeadsEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "09123456789", resp.Data[0].Phone)
	assert.Equal(t, "next", resp.NextCursor)
}

func TestAdminExportUnavailable(t *testing.T) {
	svc := new(mockAdminSvc)
	svc.On("ExportLeads", mock.Anything).Return("", admin.ErrExportUnavailable)

	h := NewAdminHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	h.ExportLeads(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAdminExportReturnsURL(t *testing.T) {
	svc := new(mockAdminSvc)
	svc.On("ExportLeads", mock.Anything).Return("https://signed", nil)

	h := NewAdminHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	h.ExportLeads(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://signed")
}
