package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/observability"
	"github.com/spec-kit/portal-service/internal/token"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

const (
	adminID      = "6f1c1e34-8d6a-4a8e-9a52-3f6f3c1f2b10"
	superAdminID = "0b8e3c55-1e7d-4a33-9a0c-2c1f5a9d7e21"
)

type fakeAdmins struct {
	byID map[string]*domain.Admin
}

func (f *fakeAdmins) Create(context.Context, *domain.Admin) error { return nil }
func (f *fakeAdmins) Update(context.Context, *domain.Admin) error { return nil }
func (f *fakeAdmins) GetByEmail(context.Context, string) (*domain.Admin, error) {
	return nil, pgx.ErrNoRows
}
func (f *fakeAdmins) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, pgx.ErrNoRows
}

type harness struct {
	app     *fiber.App
	tokens  *token.Manager
	metrics *observability.Metrics
	admins  *fakeAdmins
	now     time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		now:     time.Unix(1_700_000_000, 0),
		metrics: observability.NewMetrics(),
		admins: &fakeAdmins{byID: map[string]*domain.Admin{
			adminID:      {ID: adminID, Email: "a@x.com", Role: token.RoleAdmin, Active: true},
			superAdminID: {ID: superAdminID, Email: "root@x.com", Role: token.RoleSuperAdmin, Active: true},
		}},
	}
	tokens, err := token.NewManager([]byte("k"), time.Hour, token.WithClock(func() time.Time { return h.now }))
	require.NoError(t, err)
	h.tokens = tokens

	h.app = fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		de := apperrors.ToDomainError(err)
		return c.Status(de.HTTPStatus).JSON(fiber.Map{"code": de.Code})
	}})
	mw := NewAuthMiddleware(h.tokens, h.admins, h.metrics, nil)
	h.app.Get("/me", mw.Handle, RequireRole(), func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"id": p.Admin.ID, "role": p.Role()})
	})
	h.app.Get("/root", mw.Handle, RequireSuperAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return h
}

func (h *harness) issue(t *testing.T, id string, role token.Role) string {
	t.Helper()
	signed, _, err := h.tokens.Issue(token.Claims{Subject: id, Email: "x@x.com", Role: role})
	require.NoError(t, err)
	return signed
}

func (h *harness) do(t *testing.T, path, authorization string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := h.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	status, body := h.do(t, "/me", "Bearer "+h.issue(t, adminID, token.RoleAdmin))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, adminID, body["id"])
	assert.Equal(t, "admin", body["role"])
	assert.Equal(t, int64(1), h.metrics.Snapshot().TokenOutcomes["ok"])
}

func TestAuthMiddlewareRejections(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	valid := h.issue(t, adminID, token.RoleAdmin)
	forged, err := token.Issue(token.Claims{Subject: adminID, Role: token.RoleAdmin}, []byte("other"), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
		code          string
	}{
		{"missing header", "", "UNAUTHORIZED"},
		{"wrong scheme", "Basic " + valid, "UNAUTHORIZED"},
		{"empty bearer", "Bearer ", "UNAUTHORIZED"},
		{"garbage", "Bearer not-a-token", "TOKEN_MALFORMED"},
		{"wrong secret", "Bearer " + forged, "TOKEN_INVALID"},
		{"unknown admin", "Bearer " + h.issue(t, "9a3f7c1e-0000-4000-8000-000000000000", token.RoleAdmin), "UNAUTHORIZED"},
		{"non-uuid subject", "Bearer " + h.issue(t, "a1", token.RoleAdmin), "UNAUTHORIZED"},
		{"role mismatch", "Bearer " + h.issue(t, adminID, token.RoleSuperAdmin), "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := h.do(t, "/me", tt.authorization)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, tt.code, body["code"])
		})
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	h := newHarness(t)
	signed := h.issue(t, adminID, token.RoleAdmin)

	h.now = h.now.Add(time.Hour)
	status, body := h.do(t, "/me", "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "TOKEN_EXPIRED", body["code"])
	assert.Equal(t, int64(1), h.metrics.Snapshot().TokenOutcomes["expired"])
}

func TestAuthMiddlewareInactiveAdmin(t *testing.T) {
	h := newHarness(t)
	h.admins.byID[adminID].Active = false

	status, _ := h.do(t, "/me", "Bearer "+h.issue(t, adminID, token.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRequireSuperAdmin(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	status, body := h.do(t, "/root", "Bearer "+h.issue(t, adminID, token.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])

	status, _ = h.do(t, "/root", "Bearer "+h.issue(t, superAdminID, token.RoleSuperAdmin))
	assert.Equal(t, http.StatusNoContent, status)
}

func TestRequireRoleWithoutPrincipal(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Get("/", RequireRole(token.RoleAdmin), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	_, err := HashPassword("short", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrWeakPassword)

	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, ComparePassword(hash, "correct horse"))
	assert.False(t, ComparePassword(hash, "wrong horse!"))
	assert.False(t, ComparePassword("not-a-hash", "correct horse"))
}
