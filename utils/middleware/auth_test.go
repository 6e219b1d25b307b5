package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sportscamp/sportscamp-api/utils/auth"
)

// fakeRoles resolves roles from an in-memory map, standing in for the
// users table.
type fakeRoles struct {
	roles map[string]string
	calls int
}

func (f *fakeRoles) RoleOf(ctx context.Context, email string) (string, error) {
	f.calls++
	return f.roles[email], nil
}

func newTestApp(roles *fakeRoles, jwtManager *auth.JWTManager, requiredRoles ...string) *fiber.App {
	m := NewAuthMiddleware(jwtManager, nil, roles)
	app := fiber.New()
	handlers := []fiber.Handler{m.Required()}
	if len(requiredRoles) > 0 {
		handlers = append(handlers, m.RequireRole(requiredRoles...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.All("/gated", handlers...)
	return app
}

func testJWTManager(expiry time.Duration) *auth.JWTManager {
	return auth.NewJWTManager(auth.JWTConfig{
		Secret: "test-secret",
		Expiry: expiry,
		Issuer: "sportscamp-api-test",
	})
}

func bearerRequest(t *testing.T, method, target, token, body string) *http.Request {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestRequiredRejectsMissingToken(t *testing.T) {
	roles := &fakeRoles{roles: map[string]string{}}
	app := newTestApp(roles, testJWTManager(time.Hour), "admin")

	resp, err := app.Test(bearerRequest(t, "GET", "/gated", "", ""))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	// Authentication failed before any role lookup could happen.
	if roles.calls != 0 {
		t.Fatalf("role resolver was consulted %d times for an unauthenticated request", roles.calls)
	}
}

func TestRequiredRejectsExpiredToken(t *testing.T) {
	roles := &fakeRoles{roles: map[string]string{"s@example.com": "admin"}}
	expired := testJWTManager(-time.Minute)
	app := newTestApp(roles, expired, "admin")

	token, _, err := expired.Issue("s@example.com", "")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	resp, err := app.Test(bearerRequest(t, "GET", "/gated", token, ""))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", resp.StatusCode)
	}
	if roles.calls != 0 {
		t.Fatalf("role resolver was consulted %d times for an expired token", roles.calls)
	}
}

func TestRequiredRejectsMalformedHeader(t *testing.T) {
	roles := &fakeRoles{roles: map[string]string{}}
	app := newTestApp(roles, testJWTManager(time.Hour))

	req := httptest.NewRequest("GET", "/gated", nil)
	req.Header.Set("Authorization", "Token abc")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestRequireRoleForbidsWrongRole(t *testing.T) {
	roles := &fakeRoles{roles: map[string]string{"student@example.com": "student"}}
	jwtManager := testJWTManager(time.Hour)
	app := newTestApp(roles, jwtManager, "admin")

	token, _, err := jwtManager.Issue("student@example.com", "")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// A well-formed payload changes nothing: the gate runs first.
	resp, err := app.Test(bearerRequest(t, "POST", "/gated", token, `{"class_id":1}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for wrong role, got %d", resp.StatusCode)
	}
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	roles := &fakeRoles{roles: map[string]string{"admin@example.com": "admin"}}
	jwtManager := testJWTManager(time.Hour)
	app := newTestApp(roles, jwtManager, "admin")

	token, _, err := jwtManager.Issue("admin@example.com", "")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	resp, err := app.Test(bearerRequest(t, "GET", "/gated", token, ""))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for matching role, got %d", resp.StatusCode)
	}
}

// A role change in the store is honored on the very next gated call with
// the same token, because the role is never read from the token.
func TestRolePromotionVisibleWithSameToken(t *testing.T) {
	roles := &fakeRoles{roles: map[string]string{"u@example.com": "student"}}
	jwtManager := testJWTManager(time.Hour)
	app := newTestApp(roles, jwtManager, "instructor")

	token, _, err := jwtManager.Issue("u@example.com", "")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	resp, err := app.Test(bearerRequest(t, "GET", "/gated", token, ""))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 before promotion, got %d", resp.StatusCode)
	}

	roles.roles["u@example.com"] = "instructor"

	resp, err = app.Test(bearerRequest(t, "GET", "/gated", token, ""))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 after promotion with the same token, got %d", resp.StatusCode)
	}
}
