package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"centralTodoPlanner/internal/testutil"
	"centralTodoPlanner/models"
	"centralTodoPlanner/repository"
)

func TestRequireKindAndHelpers(t *testing.T) {
	ctx := WithPrincipal(context.Background(), &Principal{Name: "alice", Kind: "user"})
	if _, err := RequireUserOrAdmin(ctx); err != nil {
		t.Fatalf("RequireUserOrAdmin: %v", err)
	}
	if _, err := RequireKind(ctx, "admin"); err == nil {
		t.Fatalf("expected admin rejection for user kind")
	}
	if _, err := RequirePrincipal(context.Background()); err == nil {
		t.Fatalf("expected error for missing principal")
	}
}

func TestRequireAdmin_WithDBRoleCheck(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "authadmin")
	users := repository.NewUserRepository(d)
	ctx := context.Background()
	if _, err := users.Create(ctx, "alice", "h", models.RoleUser); err != nil {
		t.Fatalf("create alice: %v", err)
	}
	// Spoofed principal kind=admin but DB role is user
	pctx := WithPrincipal(context.Background(), &Principal{Name: "alice", Kind: "admin"})
	if _, err := RequireAdmin(pctx, users); err == nil {
		t.Fatalf("expected permission denied for non-admin role")
	}

	// Make real admin
	if err := users.UpdateRoleByUsername(ctx, "alice", models.RoleAdmin); err != nil {
		t.Fatalf("update role: %v", err)
	}
	if _, err := RequireAdmin(pctx, users); err != nil {
		t.Fatalf("RequireAdmin real admin: %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	secret := "s3cr3t"
	mw := Middleware(secret, "/healthz")

	// 1) Allowlisted path: no header -> handler executes, no principal
	hCalled := false
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hCalled = true
		if p, ok := FromContext(r.Context()); ok && p != nil {
			t.Fatalf("expected no principal on allowlisted path")
		}
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !hCalled {
		t.Fatalf("allowlisted path code=%d called=%v", rec.Code, hCalled)
	}

	// 2) Protected path without token -> 401, handler not reached
	reached := false
	h2 := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { reached = true }))
	rec2 := httptest.NewRecorder()
	h2.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	if rec2.Code != http.StatusUnauthorized || reached {
		t.Fatalf("expected 401 without token, got %d reached=%v", rec2.Code, reached)
	}

	// 3) Protected path with token -> principal injected
	tok := testutil.GenerateJWTHS256(t, secret, "bob", "user")
	h3 := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := FromContext(r.Context())
		if !ok || p == nil || p.Name != "bob" || p.Kind != "user" {
			t.Fatalf("principal not injected: %+v ok=%v", p, ok)
		}
	}))
	rec3 := httptest.NewRecorder()
	req := testutil.AddBearer(httptest.NewRequest(http.MethodGet, "/api/tasks", nil), tok)
	h3.ServeHTTP(rec3, req)
	if rec3.Code != http.StatusOK {
		t.Fatalf("authenticated path code=%d", rec3.Code)
	}
}

func TestPasswordHashing(t *testing.T) {
	h := MakeHash("admin123")
	if len(h) != 64 {
		t.Fatalf("expected sha256 hex digest, got %q", h)
	}
	if !CheckHash("admin123", h) {
		t.Fatalf("CheckHash should accept the original password")
	}
	if CheckHash("admin124", h) {
		t.Fatalf("CheckHash should reject a different password")
	}
}
