package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spellquest/internal/identity"
)

func newTestMiddleware() *Middleware {
	tokens := identity.NewTokenIssuer("test-secret", time.Hour)
	return NewMiddleware(nil, tokens, "")
}

func TestResolveMintsGuestIdentity(t *testing.T) {
	m := newTestMiddleware()

	var got identity.Identity
	handler := m.Resolve(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFrom(r)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/leaderboard", nil))

	if got.IsAuthenticated() {
		t.Fatal("expected guest identity")
	}
	if got.DeviceID == "" {
		t.Fatal("expected a device ID to be minted")
	}
	if got.DisplayName == "" {
		t.Fatal("expected a generated guest name")
	}

	cookies := recorder.Result().Cookies()
	var guestCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == GuestCookieName {
			guestCookie = c
		}
	}
	if guestCookie == nil || guestCookie.Value == "" {
		t.Fatal("expected a guest token cookie to be set")
	}
}

func TestResolveReusesGuestToken(t *testing.T) {
	m := newTestMiddleware()

	// First request mints a token
	recorder := httptest.NewRecorder()
	var first identity.Identity
	handler := m.Resolve(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		first = IdentityFrom(r)
	}))
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))

	var token string
	for _, c := range recorder.Result().Cookies() {
		if c.Name == GuestCookieName {
			token = c.Value
		}
	}

	// Second request presents it and keeps the same device
	var second identity.Identity
	handler = m.Resolve(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		second = IdentityFrom(r)
	}))
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: GuestCookieName, Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if second.DeviceID != first.DeviceID {
		t.Fatalf("device ID changed across requests: %q vs %q", first.DeviceID, second.DeviceID)
	}
	if second.DisplayName != first.DisplayName {
		t.Fatalf("guest name changed across requests: %q vs %q", first.DisplayName, second.DisplayName)
	}
}

func TestRequireUserRejectsGuests(t *testing.T) {
	m := newTestMiddleware()

	called := false
	protected := m.RequireUser(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	recorder := httptest.NewRecorder()
	handler := m.Resolve(http.HandlerFunc(protected))
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/achievements", nil))

	if called {
		t.Fatal("handler should not run for guests")
	}
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestRequireUserPassesAuthenticated(t *testing.T) {
	m := newTestMiddleware()

	called := false
	protected := m.RequireUser(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest("GET", "/api/achievements", nil)
	ctx := req.Context()
	ctx = contextWithIdentity(ctx, identity.Authenticated(42, "amy"))
	protected(httptest.NewRecorder(), req.WithContext(ctx))

	if !called {
		t.Fatal("handler should run for authenticated users")
	}
}
