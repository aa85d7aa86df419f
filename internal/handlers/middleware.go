package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"spellquest/internal/credentials"
	"spellquest/internal/identity"
	"spellquest/internal/security"
	"spellquest/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const IdentityContextKey ContextKey = "identity"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService  *service.AuthService
	tokens       *identity.TokenIssuer
	clientOrigin string
	rateLimiter  *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, tokens *identity.TokenIssuer, clientOrigin string) *Middleware {
	return &Middleware{
		authService:  authService,
		tokens:       tokens,
		clientOrigin: clientOrigin,
		// Enough for normal gameplay, tight enough to blunt brute force
		rateLimiter: security.NewRateLimiter(10, time.Minute),
	}
}

// Resolve attaches a caller identity to every request. A valid session
// cookie wins; otherwise a guest token is verified or, failing that, a
// fresh guest identity is minted and its cookie set.
func (m *Middleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		who := m.resolveIdentity(w, r)
		next.ServeHTTP(w, r.WithContext(contextWithIdentity(r.Context(), who)))
	})
}

func (m *Middleware) resolveIdentity(w http.ResponseWriter, r *http.Request) identity.Identity {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		user, err := m.authService.ValidateSession(cookie.Value)
		if err == nil {
			return identity.Authenticated(user.ID, user.Username)
		}
		http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	}

	if cookie, err := r.Cookie(GuestCookieName); err == nil && cookie.Value != "" {
		if who, err := m.tokens.ParseGuestToken(cookie.Value); err == nil {
			return who
		}
	}

	name, err := credentials.GenerateGuestName()
	if err != nil {
		log.Printf("Failed to generate guest name: %v", err)
		name = "guest-player"
	}
	token, deviceID, err := m.tokens.NewGuestToken(name)
	if err != nil {
		log.Printf("Failed to mint guest token: %v", err)
		return identity.Guest("", name)
	}
	http.SetCookie(w, security.CreateSessionCookie(r, GuestCookieName, token, time.Now().Add(365*24*time.Hour)))
	return identity.Guest(deviceID, name)
}

func contextWithIdentity(ctx context.Context, who identity.Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, who)
}

// IdentityFrom returns the request's resolved identity
func IdentityFrom(r *http.Request) identity.Identity {
	who, _ := r.Context().Value(IdentityContextKey).(identity.Identity)
	return who
}

// RequireUser rejects guests with a 401
func (m *Middleware) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !IdentityFrom(r).IsAuthenticated() {
			respondError(w, http.StatusUnauthorized, ErrUnauthorized)
			return
		}
		next(w, r)
	}
}

// RateLimit applies per-IP rate limiting to a handler
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.rateLimiter.Allow(ip) {
			respondError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			return
		}
		next(w, r)
	}
}

// CORS allows the configured browser client origin to call the API with
// credentials. With no origin configured it is a no-op.
func (m *Middleware) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.clientOrigin != "" && r.Header.Get("Origin") == m.clientOrigin {
			w.Header().Set("Access-Control-Allow-Origin", m.clientOrigin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Logging wraps a handler with request logging
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, wrapped.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// pathID parses a numeric path value of a request
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}
