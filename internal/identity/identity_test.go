package identity

import (
	"testing"
	"time"
)

func TestGuestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, deviceID, err := issuer.NewGuestToken("happy-dragon")
	if err != nil {
		t.Fatalf("NewGuestToken() error = %v", err)
	}
	if token == "" || deviceID == "" {
		t.Fatal("expected non-empty token and device ID")
	}

	id, err := issuer.ParseGuestToken(token)
	if err != nil {
		t.Fatalf("ParseGuestToken() error = %v", err)
	}
	if id.IsAuthenticated() {
		t.Error("guest token should not produce an authenticated identity")
	}
	if id.DeviceID != deviceID {
		t.Errorf("device ID = %q, want %q", id.DeviceID, deviceID)
	}
	if id.DisplayName != "happy-dragon" {
		t.Errorf("display name = %q, want %q", id.DisplayName, "happy-dragon")
	}
}

func TestParseGuestTokenRejectsBadTokens(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("different-secret", time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issuer.ParseGuestToken(tt.token); err == nil {
				t.Error("expected error for invalid token")
			}
		})
	}

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := other.NewGuestToken("sneaky-fox")
		if err != nil {
			t.Fatalf("NewGuestToken() error = %v", err)
		}
		if _, err := issuer.ParseGuestToken(token); err == nil {
			t.Error("expected error for token signed with another secret")
		}
	})

	t.Run("expired", func(t *testing.T) {
		short := NewTokenIssuer("test-secret", -time.Minute)
		token, _, err := short.NewGuestToken("late-panda")
		if err != nil {
			t.Fatalf("NewGuestToken() error = %v", err)
		}
		if _, err := short.ParseGuestToken(token); err == nil {
			t.Error("expected error for expired token")
		}
	})
}

func TestReporterKey(t *testing.T) {
	auth := Authenticated(42, "speller")
	if auth.ReporterKey() != "user:42" {
		t.Errorf("ReporterKey() = %q, want %q", auth.ReporterKey(), "user:42")
	}

	guest := Guest("abc-123", "happy-dragon")
	if guest.ReporterKey() != "guest:abc-123" {
		t.Errorf("ReporterKey() = %q, want %q", guest.ReporterKey(), "guest:abc-123")
	}
}
