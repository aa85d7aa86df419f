// Package identity resolves a request's caller into either an authenticated
// user or an anonymous guest device. Guests carry a signed stateless token so
// their sessions and leaderboard rows stay consistent across requests without
// a user row.
package identity

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind discriminates the identity union
type Kind int

const (
	KindGuest Kind = iota
	KindAuthenticated
)

// Identity is the per-request caller: Authenticated(userID) or
// Guest(deviceID, displayName)
type Identity struct {
	Kind        Kind
	UserID      int64  // set when Kind == KindAuthenticated
	DeviceID    string // set when Kind == KindGuest
	DisplayName string
}

// Authenticated builds an authenticated identity
func Authenticated(userID int64, displayName string) Identity {
	return Identity{Kind: KindAuthenticated, UserID: userID, DisplayName: displayName}
}

// Guest builds a guest identity
func Guest(deviceID, displayName string) Identity {
	return Identity{Kind: KindGuest, DeviceID: deviceID, DisplayName: displayName}
}

// IsAuthenticated reports whether the identity belongs to a signed-in user
func (id Identity) IsAuthenticated() bool {
	return id.Kind == KindAuthenticated
}

// ReporterKey returns the stable key used to deduplicate content reports
func (id Identity) ReporterKey() string {
	if id.IsAuthenticated() {
		return "user:" + strconv.FormatInt(id.UserID, 10)
	}
	return "guest:" + id.DeviceID
}

var ErrInvalidGuestToken = errors.New("invalid guest token")

type guestClaims struct {
	DeviceID    string `json:"did"`
	DisplayName string `json:"name"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies guest device tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a guest token issuer. Tokens are HS256 JWTs carrying
// a device ID and display name.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// NewGuestToken mints a token for a fresh guest device
func (i *TokenIssuer) NewGuestToken(displayName string) (token string, deviceID string, err error) {
	deviceID = uuid.New().String()
	token, err = i.sign(deviceID, displayName)
	return token, deviceID, err
}

func (i *TokenIssuer) sign(deviceID, displayName string) (string, error) {
	now := time.Now()
	claims := guestClaims{
		DeviceID:    deviceID,
		DisplayName: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			Subject:   deviceID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// ParseGuestToken verifies a guest token and returns the guest identity
func (i *TokenIssuer) ParseGuestToken(token string) (Identity, error) {
	claims := &guestClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidGuestToken
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidGuestToken
	}
	if claims.DeviceID == "" {
		return Identity{}, ErrInvalidGuestToken
	}
	return Guest(claims.DeviceID, claims.DisplayName), nil
}
