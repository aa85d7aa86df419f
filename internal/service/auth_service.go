package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"spellquest/internal/database"
	"spellquest/internal/models"
	"spellquest/internal/repository"
	"spellquest/internal/security"
	"spellquest/internal/validation"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// AuthService handles registration, login and session validation
type AuthService struct {
	userRepo        *repository.UserRepository
	db              *database.DB
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, db *database.DB, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		db:              db,
		sessionDuration: sessionDuration,
	}
}

// Register creates a new user account
func (s *AuthService) Register(username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if email != "" {
		if err := validation.ValidateEmail(email); err != nil {
			return nil, err
		}
	}

	// Usernames show up on the leaderboard; keep them clean
	isBad, err := s.db.IsBadWord(strings.ToLower(username))
	if err != nil {
		return nil, fmt.Errorf("failed to screen username: %w", err)
	}
	if isBad {
		return nil, validation.ValidationError{Field: "username", Message: "username is not allowed"}
	}

	existing, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	if email != "" {
		existing, err = s.userRepo.GetUserByEmail(email)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing email: %w", err)
		}
		if existing != nil {
			return nil, ErrEmailTaken
		}
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(username, email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login authenticates a user and creates a session
func (s *AuthService) Login(username, password string) (*models.Session, *models.User, error) {
	user, err := s.userRepo.GetUserByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if user.PasswordHash == "" || !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	return s.CreateSessionFor(user)
}

// CreateSessionFor issues a fresh session for an already-verified user
// (password login and OAuth callback both end here)
func (s *AuthService) CreateSessionFor(user *models.User) (*models.Session, *models.User, error) {
	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.userRepo.CreateSession(sessionID, user.ID, expiresAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, user, nil
}

// ValidateSession checks if a session is valid and returns the associated user
func (s *AuthService) ValidateSession(sessionID string) (*models.User, error) {
	session, err := s.userRepo.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		_ = s.userRepo.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	user, err := s.userRepo.GetUserByID(session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrSessionNotFound
	}
	return user, nil
}

// GetUser loads a user by ID
func (s *AuthService) GetUser(userID int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrSessionNotFound
	}
	return user, nil
}

// Logout removes a session
func (s *AuthService) Logout(sessionID string) error {
	return s.userRepo.DeleteSession(sessionID)
}

// FindOrCreateOAuthUser resolves an OAuth callback into a local user,
// creating one on first sign-in
func (s *AuthService) FindOrCreateOAuthUser(provider, subject, email, name string) (*models.User, error) {
	user, err := s.userRepo.GetUserByOAuth(provider, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to look up oauth user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	// Link by verified email when the account already exists
	if email != "" {
		user, err = s.userRepo.GetUserByEmail(email)
		if err != nil {
			return nil, fmt.Errorf("failed to look up email: %w", err)
		}
		if user != nil {
			return user, nil
		}
	}

	username := deriveUsername(name, email)
	for i := 0; ; i++ {
		candidate := username
		if i > 0 {
			candidate = fmt.Sprintf("%s%d", username, i)
		}
		existing, err := s.userRepo.GetUserByUsername(candidate)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if existing == nil {
			username = candidate
			break
		}
	}

	return s.userRepo.CreateOAuthUser(username, email, provider, subject)
}

// CleanupExpiredSessions removes all expired sessions
func (s *AuthService) CleanupExpiredSessions() error {
	_, err := s.userRepo.DeleteExpiredSessions()
	return err
}

// deriveUsername builds a username candidate from an OAuth profile
func deriveUsername(name, email string) string {
	base := strings.TrimSpace(name)
	if base == "" && email != "" {
		base = strings.SplitN(email, "@", 2)[0]
	}
	if base == "" {
		base = "player"
	}

	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	result := b.String()
	if len(result) < 3 {
		result = "player"
	}
	if len(result) > 24 {
		result = result[:24]
	}
	return result
}
