package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"spellquest/internal/models"
	"spellquest/internal/repository"
)

var (
	ErrChallengeNotFound   = errors.New("challenge not found")
	ErrNotParticipant      = errors.New("not a participant in this challenge")
	ErrNotOpponent         = errors.New("only the challenged player can respond")
	ErrChallengeNotPending = errors.New("challenge is not pending")
	ErrChallengeNotActive  = errors.New("challenge is not active")
	ErrSelfChallenge       = errors.New("cannot challenge yourself")
	ErrOpponentNotFound    = errors.New("opponent not found")
)

// ChallengeService manages head-to-head challenge lifecycle
type ChallengeService struct {
	challengeRepo *repository.ChallengeRepository
	userRepo      *repository.UserRepository
	listRepo      *repository.ListRepository
	emailService  *EmailService
}

// NewChallengeService creates a new challenge service
func NewChallengeService(challengeRepo *repository.ChallengeRepository, userRepo *repository.UserRepository, listRepo *repository.ListRepository, emailService *EmailService) *ChallengeService {
	return &ChallengeService{
		challengeRepo: challengeRepo,
		userRepo:      userRepo,
		listRepo:      listRepo,
		emailService:  emailService,
	}
}

// Create issues a challenge from initiator to an opponent on a word list.
// The opponent is notified by email when one is on file.
func (s *ChallengeService) Create(ctx context.Context, initiatorID int64, opponentUsername string, listID int64) (*models.Challenge, error) {
	opponent, err := s.userRepo.GetUserByUsername(opponentUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to look up opponent: %w", err)
	}
	if opponent == nil {
		return nil, ErrOpponentNotFound
	}
	if opponent.ID == initiatorID {
		return nil, ErrSelfChallenge
	}

	list, err := s.listRepo.GetListByID(listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	if list == nil {
		return nil, ErrListNotFound
	}
	// Both players must be able to see the list
	if list.Visibility == models.VisibilityPrivate && (list.OwnerID == nil || *list.OwnerID != initiatorID) {
		return nil, ErrListForbidden
	}

	challenge, err := s.challengeRepo.Create(listID, initiatorID, opponent.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	if opponent.Email != "" {
		initiator, err := s.userRepo.GetUserByID(initiatorID)
		if err == nil && initiator != nil {
			if err := s.emailService.SendChallengeInviteEmail(ctx, opponent.Email, opponent.Username, initiator.Username, list.Name, challenge.ID); err != nil {
				log.Printf("Failed to send challenge invite email: %v", err)
			}
		}
	}

	return challenge, nil
}

// Accept moves a pending challenge to active. Only the opponent may accept.
func (s *ChallengeService) Accept(challengeID, userID int64) (*models.Challenge, error) {
	return s.respond(challengeID, userID, models.ChallengeActive)
}

// Decline rejects a pending challenge. Only the opponent may decline.
func (s *ChallengeService) Decline(challengeID, userID int64) (*models.Challenge, error) {
	return s.respond(challengeID, userID, models.ChallengeDeclined)
}

func (s *ChallengeService) respond(challengeID, userID int64, to string) (*models.Challenge, error) {
	challenge, err := s.challengeRepo.GetByID(challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	if challenge.OpponentID != userID {
		return nil, ErrNotOpponent
	}

	ok, err := s.challengeRepo.TransitionStatus(challengeID, models.ChallengePending, to)
	if err != nil {
		return nil, fmt.Errorf("failed to transition challenge: %w", err)
	}
	if !ok {
		return nil, ErrChallengeNotPending
	}

	return s.challengeRepo.GetByID(challengeID)
}

// GetForUser returns a user's challenges, excluding declined ones
func (s *ChallengeService) GetForUser(userID int64) ([]models.ChallengeWithNames, error) {
	return s.challengeRepo.GetForUser(userID)
}

// Get returns a challenge visible to one of its participants
func (s *ChallengeService) Get(challengeID, userID int64) (*models.Challenge, error) {
	challenge, err := s.challengeRepo.GetByID(challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	if challenge.SideFor(userID) == nil {
		return nil, ErrNotParticipant
	}
	return challenge, nil
}

// RecordResult stores one participant's finished session against an active
// challenge and resolves the challenge once both sides are in. A side's
// result is recorded at most once; the winner is credited a single star.
func (s *ChallengeService) RecordResult(challengeID, userID int64, score, timeMs, correct, incorrect int) (*models.Challenge, error) {
	challenge, err := s.challengeRepo.GetByID(challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	if challenge.Status != models.ChallengeActive {
		return nil, ErrChallengeNotActive
	}

	var recorded bool
	switch userID {
	case challenge.InitiatorID:
		recorded, err = s.challengeRepo.RecordInitiatorResult(challengeID, score, timeMs, correct, incorrect)
	case challenge.OpponentID:
		recorded, err = s.challengeRepo.RecordOpponentResult(challengeID, score, timeMs, correct, incorrect)
	default:
		return nil, ErrNotParticipant
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record result: %w", err)
	}
	if !recorded {
		// Already submitted; resolution may still be outstanding
		log.Printf("Challenge %d: duplicate result from user %d ignored", challengeID, userID)
	}

	resolved, err := s.challengeRepo.Resolve(challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve challenge: %w", err)
	}
	return resolved, nil
}
