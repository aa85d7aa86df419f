package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"spellquest/internal/credentials"
	"spellquest/internal/identity"
	"spellquest/internal/models"
	"spellquest/internal/repository"
	"spellquest/internal/validation"
)

var (
	ErrGameSessionNotFound = errors.New("game session not found")
	ErrSessionForbidden    = errors.New("not allowed to access this session")
	ErrSessionComplete     = errors.New("session is already complete")
	ErrAttemptLimit        = errors.New("all words have been attempted")
	ErrWordAttempted       = errors.New("word has already been attempted in this session")
	ErrInvalidMode         = errors.New("invalid game mode")
	ErrInvalidDifficulty   = errors.New("invalid difficulty")
	ErrListOrDifficulty    = errors.New("exactly one of word list or difficulty is required")
	ErrChallengeModeOnly   = errors.New("challenge sessions require a challenge mode and vice versa")
	ErrGuestChallenge      = errors.New("guests cannot play challenges")
	ErrEmptyList           = errors.New("list has no words to play")
)

// StartSessionInput describes a session start request
type StartSessionInput struct {
	Mode        string
	WordListID  *int64
	Difficulty  *string
	ChallengeID *int64
}

// GameService runs the session lifecycle: start, attempts, completion and
// the post-completion fan-out (leaderboard, achievements, challenges)
type GameService struct {
	sessionRepo        *repository.SessionRepository
	listRepo           *repository.ListRepository
	leaderboardRepo    *repository.LeaderboardRepository
	listService        *ListService
	achievementService *AchievementService
	challengeService   *ChallengeService
}

// NewGameService creates a new game service
func NewGameService(
	sessionRepo *repository.SessionRepository,
	listRepo *repository.ListRepository,
	leaderboardRepo *repository.LeaderboardRepository,
	listService *ListService,
	achievementService *AchievementService,
	challengeService *ChallengeService,
) *GameService {
	return &GameService{
		sessionRepo:        sessionRepo,
		listRepo:           listRepo,
		leaderboardRepo:    leaderboardRepo,
		listService:        listService,
		achievementService: achievementService,
		challengeService:   challengeService,
	}
}

// StartSession creates a new game session for the given identity
func (s *GameService) StartSession(who identity.Identity, in StartSessionInput) (*models.GameSession, error) {
	if !models.ValidMode(in.Mode) {
		return nil, ErrInvalidMode
	}
	if (in.WordListID == nil) == (in.Difficulty == nil) {
		return nil, ErrListOrDifficulty
	}
	if (in.Mode == models.ModeChallenge) != (in.ChallengeID != nil) {
		return nil, ErrChallengeModeOnly
	}

	var list *models.WordList
	var err error
	if in.WordListID != nil {
		var requesterID *int64
		if who.IsAuthenticated() {
			requesterID = &who.UserID
		}
		withWords, err := s.listService.GetList(*in.WordListID, requesterID)
		if err != nil {
			return nil, err
		}
		list = &withWords.List
	} else {
		if !models.ValidDifficulty(*in.Difficulty) {
			return nil, ErrInvalidDifficulty
		}
		list, err = s.listService.ListForDifficulty(*in.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve difficulty list: %w", err)
		}
		if list == nil {
			return nil, ErrListNotFound
		}
	}

	words, err := s.listRepo.GetListWords(list.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %w", err)
	}
	if len(words) == 0 {
		return nil, ErrEmptyList
	}

	session := &models.GameSession{
		Mode:       in.Mode,
		WordListID: &list.ID,
		Difficulty: in.Difficulty,
		TotalWords: len(words),
	}

	if who.IsAuthenticated() {
		session.UserID = &who.UserID
	} else {
		session.GuestName = who.DisplayName
		if session.GuestName == "" {
			name, err := credentials.GenerateGuestName()
			if err != nil {
				return nil, fmt.Errorf("failed to generate guest name: %w", err)
			}
			session.GuestName = name
		}
	}

	if in.ChallengeID != nil {
		if !who.IsAuthenticated() {
			return nil, ErrGuestChallenge
		}
		challenge, err := s.challengeService.Get(*in.ChallengeID, who.UserID)
		if err != nil {
			return nil, err
		}
		if challenge.Status != models.ChallengeActive {
			return nil, ErrChallengeNotActive
		}
		if challenge.WordListID != list.ID {
			return nil, ErrListNotFound
		}
		session.ChallengeID = in.ChallengeID
	}

	return s.sessionRepo.CreateSession(session)
}

// GetSession loads a session the requester is allowed to see
func (s *GameService) GetSession(sessionID int64, who identity.Identity) (*models.GameSession, error) {
	session, err := s.sessionRepo.GetSessionByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrGameSessionNotFound
	}
	if !canUseSession(session, who) {
		return nil, ErrSessionForbidden
	}
	return session, nil
}

// SubmitAttempt records one spelling attempt against an open session and
// returns it with correctness and points filled in
func (s *GameService) SubmitAttempt(sessionID int64, who identity.Identity, wordID int64, attemptText string, timeTakenMs int) (*models.WordAttempt, error) {
	session, err := s.GetSession(sessionID, who)
	if err != nil {
		return nil, err
	}
	if session.IsComplete {
		return nil, ErrSessionComplete
	}

	if strings.TrimSpace(attemptText) == "" {
		return nil, validation.ValidationError{Field: "attempt", Message: "attempt cannot be empty"}
	}
	if timeTakenMs < 0 {
		return nil, validation.ValidationError{Field: "time_taken_ms", Message: "time taken cannot be negative"}
	}

	attempts, err := s.sessionRepo.GetSessionAttempts(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempts: %w", err)
	}
	if len(attempts) >= session.TotalWords {
		return nil, ErrAttemptLimit
	}
	for _, a := range attempts {
		if a.WordID == wordID {
			return nil, ErrWordAttempted
		}
	}

	words, err := s.listRepo.GetListWords(*session.WordListID)
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %w", err)
	}
	var target *models.Word
	for i := range words {
		if words[i].ID == wordID {
			target = &words[i]
			break
		}
	}
	if target == nil {
		return nil, ErrWordNotInList
	}

	isCorrect := CheckSpelling(target.WordText, attemptText)
	points := ScoreAttempt(session.Mode, isCorrect, timeTakenMs)

	return s.sessionRepo.RecordAttempt(sessionID, wordID, attemptText, isCorrect, timeTakenMs, points)
}

// CompleteSession finalizes a session, aggregates its attempts and runs the
// post-completion effects. Completing an already-complete session returns
// the stored result without re-running effects.
func (s *GameService) CompleteSession(sessionID int64, who identity.Identity) (*models.SessionResult, error) {
	session, err := s.GetSession(sessionID, who)
	if err != nil {
		return nil, err
	}

	attempts, err := s.sessionRepo.GetSessionAttempts(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempts: %w", err)
	}

	if session.IsComplete {
		return s.buildResult(session, attempts, 0), nil
	}

	score, correct, incorrect := 0, 0, 0
	for _, a := range attempts {
		score += a.PointsEarned
		if a.IsCorrect {
			correct++
		} else {
			incorrect++
		}
	}
	bestStreak := BestStreak(attempts)

	completed, err := s.sessionRepo.CompleteSession(sessionID, score, correct, incorrect, bestStreak)
	if err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}

	session, err = s.sessionRepo.GetSessionByID(sessionID)
	if err != nil || session == nil {
		return nil, fmt.Errorf("failed to reload session: %w", err)
	}

	// Lost a race with a concurrent complete; the winner ran the effects
	if !completed {
		return s.buildResult(session, attempts, 0), nil
	}

	starsAwarded := s.onSessionCompleted(session, attempts)
	return s.buildResult(session, attempts, starsAwarded), nil
}

// GetRecentSessions returns the user's latest sessions
func (s *GameService) GetRecentSessions(userID int64, limit int) ([]models.GameSession, error) {
	return s.sessionRepo.GetRecentSessionsForUser(userID, limit)
}

// onSessionCompleted fans a freshly completed session out to the
// leaderboard, the achievement evaluator and any linked challenge. Effects
// are best-effort: a failure is logged without undoing the completion.
func (s *GameService) onSessionCompleted(session *models.GameSession, attempts []models.WordAttempt) int {
	if session.Difficulty != nil && session.Mode != models.ModePractice {
		score := &models.LeaderboardScore{
			UserID:        session.UserID,
			GuestName:     session.GuestName,
			Score:         session.Score,
			Difficulty:    *session.Difficulty,
			GameSessionID: session.ID,
		}
		if err := s.leaderboardRepo.InsertScore(score); err != nil {
			log.Printf("Failed to record leaderboard score for session %d: %v", session.ID, err)
		}
	}

	starsAwarded := 0
	if session.UserID != nil && session.WordListID != nil && session.Mode != models.ModePractice {
		stars, err := s.achievementService.Recompute(*session.UserID, *session.WordListID)
		if err != nil {
			log.Printf("Failed to recompute achievements for session %d: %v", session.ID, err)
		} else {
			starsAwarded = stars
		}
	}

	if session.ChallengeID != nil && session.UserID != nil {
		totalMs := 0
		for _, a := range attempts {
			totalMs += a.TimeTakenMs
		}
		_, err := s.challengeService.RecordResult(*session.ChallengeID, *session.UserID,
			session.Score, totalMs, session.CorrectWords, session.IncorrectWords)
		if err != nil {
			log.Printf("Failed to record challenge result for session %d: %v", session.ID, err)
		}
	}

	return starsAwarded
}

func (s *GameService) buildResult(session *models.GameSession, attempts []models.WordAttempt, stars int) *models.SessionResult {
	return &models.SessionResult{
		Session:  *session,
		Accuracy: session.Accuracy(),
		Attempts: attempts,
		NewStars: stars,
	}
}

// canUseSession reports whether an identity may act on a session. Guest
// sessions are not linked to a device, so any guest caller holding the
// session ID may act on them.
func canUseSession(session *models.GameSession, who identity.Identity) bool {
	if session.UserID != nil {
		return who.IsAuthenticated() && who.UserID == *session.UserID
	}
	return !who.IsAuthenticated()
}
