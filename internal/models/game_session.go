package models

import "time"

// Game modes
const (
	ModePractice  = "practice"
	ModeStandard  = "standard"
	ModeTimed     = "timed"
	ModeQuiz      = "quiz"
	ModeScramble  = "scramble"
	ModeChallenge = "challenge"
)

// Difficulty tiers for sessions played without a custom list
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ValidMode reports whether mode is a known game mode
func ValidMode(mode string) bool {
	switch mode {
	case ModePractice, ModeStandard, ModeTimed, ModeQuiz, ModeScramble, ModeChallenge:
		return true
	}
	return false
}

// ValidDifficulty reports whether difficulty is a known tier
func ValidDifficulty(difficulty string) bool {
	switch difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// GameSession represents one play-through of a word list or difficulty tier.
// Exactly one of WordListID / Difficulty is set. UserID is nil for guests.
type GameSession struct {
	ID             int64
	UserID         *int64
	GuestName      string
	WordListID     *int64
	Difficulty     *string
	Mode           string
	ChallengeID    *int64
	Score          int
	CorrectWords   int
	IncorrectWords int
	TotalWords     int
	BestStreak     int
	IsComplete     bool
	StartedAt      time.Time
	CompletedAt    *time.Time
}

// Accuracy returns round(100 * correct / attempted), or nil when nothing
// was attempted
func (s *GameSession) Accuracy() *int {
	return AccuracyPercent(s.CorrectWords, s.CorrectWords+s.IncorrectWords)
}

// AccuracyPercent returns round(100 * correct / total), or nil when total
// is zero
func AccuracyPercent(correct, total int) *int {
	if total <= 0 {
		return nil
	}
	pct := (correct*100 + total/2) / total
	return &pct
}

// WordAttempt represents a single word attempt in a game session
type WordAttempt struct {
	ID            int64
	GameSessionID int64
	WordID        int64
	AttemptText   string
	IsCorrect     bool
	TimeTakenMs   int
	PointsEarned  int
	AttemptedAt   time.Time
}

// SessionResult aggregates a completed session for API responses
type SessionResult struct {
	Session  GameSession
	Accuracy *int
	Attempts []WordAttempt
	NewStars int // star tier for the session's list after this completion
}
