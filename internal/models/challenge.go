package models

import "time"

// Challenge statuses
const (
	ChallengePending   = "pending"
	ChallengeActive    = "active"
	ChallengeDeclined  = "declined"
	ChallengeCompleted = "completed"
)

// ChallengeSide holds one player's recorded result
type ChallengeSide struct {
	Score       int
	TimeMs      int
	Correct     int
	Incorrect   int
	CompletedAt *time.Time
}

// Completed reports whether this side has submitted a finished session
func (s *ChallengeSide) Completed() bool {
	return s.CompletedAt != nil
}

// Challenge is a head-to-head pairing of two users on one word list.
// Each side's result is recorded independently; once both sides have a
// completion timestamp the challenge resolves to a winner (or a tie).
type Challenge struct {
	ID          int64
	WordListID  int64
	InitiatorID int64
	OpponentID  int64
	Status      string
	Initiator   ChallengeSide
	Opponent    ChallengeSide
	WinnerID    *int64
	ResolvedAt  *time.Time
	CreatedAt   time.Time
}

// BothCompleted reports whether both sides have submitted results
func (c *Challenge) BothCompleted() bool {
	return c.Initiator.Completed() && c.Opponent.Completed()
}

// Winner returns the winning user ID, or nil on a tie. Only meaningful when
// both sides have completed.
func (c *Challenge) Winner() *int64 {
	if !c.BothCompleted() {
		return nil
	}
	if c.Initiator.Score > c.Opponent.Score {
		id := c.InitiatorID
		return &id
	}
	if c.Opponent.Score > c.Initiator.Score {
		id := c.OpponentID
		return &id
	}
	return nil
}

// SideFor returns a pointer to the side belonging to userID, or nil if the
// user is not a participant
func (c *Challenge) SideFor(userID int64) *ChallengeSide {
	switch userID {
	case c.InitiatorID:
		return &c.Initiator
	case c.OpponentID:
		return &c.Opponent
	}
	return nil
}

// ChallengeWithNames joins a challenge with participant display names
type ChallengeWithNames struct {
	Challenge
	InitiatorName string
	OpponentName  string
	WordListName  string
}
