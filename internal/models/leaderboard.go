package models

import "time"

// LeaderboardScore is one row on the leaderboard. UserID is nil for guest
// scores, which are shown under the stored guest display name and cannot be
// linked back to a profile.
type LeaderboardScore struct {
	ID            int64
	UserID        *int64
	GuestName     string
	Score         int
	Difficulty    string
	GameSessionID int64
	CreatedAt     time.Time
}

// LeaderboardEntry is a ranked row joined with the display identity
type LeaderboardEntry struct {
	Rank       int
	Score      int
	Difficulty string
	Name       string
	Avatar     string
	IsGuest    bool
	AchievedAt time.Time
}
