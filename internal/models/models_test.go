package models

import (
	"testing"
	"time"
)

func TestSessionIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "future expiration",
			expiresAt: time.Now().Add(1 * time.Hour),
			want:      false,
		},
		{
			name:      "just expired",
			expiresAt: time.Now().Add(-1 * time.Second),
			want:      true,
		},
		{
			name:      "expired yesterday",
			expiresAt: time.Now().Add(-24 * time.Hour),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := Session{
				ID:        "test-session",
				UserID:    1,
				ExpiresAt: tt.expiresAt,
				CreatedAt: time.Now().Add(-1 * time.Hour),
			}
			if got := session.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccuracyPercent(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		total   int
		want    int
		wantNil bool
	}{
		{name: "zero attempts", correct: 0, total: 0, wantNil: true},
		{name: "all correct", correct: 10, total: 10, want: 100},
		{name: "none correct", correct: 0, total: 10, want: 0},
		{name: "rounds up", correct: 2, total: 3, want: 67},
		{name: "rounds down", correct: 1, total: 3, want: 33},
		{name: "half", correct: 7, total: 14, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AccuracyPercent(tt.correct, tt.total)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("AccuracyPercent(%d, %d) = %d, want nil", tt.correct, tt.total, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("AccuracyPercent(%d, %d) = nil, want %d", tt.correct, tt.total, tt.want)
			}
			if *got != tt.want {
				t.Errorf("AccuracyPercent(%d, %d) = %d, want %d", tt.correct, tt.total, *got, tt.want)
			}
		})
	}
}

func TestStarsForModeCount(t *testing.T) {
	tests := []struct {
		modes int
		want  int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 3},
		{10, 3},
		{-1, 0},
	}

	for _, tt := range tests {
		if got := StarsForModeCount(tt.modes); got != tt.want {
			t.Errorf("StarsForModeCount(%d) = %d, want %d", tt.modes, got, tt.want)
		}
	}

	// Saturating and non-decreasing
	prev := 0
	for modes := 0; modes <= 8; modes++ {
		got := StarsForModeCount(modes)
		if got < prev {
			t.Errorf("star tier decreased: f(%d) = %d < %d", modes, got, prev)
		}
		if got > 3 {
			t.Errorf("star tier exceeds cap: f(%d) = %d", modes, got)
		}
		prev = got
	}
}

func TestChallengeWinner(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name           string
		initiatorScore int
		opponentScore  int
		bothDone       bool
		wantWinner     *int64
	}{
		{
			name:           "initiator wins",
			initiatorScore: 80,
			opponentScore:  60,
			bothDone:       true,
			wantWinner:     ptrInt64(1),
		},
		{
			name:           "opponent wins",
			initiatorScore: 40,
			opponentScore:  90,
			bothDone:       true,
			wantWinner:     ptrInt64(2),
		},
		{
			name:           "tie has no winner",
			initiatorScore: 50,
			opponentScore:  50,
			bothDone:       true,
			wantWinner:     nil,
		},
		{
			name:           "unresolved until both complete",
			initiatorScore: 100,
			opponentScore:  0,
			bothDone:       false,
			wantWinner:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Challenge{
				ID:          1,
				InitiatorID: 1,
				OpponentID:  2,
				Initiator:   ChallengeSide{Score: tt.initiatorScore, CompletedAt: &now},
				Opponent:    ChallengeSide{Score: tt.opponentScore},
			}
			if tt.bothDone {
				c.Opponent.CompletedAt = &now
			}

			got := c.Winner()
			if tt.wantWinner == nil {
				if got != nil {
					t.Fatalf("Winner() = %d, want nil", *got)
				}
				return
			}
			if got == nil || *got != *tt.wantWinner {
				t.Fatalf("Winner() = %v, want %d", got, *tt.wantWinner)
			}
		})
	}
}

func ptrInt64(v int64) *int64 {
	return &v
}
