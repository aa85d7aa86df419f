package service

import (
	"spellquest/internal/models"
	"spellquest/internal/repository"
	"spellquest/internal/validation"
)

// Leaderboards show the top 10 scores
const leaderboardSize = 10

// LeaderboardService serves ranked score views
type LeaderboardService struct {
	leaderboardRepo *repository.LeaderboardRepository
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(leaderboardRepo *repository.LeaderboardRepository) *LeaderboardService {
	return &LeaderboardService{leaderboardRepo: leaderboardRepo}
}

// Top returns the highest scores, optionally filtered to one difficulty
// tier. An empty difficulty means all tiers.
func (s *LeaderboardService) Top(difficulty string) ([]models.LeaderboardEntry, error) {
	if difficulty != "" && !models.ValidDifficulty(difficulty) {
		return nil, validation.ValidationError{Field: "difficulty", Message: "difficulty must be easy, medium or hard"}
	}
	return s.leaderboardRepo.TopScores(difficulty, leaderboardSize)
}
