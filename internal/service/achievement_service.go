package service

import (
	"fmt"
	"log"

	"spellquest/internal/models"
	"spellquest/internal/repository"
)

// AchievementService derives star achievements from completed sessions
type AchievementService struct {
	achievementRepo *repository.AchievementRepository
	sessionRepo     *repository.SessionRepository
}

// NewAchievementService creates a new achievement service
func NewAchievementService(achievementRepo *repository.AchievementRepository, sessionRepo *repository.SessionRepository) *AchievementService {
	return &AchievementService{
		achievementRepo: achievementRepo,
		sessionRepo:     sessionRepo,
	}
}

// Recompute recalculates the star tier for a user and list from their
// perfect completed sessions and upserts it. Idempotent: replaying the
// same sessions yields the same stars.
func (s *AchievementService) Recompute(userID, listID int64) (int, error) {
	modes, err := s.sessionRepo.GetPerfectModesForList(userID, listID)
	if err != nil {
		return 0, fmt.Errorf("failed to get perfect modes: %w", err)
	}

	stars := models.StarsForModeCount(len(modes))
	if stars == 0 {
		return 0, nil
	}

	if err := s.achievementRepo.Upsert(userID, listID, models.AchievementTypeStars, stars); err != nil {
		return 0, fmt.Errorf("failed to upsert achievement: %w", err)
	}

	log.Printf("Achievement updated: user=%d list=%d stars=%d (modes=%d)", userID, listID, stars, len(modes))
	return stars, nil
}

// GetForUser returns all achievements earned by a user
func (s *AchievementService) GetForUser(userID int64) ([]models.Achievement, error) {
	return s.achievementRepo.GetForUser(userID)
}

// StarsForList returns the user's current star tier for one list
func (s *AchievementService) StarsForList(userID, listID int64) (int, error) {
	achievements, err := s.achievementRepo.GetForUserAndList(userID, listID)
	if err != nil {
		return 0, err
	}
	for _, a := range achievements {
		if a.AchievementType == models.AchievementTypeStars {
			return a.Stars, nil
		}
	}
	return 0, nil
}
