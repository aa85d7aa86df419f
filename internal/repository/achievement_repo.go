package repository

import (
	"fmt"

	"spellquest/internal/database"
	"spellquest/internal/models"
)

// AchievementRepository handles database operations for achievements
type AchievementRepository struct {
	db *database.DB
}

// NewAchievementRepository creates a new achievement repository
func NewAchievementRepository(db *database.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// Upsert stores the star tier for (user, list, type). Keyed on the unique
// index, so recomputing with unchanged history is a no-op write.
func (r *AchievementRepository) Upsert(userID, listID int64, achievementType string, stars int) error {
	query := r.db.Dialect.UpsertAchievementQuery()
	if _, err := r.db.Exec(query, userID, listID, achievementType, stars); err != nil {
		return fmt.Errorf("failed to upsert achievement: %w", err)
	}
	return nil
}

// GetForUser retrieves all achievements for a user
func (r *AchievementRepository) GetForUser(userID int64) ([]models.Achievement, error) {
	query := `
		SELECT id, user_id, word_list_id, achievement_type, stars, created_at, updated_at
		FROM achievements
		WHERE user_id = ?
		ORDER BY updated_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		var a models.Achievement
		err := rows.Scan(&a.ID, &a.UserID, &a.WordListID, &a.AchievementType, &a.Stars, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

// GetForUserAndList retrieves a user's achievements on one list
func (r *AchievementRepository) GetForUserAndList(userID, listID int64) ([]models.Achievement, error) {
	query := `
		SELECT id, user_id, word_list_id, achievement_type, stars, created_at, updated_at
		FROM achievements
		WHERE user_id = ? AND word_list_id = ?
	`
	rows, err := r.db.Query(query, userID, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		var a models.Achievement
		err := rows.Scan(&a.ID, &a.UserID, &a.WordListID, &a.AchievementType, &a.Stars, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}
