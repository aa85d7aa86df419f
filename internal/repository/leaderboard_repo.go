package repository

import (
	"database/sql"
	"fmt"

	"spellquest/internal/database"
	"spellquest/internal/models"
)

// LeaderboardRepository handles database operations for leaderboard scores
type LeaderboardRepository struct {
	db *database.DB
}

// NewLeaderboardRepository creates a new leaderboard repository
func NewLeaderboardRepository(db *database.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// InsertScore records a completed difficulty-tier session on the leaderboard
func (r *LeaderboardRepository) InsertScore(score *models.LeaderboardScore) error {
	query := `
		INSERT INTO leaderboard_scores (user_id, guest_name, score, difficulty, game_session_id)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, score.UserID, score.GuestName, score.Score, score.Difficulty, score.GameSessionID)
	if err != nil {
		return fmt.Errorf("failed to insert leaderboard score: %w", err)
	}
	return nil
}

// TopScores returns the top scores, optionally filtered by difficulty,
// ordered by score descending with earlier scores winning ties. Guest rows
// have no profile; they display under their stored guest name.
func (r *LeaderboardRepository) TopScores(difficulty string, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT s.score, s.difficulty, s.created_at, s.user_id,
		       COALESCE(u.username, ''), COALESCE(u.avatar, ''), COALESCE(s.guest_name, '')
		FROM leaderboard_scores s
		LEFT JOIN users u ON u.id = s.user_id
	`
	args := []interface{}{}
	if difficulty != "" {
		query += " WHERE s.difficulty = ?"
		args = append(args, difficulty)
	}
	query += " ORDER BY s.score DESC, s.created_at ASC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	rank := 0
	for rows.Next() {
		var entry models.LeaderboardEntry
		var userID sql.NullInt64
		var username, avatar, guestName string

		err := rows.Scan(&entry.Score, &entry.Difficulty, &entry.AchievedAt, &userID, &username, &avatar, &guestName)
		if err != nil {
			return nil, err
		}

		rank++
		entry.Rank = rank
		if userID.Valid {
			entry.Name = username
			entry.Avatar = avatar
		} else {
			entry.Name = guestName
			entry.IsGuest = true
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
