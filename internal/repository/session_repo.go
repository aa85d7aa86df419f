package repository

import (
	"database/sql"
	"fmt"
	"time"

	"spellquest/internal/database"
	"spellquest/internal/models"
)

// SessionRepository handles database operations for game sessions and word
// attempts
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new game session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateSession creates a new game session
func (r *SessionRepository) CreateSession(session *models.GameSession) (*models.GameSession, error) {
	query := `
		INSERT INTO game_sessions
			(user_id, guest_name, word_list_id, difficulty, mode, challenge_id, total_words)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		session.UserID,
		session.GuestName,
		session.WordListID,
		session.Difficulty,
		session.Mode,
		session.ChallengeID,
		session.TotalWords,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create game session: %w", err)
	}
	return r.GetSessionByID(id)
}

// GetSessionByID retrieves a game session by ID
func (r *SessionRepository) GetSessionByID(sessionID int64) (*models.GameSession, error) {
	query := `
		SELECT id, user_id, COALESCE(guest_name, ''), word_list_id, difficulty, mode,
		       challenge_id, score, correct_words, incorrect_words, total_words,
		       best_streak, is_complete, started_at, completed_at
		FROM game_sessions
		WHERE id = ?
	`
	session := &models.GameSession{}
	var userID, wordListID, challengeID sql.NullInt64
	var difficulty sql.NullString
	var completedAt sql.NullTime

	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&userID,
		&session.GuestName,
		&wordListID,
		&difficulty,
		&session.Mode,
		&challengeID,
		&session.Score,
		&session.CorrectWords,
		&session.IncorrectWords,
		&session.TotalWords,
		&session.BestStreak,
		&session.IsComplete,
		&session.StartedAt,
		&completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game session: %w", err)
	}

	if userID.Valid {
		session.UserID = &userID.Int64
	}
	if wordListID.Valid {
		session.WordListID = &wordListID.Int64
	}
	if challengeID.Valid {
		session.ChallengeID = &challengeID.Int64
	}
	if difficulty.Valid {
		session.Difficulty = &difficulty.String
	}
	if completedAt.Valid {
		session.CompletedAt = &completedAt.Time
	}
	return session, nil
}

// RecordAttempt records a word attempt
func (r *SessionRepository) RecordAttempt(sessionID, wordID int64, attemptText string, isCorrect bool, timeTakenMs, pointsEarned int) (*models.WordAttempt, error) {
	query := `
		INSERT INTO word_attempts
			(game_session_id, word_id, attempt_text, is_correct, time_taken_ms, points_earned)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, sessionID, wordID, attemptText, isCorrect, timeTakenMs, pointsEarned)
	if err != nil {
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}

	return &models.WordAttempt{
		ID:            id,
		GameSessionID: sessionID,
		WordID:        wordID,
		AttemptText:   attemptText,
		IsCorrect:     isCorrect,
		TimeTakenMs:   timeTakenMs,
		PointsEarned:  pointsEarned,
		AttemptedAt:   time.Now(),
	}, nil
}

// GetSessionAttempts retrieves all attempts for a session in order
func (r *SessionRepository) GetSessionAttempts(sessionID int64) ([]models.WordAttempt, error) {
	query := `
		SELECT id, game_session_id, word_id, attempt_text, is_correct,
		       time_taken_ms, points_earned, attempted_at
		FROM word_attempts
		WHERE game_session_id = ?
		ORDER BY id ASC
	`
	rows, err := r.db.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.WordAttempt
	for rows.Next() {
		var attempt models.WordAttempt
		err := rows.Scan(
			&attempt.ID,
			&attempt.GameSessionID,
			&attempt.WordID,
			&attempt.AttemptText,
			&attempt.IsCorrect,
			&attempt.TimeTakenMs,
			&attempt.PointsEarned,
			&attempt.AttemptedAt,
		)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	return attempts, rows.Err()
}

// CompleteSession marks a session complete with its final totals. The update
// is conditional on the session not already being complete, so a session is
// terminal once completed.
func (r *SessionRepository) CompleteSession(sessionID int64, score, correct, incorrect, bestStreak int) (bool, error) {
	query := `
		UPDATE game_sessions
		SET score = ?, correct_words = ?, incorrect_words = ?, best_streak = ?,
		    is_complete = ?, completed_at = ?
		WHERE id = ? AND is_complete = ?
	`
	result, err := r.db.Exec(query, score, correct, incorrect, bestStreak, true, time.Now(), sessionID, false)
	if err != nil {
		return false, fmt.Errorf("failed to complete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// GetRecentSessionsForUser retrieves a user's sessions, newest first
func (r *SessionRepository) GetRecentSessionsForUser(userID int64, limit int) ([]models.GameSession, error) {
	query := `
		SELECT id FROM game_sessions
		WHERE user_id = ?
		ORDER BY started_at DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sessions := make([]models.GameSession, 0, len(ids))
	for _, id := range ids {
		session, err := r.GetSessionByID(id)
		if err != nil {
			return nil, err
		}
		if session != nil {
			sessions = append(sessions, *session)
		}
	}
	return sessions, nil
}

// GetPerfectModesForList returns the distinct game modes the user has
// completed at 100% accuracy on the given list, excluding practice mode
func (r *SessionRepository) GetPerfectModesForList(userID, listID int64) ([]string, error) {
	query := `
		SELECT DISTINCT mode
		FROM game_sessions
		WHERE user_id = ? AND word_list_id = ? AND is_complete = ?
		  AND mode != ?
		  AND total_words > 0
		  AND correct_words = total_words
		  AND incorrect_words = 0
	`
	rows, err := r.db.Query(query, userID, listID, true, models.ModePractice)
	if err != nil {
		return nil, fmt.Errorf("failed to query perfect modes: %w", err)
	}
	defer rows.Close()

	var modes []string
	for rows.Next() {
		var mode string
		if err := rows.Scan(&mode); err != nil {
			return nil, err
		}
		modes = append(modes, mode)
	}
	return modes, rows.Err()
}
