package repository

import (
	"database/sql"
	"fmt"
	"time"

	"spellquest/internal/database"
	"spellquest/internal/models"
)

const challengeColumns = `c.id, c.word_list_id, c.initiator_id, c.opponent_id, c.status,
	       c.initiator_score, c.initiator_time_ms, c.initiator_correct, c.initiator_incorrect, c.initiator_completed_at,
	       c.opponent_score, c.opponent_time_ms, c.opponent_correct, c.opponent_incorrect, c.opponent_completed_at,
	       c.winner_id, c.resolved_at, c.created_at`

// ChallengeRepository handles database operations for head-to-head challenges
type ChallengeRepository struct {
	db *database.DB
}

// NewChallengeRepository creates a new challenge repository
func NewChallengeRepository(db *database.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// Create inserts a new pending challenge
func (r *ChallengeRepository) Create(wordListID, initiatorID, opponentID int64) (*models.Challenge, error) {
	query := `
		INSERT INTO challenges (word_list_id, initiator_id, opponent_id, status)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, wordListID, initiatorID, opponentID, models.ChallengePending)
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}
	return r.GetByID(id)
}

func scanChallenge(row interface{ Scan(...interface{}) error }) (*models.Challenge, error) {
	c := &models.Challenge{}
	var initiatorDone, opponentDone, resolvedAt sql.NullTime
	var winnerID sql.NullInt64

	err := row.Scan(
		&c.ID,
		&c.WordListID,
		&c.InitiatorID,
		&c.OpponentID,
		&c.Status,
		&c.Initiator.Score,
		&c.Initiator.TimeMs,
		&c.Initiator.Correct,
		&c.Initiator.Incorrect,
		&initiatorDone,
		&c.Opponent.Score,
		&c.Opponent.TimeMs,
		&c.Opponent.Correct,
		&c.Opponent.Incorrect,
		&opponentDone,
		&winnerID,
		&resolvedAt,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if initiatorDone.Valid {
		c.Initiator.CompletedAt = &initiatorDone.Time
	}
	if opponentDone.Valid {
		c.Opponent.CompletedAt = &opponentDone.Time
	}
	if winnerID.Valid {
		c.WinnerID = &winnerID.Int64
	}
	if resolvedAt.Valid {
		c.ResolvedAt = &resolvedAt.Time
	}
	return c, nil
}

// GetByID retrieves a challenge by ID
func (r *ChallengeRepository) GetByID(id int64) (*models.Challenge, error) {
	query := "SELECT " + challengeColumns + " FROM challenges c WHERE c.id = ?"
	c, err := scanChallenge(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return c, nil
}

// GetForUser retrieves challenges where the user is a participant, excluding
// declined ones, newest first
func (r *ChallengeRepository) GetForUser(userID int64) ([]models.ChallengeWithNames, error) {
	query := `
		SELECT ` + challengeColumns + `, iu.username, ou.username, l.name
		FROM challenges c
		JOIN users iu ON iu.id = c.initiator_id
		JOIN users ou ON ou.id = c.opponent_id
		JOIN word_lists l ON l.id = c.word_list_id
		WHERE (c.initiator_id = ? OR c.opponent_id = ?) AND c.status != ?
		ORDER BY c.created_at DESC
	`
	rows, err := r.db.Query(query, userID, userID, models.ChallengeDeclined)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenges: %w", err)
	}
	defer rows.Close()

	var challenges []models.ChallengeWithNames
	for rows.Next() {
		var cw models.ChallengeWithNames
		var initiatorDone, opponentDone, resolvedAt sql.NullTime
		var winnerID sql.NullInt64

		err := rows.Scan(
			&cw.ID,
			&cw.WordListID,
			&cw.InitiatorID,
			&cw.OpponentID,
			&cw.Status,
			&cw.Initiator.Score,
			&cw.Initiator.TimeMs,
			&cw.Initiator.Correct,
			&cw.Initiator.Incorrect,
			&initiatorDone,
			&cw.Opponent.Score,
			&cw.Opponent.TimeMs,
			&cw.Opponent.Correct,
			&cw.Opponent.Incorrect,
			&opponentDone,
			&winnerID,
			&resolvedAt,
			&cw.CreatedAt,
			&cw.InitiatorName,
			&cw.OpponentName,
			&cw.WordListName,
		)
		if err != nil {
			return nil, err
		}

		if initiatorDone.Valid {
			cw.Initiator.CompletedAt = &initiatorDone.Time
		}
		if opponentDone.Valid {
			cw.Opponent.CompletedAt = &opponentDone.Time
		}
		if winnerID.Valid {
			cw.WinnerID = &winnerID.Int64
		}
		if resolvedAt.Valid {
			cw.ResolvedAt = &resolvedAt.Time
		}
		challenges = append(challenges, cw)
	}
	return challenges, rows.Err()
}

// TransitionStatus moves a challenge from one status to another. Returns
// false when the challenge was not in the expected status.
func (r *ChallengeRepository) TransitionStatus(id int64, from, to string) (bool, error) {
	query := "UPDATE challenges SET status = ? WHERE id = ? AND status = ?"
	result, err := r.db.Exec(query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("failed to transition challenge: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// RecordInitiatorResult records the initiator's side. Conditional on the
// side not having completed yet.
func (r *ChallengeRepository) RecordInitiatorResult(id int64, score, timeMs, correct, incorrect int) (bool, error) {
	query := `
		UPDATE challenges
		SET initiator_score = ?, initiator_time_ms = ?, initiator_correct = ?,
		    initiator_incorrect = ?, initiator_completed_at = ?
		WHERE id = ? AND status = ? AND initiator_completed_at IS NULL
	`
	return r.recordResult(query, score, timeMs, correct, incorrect, id)
}

// RecordOpponentResult records the opponent's side. Conditional on the side
// not having completed yet.
func (r *ChallengeRepository) RecordOpponentResult(id int64, score, timeMs, correct, incorrect int) (bool, error) {
	query := `
		UPDATE challenges
		SET opponent_score = ?, opponent_time_ms = ?, opponent_correct = ?,
		    opponent_incorrect = ?, opponent_completed_at = ?
		WHERE id = ? AND status = ? AND opponent_completed_at IS NULL
	`
	return r.recordResult(query, score, timeMs, correct, incorrect, id)
}

func (r *ChallengeRepository) recordResult(query string, score, timeMs, correct, incorrect int, id int64) (bool, error) {
	result, err := r.db.Exec(query, score, timeMs, correct, incorrect, time.Now(), id, models.ChallengeActive)
	if err != nil {
		return false, fmt.Errorf("failed to record challenge result: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// Resolve settles a challenge once both sides have completed: it marks the
// challenge completed, stores the winner (nil on a tie) and credits the
// winner exactly one star. The whole operation runs in one transaction and
// the update is conditional on resolved_at still being NULL, so two racing
// completion submissions cannot both apply the award.
func (r *ChallengeRepository) Resolve(id int64) (*models.Challenge, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "SELECT " + challengeColumns + " FROM challenges c WHERE c.id = ?"
	c, err := scanChallenge(tx.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read challenge: %w", err)
	}

	if !c.BothCompleted() || c.ResolvedAt != nil {
		// Nothing to do: waiting on the other side, or already settled
		return c, nil
	}

	winnerID := c.Winner()
	result, err := tx.Exec(`
		UPDATE challenges
		SET status = ?, winner_id = ?, resolved_at = ?
		WHERE id = ? AND resolved_at IS NULL
	`, models.ChallengeCompleted, winnerID, time.Now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve challenge: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Lost the race to another resolver; the winner was already credited
		return r.GetByID(id)
	}

	if winnerID != nil {
		if _, err := tx.Exec("UPDATE users SET currency = currency + 1 WHERE id = ?", *winnerID); err != nil {
			return nil, fmt.Errorf("failed to credit winner: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit resolution: %w", err)
	}
	return r.GetByID(id)
}
