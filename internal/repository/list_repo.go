package repository

import (
	"database/sql"
	"fmt"

	"spellquest/internal/database"
	"spellquest/internal/models"
)

// ListRepository handles database operations for word lists, words and
// per-list word illustrations
type ListRepository struct {
	db *database.DB
}

// NewListRepository creates a new list repository
func NewListRepository(db *database.DB) *ListRepository {
	return &ListRepository{db: db}
}

// CreateList creates a word list and its words in one transaction
func (r *ListRepository) CreateList(ownerID *int64, name, description, visibility string, gradeLevel int, words []string) (*models.WordList, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO word_lists (owner_id, name, description, visibility, grade_level)
		VALUES (?, ?, ?, ?, ?)
	`
	listID, err := tx.ExecReturningID(query, ownerID, name, description, visibility, gradeLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	for i, word := range words {
		_, err := tx.Exec(
			"INSERT INTO words (word_list_id, word_text, position) VALUES (?, ?, ?)",
			listID, word, i,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert word %q: %w", word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit list: %w", err)
	}

	return r.GetListByID(listID)
}

// GetListByID retrieves a word list by ID
func (r *ListRepository) GetListByID(listID int64) (*models.WordList, error) {
	query := `
		SELECT id, owner_id, name, description, visibility, grade_level, created_at, updated_at
		FROM word_lists
		WHERE id = ?
	`
	list := &models.WordList{}
	var ownerID sql.NullInt64
	err := r.db.QueryRow(query, listID).Scan(
		&list.ID,
		&ownerID,
		&list.Name,
		&list.Description,
		&list.Visibility,
		&list.GradeLevel,
		&list.CreatedAt,
		&list.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	if ownerID.Valid {
		list.OwnerID = &ownerID.Int64
	}
	return list, nil
}

// GetListWords retrieves all words in a list, in position order
func (r *ListRepository) GetListWords(listID int64) ([]models.Word, error) {
	query := `
		SELECT id, word_list_id, word_text, position, created_at
		FROM words
		WHERE word_list_id = ?
		ORDER BY position ASC
	`
	rows, err := r.db.Query(query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	var words []models.Word
	for rows.Next() {
		var word models.Word
		if err := rows.Scan(&word.ID, &word.WordListID, &word.WordText, &word.Position, &word.CreatedAt); err != nil {
			return nil, err
		}
		words = append(words, word)
	}
	return words, rows.Err()
}

// GetListsForOwner retrieves lists owned by a user, newest first
func (r *ListRepository) GetListsForOwner(ownerID int64) ([]models.ListSummary, error) {
	query := `
		SELECT l.id, l.owner_id, l.name, l.description, l.visibility, l.grade_level,
		       l.created_at, l.updated_at, COUNT(w.id)
		FROM word_lists l
		LEFT JOIN words w ON w.word_list_id = l.id
		WHERE l.owner_id = ?
		GROUP BY l.id
		ORDER BY l.created_at DESC
	`
	return r.queryListSummaries(query, ownerID)
}

// GetVisibleLists retrieves public and shared lists, newest first
func (r *ListRepository) GetVisibleLists() ([]models.ListSummary, error) {
	query := `
		SELECT l.id, l.owner_id, l.name, l.description, l.visibility, l.grade_level,
		       l.created_at, l.updated_at, COUNT(w.id)
		FROM word_lists l
		LEFT JOIN words w ON w.word_list_id = l.id
		WHERE l.visibility IN (?, ?)
		GROUP BY l.id
		ORDER BY l.created_at DESC
	`
	return r.queryListSummaries(query, models.VisibilityPublic, models.VisibilityShared)
}

func (r *ListRepository) queryListSummaries(query string, args ...interface{}) ([]models.ListSummary, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	var lists []models.ListSummary
	for rows.Next() {
		var summary models.ListSummary
		var ownerID sql.NullInt64
		err := rows.Scan(
			&summary.ID,
			&ownerID,
			&summary.Name,
			&summary.Description,
			&summary.Visibility,
			&summary.GradeLevel,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&summary.WordCount,
		)
		if err != nil {
			return nil, err
		}
		if ownerID.Valid {
			summary.OwnerID = &ownerID.Int64
		}
		lists = append(lists, summary)
	}
	return lists, rows.Err()
}

// UpdateListMeta updates name, description and grade level
func (r *ListRepository) UpdateListMeta(listID int64, name, description string, gradeLevel int) error {
	query := `
		UPDATE word_lists
		SET name = ?, description = ?, grade_level = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, name, description, gradeLevel, listID)
	return err
}

// SetVisibility changes a list's visibility
func (r *ListRepository) SetVisibility(listID int64, visibility string) error {
	query := "UPDATE word_lists SET visibility = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, visibility, listID)
	return err
}

// ReplaceWords replaces the full word set of a list in one transaction
func (r *ListRepository) ReplaceWords(listID int64, words []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM words WHERE word_list_id = ?", listID); err != nil {
		return fmt.Errorf("failed to clear words: %w", err)
	}

	for i, word := range words {
		_, err := tx.Exec(
			"INSERT INTO words (word_list_id, word_text, position) VALUES (?, ?, ?)",
			listID, word, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert word %q: %w", word, err)
		}
	}

	return tx.Commit()
}

// DeleteList removes a list and its words
func (r *ListRepository) DeleteList(listID int64) error {
	_, err := r.db.Exec("DELETE FROM word_lists WHERE id = ?", listID)
	return err
}

// HasCompletedSessions reports whether any completed game session references
// this list. Word mutations are refused for such lists so finished results
// stay interpretable.
func (r *ListRepository) HasCompletedSessions(listID int64) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM game_sessions WHERE word_list_id = ? AND is_complete = ?"
	if err := r.db.QueryRow(query, listID, true).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count > 0, nil
}

// PublicListExists checks if a built-in public list with this name exists
func (r *ListRepository) PublicListExists(name string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM word_lists WHERE name = ? AND visibility = ? AND owner_id IS NULL"
	if err := r.db.QueryRow(query, name, models.VisibilityPublic).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetBuiltInListByName retrieves an ownerless public list by name
func (r *ListRepository) GetBuiltInListByName(name string) (*models.WordList, error) {
	query := `
		SELECT id, owner_id, name, description, visibility, grade_level, created_at, updated_at
		FROM word_lists
		WHERE name = ? AND visibility = ? AND owner_id IS NULL
	`
	list := &models.WordList{}
	var ownerID sql.NullInt64
	err := r.db.QueryRow(query, name, models.VisibilityPublic).Scan(
		&list.ID,
		&ownerID,
		&list.Name,
		&list.Description,
		&list.Visibility,
		&list.GradeLevel,
		&list.CreatedAt,
		&list.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get built-in list: %w", err)
	}
	if ownerID.Valid {
		list.OwnerID = &ownerID.Int64
	}
	return list, nil
}

// GetIllustrations retrieves the illustrations attached to a list's words
func (r *ListRepository) GetIllustrations(listID int64) ([]models.WordIllustration, error) {
	query := `
		SELECT id, word_list_id, word_id, image_url, created_at
		FROM word_illustrations
		WHERE word_list_id = ?
	`
	rows, err := r.db.Query(query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query illustrations: %w", err)
	}
	defer rows.Close()

	var illustrations []models.WordIllustration
	for rows.Next() {
		var ill models.WordIllustration
		if err := rows.Scan(&ill.ID, &ill.WordListID, &ill.WordID, &ill.ImageURL, &ill.CreatedAt); err != nil {
			return nil, err
		}
		illustrations = append(illustrations, ill)
	}
	return illustrations, rows.Err()
}

// SetIllustration attaches an illustration to a word within a list,
// replacing any previous one for that (list, word) pair
func (r *ListRepository) SetIllustration(listID, wordID int64, imageURL string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM word_illustrations WHERE word_list_id = ? AND word_id = ?", listID, wordID); err != nil {
		return fmt.Errorf("failed to clear illustration: %w", err)
	}
	if _, err := tx.Exec("INSERT INTO word_illustrations (word_list_id, word_id, image_url) VALUES (?, ?, ?)", listID, wordID, imageURL); err != nil {
		return fmt.Errorf("failed to set illustration: %w", err)
	}

	return tx.Commit()
}
