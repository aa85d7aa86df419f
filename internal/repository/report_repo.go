package repository

import (
	"fmt"

	"spellquest/internal/database"
	"spellquest/internal/models"
)

// ReportRepository handles database operations for flagged-word reports
type ReportRepository struct {
	db *database.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *database.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Exists checks whether this reporter already flagged this word
func (r *ReportRepository) Exists(word, reporterKey string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM flagged_words WHERE word = ? AND reporter_key = ?"
	if err := r.db.QueryRow(query, word, reporterKey).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check existing report: %w", err)
	}
	return count > 0, nil
}

// Create stores a flagged-word report
func (r *ReportRepository) Create(report *models.FlaggedWord) (*models.FlaggedWord, error) {
	query := `
		INSERT INTO flagged_words (word, word_list_id, reporter_key, reason)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, report.Word, report.WordListID, report.ReporterKey, report.Reason)
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	report.ID = id
	return report, nil
}

// CountForWord returns how many distinct reports a word has accumulated
func (r *ReportRepository) CountForWord(word string) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM flagged_words WHERE word = ?"
	if err := r.db.QueryRow(query, word).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}
