package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"spellquest/internal/models"
	"spellquest/internal/repository"
	"spellquest/internal/validation"
)

// ErrDuplicateReport means this reporter already flagged this word
var ErrDuplicateReport = errors.New("word already reported by this player")

// ReportService handles flagged-word reports
type ReportService struct {
	reportRepo   *repository.ReportRepository
	emailService *EmailService
	adminEmail   string
}

// NewReportService creates a new report service
func NewReportService(reportRepo *repository.ReportRepository, emailService *EmailService, adminEmail string) *ReportService {
	return &ReportService{
		reportRepo:   reportRepo,
		emailService: emailService,
		adminEmail:   adminEmail,
	}
}

// FlagWord records a content report. reporterKey identifies the reporter
// (a user ID or a guest device ID); each reporter can flag a word once.
func (s *ReportService) FlagWord(ctx context.Context, word, reporterKey, reason string, wordListID *int64) (*models.FlaggedWord, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return nil, validation.ValidationError{Field: "word", Message: "word is required"}
	}
	reason = strings.TrimSpace(reason)
	if len(reason) > 500 {
		return nil, validation.ValidationError{Field: "reason", Message: "reason must be at most 500 characters"}
	}

	exists, err := s.reportRepo.Exists(word, reporterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing report: %w", err)
	}
	if exists {
		return nil, ErrDuplicateReport
	}

	report, err := s.reportRepo.Create(&models.FlaggedWord{
		Word:        word,
		WordListID:  wordListID,
		ReporterKey: reporterKey,
		Reason:      reason,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	count, err := s.reportRepo.CountForWord(word)
	if err != nil {
		log.Printf("Failed to count reports for %q: %v", word, err)
		count = 1
	}
	if err := s.emailService.SendReportNotification(ctx, s.adminEmail, word, reason, count); err != nil {
		log.Printf("Failed to send report notification: %v", err)
	}

	return report, nil
}
