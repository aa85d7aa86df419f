package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"spellquest/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string              `json:"version"`
	ExportedAt   time.Time           `json:"exported_at"`
	DatabaseType string              `json:"database_type"`
	Users        []UserBackup        `json:"users"`
	Lists        []ListBackup        `json:"lists"`
	Words        []WordBackup        `json:"words"`
	Sessions     []SessionBackup     `json:"sessions"`
	Achievements []AchievementBackup `json:"achievements"`
	UserItems    []UserItemBackup    `json:"user_items"`
}

// UserBackup represents a user record for backup
type UserBackup struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	Avatar        string    `json:"avatar"`
	Theme         string    `json:"theme"`
	Currency      int       `json:"currency"`
	IsAdmin       bool      `json:"is_admin"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ListBackup represents a user-owned word list for backup
type ListBackup struct {
	ID          int64     `json:"id"`
	OwnerID     *int64    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Visibility  string    `json:"visibility"`
	GradeLevel  int       `json:"grade_level"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WordBackup represents a word for backup
type WordBackup struct {
	ID         int64     `json:"id"`
	WordListID int64     `json:"word_list_id"`
	WordText   string    `json:"word_text"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
}

// SessionBackup represents a completed game session for backup
type SessionBackup struct {
	ID             int64      `json:"id"`
	UserID         *int64     `json:"user_id"`
	GuestName      string     `json:"guest_name"`
	WordListID     *int64     `json:"word_list_id"`
	Difficulty     *string    `json:"difficulty"`
	Mode           string     `json:"mode"`
	Score          int        `json:"score"`
	CorrectWords   int        `json:"correct_words"`
	IncorrectWords int        `json:"incorrect_words"`
	TotalWords     int        `json:"total_words"`
	BestStreak     int        `json:"best_streak"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at"`
}

// AchievementBackup represents an achievement record for backup
type AchievementBackup struct {
	UserID          int64     `json:"user_id"`
	WordListID      int64     `json:"word_list_id"`
	AchievementType string    `json:"achievement_type"`
	Stars           int       `json:"stars"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UserItemBackup represents an owned shop item for backup
type UserItemBackup struct {
	UserID   int64 `json:"user_id"`
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// GetDB returns the database connection for direct queries
func (s *BackupService) GetDB() *database.DB {
	return s.db
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter exports the database to an io.Writer (useful for HTTP responses)
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:      "1.0",
		ExportedAt:   time.Now(),
		DatabaseType: "universal",
	}

	if err := s.exportUsers(backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	if err := s.exportLists(backup); err != nil {
		return fmt.Errorf("failed to export lists: %w", err)
	}
	if err := s.exportWords(backup); err != nil {
		return fmt.Errorf("failed to export words: %w", err)
	}
	if err := s.exportSessions(backup); err != nil {
		return fmt.Errorf("failed to export sessions: %w", err)
	}
	if err := s.exportAchievements(backup); err != nil {
		return fmt.Errorf("failed to export achievements: %w", err)
	}
	if err := s.exportUserItems(backup); err != nil {
		return fmt.Errorf("failed to export user items: %w", err)
	}

	log.Printf("Exported: %d users, %d lists, %d words, %d sessions, %d achievements, %d user items",
		len(backup.Users), len(backup.Lists), len(backup.Words),
		len(backup.Sessions), len(backup.Achievements), len(backup.UserItems))

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backup)
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader (for file uploads)
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	// Import in order of dependencies
	if err := s.importUsers(backup.Users); err != nil {
		return fmt.Errorf("failed to import users: %w", err)
	}
	if err := s.importLists(backup.Lists); err != nil {
		return fmt.Errorf("failed to import lists: %w", err)
	}
	if err := s.importWords(backup.Words); err != nil {
		return fmt.Errorf("failed to import words: %w", err)
	}
	if err := s.importSessions(backup.Sessions); err != nil {
		return fmt.Errorf("failed to import sessions: %w", err)
	}
	if err := s.importAchievements(backup.Achievements); err != nil {
		return fmt.Errorf("failed to import achievements: %w", err)
	}
	if err := s.importUserItems(backup.UserItems); err != nil {
		return fmt.Errorf("failed to import user items: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	query := "SELECT id, username, COALESCE(email, ''), COALESCE(password_hash, ''), COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), COALESCE(avatar, ''), COALESCE(theme, ''), currency, is_admin, created_at, updated_at FROM users ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.OAuthProvider, &u.OAuthSubject, &u.Avatar, &u.Theme, &u.Currency, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportLists(backup *BackupData) error {
	// Built-in lists are reseeded on startup, so only user lists travel
	query := "SELECT id, owner_id, name, description, visibility, grade_level, created_at, updated_at FROM word_lists WHERE owner_id IS NOT NULL ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var l ListBackup
		var ownerID sql.NullInt64
		if err := rows.Scan(&l.ID, &ownerID, &l.Name, &l.Description, &l.Visibility, &l.GradeLevel, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return err
		}
		if ownerID.Valid {
			l.OwnerID = &ownerID.Int64
		}
		backup.Lists = append(backup.Lists, l)
	}
	return rows.Err()
}

func (s *BackupService) exportWords(backup *BackupData) error {
	query := "SELECT w.id, w.word_list_id, w.word_text, w.position, w.created_at FROM words w JOIN word_lists l ON w.word_list_id = l.id WHERE l.owner_id IS NOT NULL ORDER BY w.id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var w WordBackup
		if err := rows.Scan(&w.ID, &w.WordListID, &w.WordText, &w.Position, &w.CreatedAt); err != nil {
			return err
		}
		backup.Words = append(backup.Words, w)
	}
	return rows.Err()
}

func (s *BackupService) exportSessions(backup *BackupData) error {
	query := "SELECT id, user_id, COALESCE(guest_name, ''), word_list_id, difficulty, mode, score, correct_words, incorrect_words, total_words, best_streak, started_at, completed_at FROM game_sessions WHERE is_complete = ? ORDER BY id"
	rows, err := s.db.Query(query, true)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sb SessionBackup
		var userID, listID sql.NullInt64
		var difficulty sql.NullString
		var completedAt sql.NullTime
		if err := rows.Scan(&sb.ID, &userID, &sb.GuestName, &listID, &difficulty, &sb.Mode, &sb.Score, &sb.CorrectWords, &sb.IncorrectWords, &sb.TotalWords, &sb.BestStreak, &sb.StartedAt, &completedAt); err != nil {
			return err
		}
		if userID.Valid {
			sb.UserID = &userID.Int64
		}
		if listID.Valid {
			sb.WordListID = &listID.Int64
		}
		if difficulty.Valid {
			sb.Difficulty = &difficulty.String
		}
		if completedAt.Valid {
			sb.CompletedAt = &completedAt.Time
		}
		backup.Sessions = append(backup.Sessions, sb)
	}
	return rows.Err()
}

func (s *BackupService) exportAchievements(backup *BackupData) error {
	query := "SELECT user_id, word_list_id, achievement_type, stars, created_at, updated_at FROM achievements ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a AchievementBackup
		if err := rows.Scan(&a.UserID, &a.WordListID, &a.AchievementType, &a.Stars, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return err
		}
		backup.Achievements = append(backup.Achievements, a)
	}
	return rows.Err()
}

func (s *BackupService) exportUserItems(backup *BackupData) error {
	query := "SELECT user_id, item_id, quantity FROM user_items ORDER BY user_id, item_id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ui UserItemBackup
		if err := rows.Scan(&ui.UserID, &ui.ItemID, &ui.Quantity); err != nil {
			return err
		}
		backup.UserItems = append(backup.UserItems, ui)
	}
	return rows.Err()
}

func (s *BackupService) importUsers(users []UserBackup) error {
	log.Printf("Importing %d users...", len(users))
	for _, u := range users {
		query := "INSERT INTO users (id, username, email, password_hash, oauth_provider, oauth_subject, avatar, theme, currency, is_admin, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, u.ID, u.Username, nullIfEmpty(u.Email), nullIfEmpty(u.PasswordHash), nullIfEmpty(u.OAuthProvider), nullIfEmpty(u.OAuthSubject), u.Avatar, u.Theme, u.Currency, u.IsAdmin, u.CreatedAt, u.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import user %d: %w", u.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importLists(lists []ListBackup) error {
	log.Printf("Importing %d lists...", len(lists))
	for _, l := range lists {
		query := "INSERT INTO word_lists (id, owner_id, name, description, visibility, grade_level, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, l.ID, l.OwnerID, l.Name, l.Description, l.Visibility, l.GradeLevel, l.CreatedAt, l.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import list %d: %w", l.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importWords(words []WordBackup) error {
	log.Printf("Importing %d words...", len(words))
	for _, w := range words {
		query := "INSERT INTO words (id, word_list_id, word_text, position, created_at) VALUES (?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, w.ID, w.WordListID, w.WordText, w.Position, w.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import word %d: %w", w.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importSessions(sessions []SessionBackup) error {
	log.Printf("Importing %d sessions...", len(sessions))
	for _, sb := range sessions {
		query := "INSERT INTO game_sessions (id, user_id, guest_name, word_list_id, difficulty, mode, score, correct_words, incorrect_words, total_words, best_streak, is_complete, started_at, completed_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, sb.ID, sb.UserID, nullIfEmpty(sb.GuestName), sb.WordListID, sb.Difficulty, sb.Mode, sb.Score, sb.CorrectWords, sb.IncorrectWords, sb.TotalWords, sb.BestStreak, true, sb.StartedAt, sb.CompletedAt)
		if err != nil {
			return fmt.Errorf("failed to import session %d: %w", sb.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importAchievements(achievements []AchievementBackup) error {
	log.Printf("Importing %d achievements...", len(achievements))
	for _, a := range achievements {
		query := "INSERT INTO achievements (user_id, word_list_id, achievement_type, stars, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, a.UserID, a.WordListID, a.AchievementType, a.Stars, a.CreatedAt, a.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import achievement for user %d, list %d: %w", a.UserID, a.WordListID, err)
		}
	}
	return nil
}

func (s *BackupService) importUserItems(items []UserItemBackup) error {
	log.Printf("Importing %d user items...", len(items))
	for _, ui := range items {
		query := "INSERT INTO user_items (user_id, item_id, quantity) VALUES (?, ?, ?)"
		_, err := s.db.Exec(query, ui.UserID, ui.ItemID, ui.Quantity)
		if err != nil {
			return fmt.Errorf("failed to import user item (user %d, item %d): %w", ui.UserID, ui.ItemID, err)
		}
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
