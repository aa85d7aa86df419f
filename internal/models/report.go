package models

import "time"

// FlaggedWord is a content report submitted by a player. ReporterKey is a
// user ID or guest device ID; (word, reporter) pairs are unique so the same
// player cannot report a word twice.
type FlaggedWord struct {
	ID          int64
	Word        string
	WordListID  *int64
	ReporterKey string
	Reason      string
	CreatedAt   time.Time
}
