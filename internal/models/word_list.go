package models

import "time"

// Visibility values for a word list
const (
	VisibilityPrivate = "private"
	VisibilityPublic  = "public"
	VisibilityShared  = "shared"
)

// WordList represents a custom list of words to practice
type WordList struct {
	ID          int64
	OwnerID     *int64 // Nullable for built-in public lists
	Name        string
	Description string
	Visibility  string
	GradeLevel  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Word represents a word in a word list
type Word struct {
	ID         int64
	WordListID int64
	WordText   string
	Position   int
	CreatedAt  time.Time
}

// WordIllustration represents a picture attached to a word, scoped per list
type WordIllustration struct {
	ID         int64
	WordListID int64
	WordID     int64
	ImageURL   string
	CreatedAt  time.Time
}

// ListWithWords combines a word list with its words
type ListWithWords struct {
	List  WordList
	Words []Word
}

// ListSummary extends WordList with word count info
type ListSummary struct {
	WordList
	WordCount int
}
