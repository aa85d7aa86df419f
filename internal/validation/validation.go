package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-]{3,24}$`)
	wordRegex     = regexp.MustCompile(`^[a-zA-Z][a-zA-Z'\-]*$`)
)

// Word list size bounds
const (
	MinListWords = 3
	MaxListWords = 50
	MaxWordLen   = 40
)

// ValidationError represents a field-level validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateUsername checks if a username is valid
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ValidationError{Field: "username", Message: "username is required"}
	}
	if !usernameRegex.MatchString(username) {
		return ValidationError{Field: "username", Message: "username must be 3-24 letters, digits, - or _"}
	}
	return nil
}

// ValidateName checks if a display name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidateListName checks a word list name
func ValidateListName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "list name is required"}
	}
	if len(name) > 80 {
		return ValidationError{Field: "name", Message: "list name must be at most 80 characters"}
	}
	return nil
}

// ValidateWord checks a single list word
func ValidateWord(word string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return ValidationError{Field: "word", Message: "word is required"}
	}
	if len(word) > MaxWordLen {
		return ValidationError{Field: "word", Message: fmt.Sprintf("word must be at most %d characters", MaxWordLen)}
	}
	if !wordRegex.MatchString(word) {
		return ValidationError{Field: "word", Message: "word may only contain letters, apostrophes and hyphens"}
	}
	return nil
}

// ValidateListWords checks the full word set of a list
func ValidateListWords(words []string) error {
	if len(words) < MinListWords {
		return ValidationError{Field: "words", Message: fmt.Sprintf("list must contain at least %d words", MinListWords)}
	}
	if len(words) > MaxListWords {
		return ValidationError{Field: "words", Message: fmt.Sprintf("list must contain at most %d words", MaxListWords)}
	}
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		if err := ValidateWord(w); err != nil {
			return err
		}
		key := strings.ToLower(strings.TrimSpace(w))
		if seen[key] {
			return ValidationError{Field: "words", Message: fmt.Sprintf("duplicate word %q", w)}
		}
		seen[key] = true
	}
	return nil
}

// ValidateGradeLevel checks a grade level (1-6)
func ValidateGradeLevel(grade int) error {
	if grade < 1 || grade > 6 {
		return ValidationError{Field: "gradeLevel", Message: "grade level must be between 1 and 6"}
	}
	return nil
}
