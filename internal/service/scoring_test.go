package service

import (
	"testing"

	"spellquest/internal/models"
)

func TestCheckSpelling(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		attempt string
		want    bool
	}{
		{"exact match", "apple", "apple", true},
		{"case insensitive", "Apple", "aPPLe", true},
		{"surrounding whitespace", "apple", "  apple  ", true},
		{"wrong spelling", "apple", "appel", false},
		{"missing apostrophe", "don't", "dont", false},
		{"missing hyphen", "well-known", "wellknown", false},
		{"empty attempt", "apple", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckSpelling(tt.target, tt.attempt); got != tt.want {
				t.Errorf("CheckSpelling(%q, %q) = %v, want %v", tt.target, tt.attempt, got, tt.want)
			}
		})
	}
}

func TestScoreAttempt(t *testing.T) {
	tests := []struct {
		name        string
		mode        string
		isCorrect   bool
		timeTakenMs int
		want        int
	}{
		{"incorrect scores zero", models.ModeStandard, false, 500, 0},
		{"incorrect timed scores zero", models.ModeTimed, false, 0, 0},
		{"standard correct", models.ModeStandard, true, 500, 10},
		{"quiz correct", models.ModeQuiz, true, 500, 10},
		{"practice correct", models.ModePractice, true, 500, 10},
		{"timed instant gets full bonus", models.ModeTimed, true, 0, 60},
		{"timed 1s keeps most bonus", models.ModeTimed, true, 1000, 50},
		{"timed 2.5s keeps half bonus", models.ModeTimed, true, 2500, 35},
		{"timed slow gets no bonus", models.ModeTimed, true, 5000, 10},
		{"timed very slow still gets base", models.ModeTimed, true, 60000, 10},
		{"timed negative clock treated as instant", models.ModeTimed, true, -50, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreAttempt(tt.mode, tt.isCorrect, tt.timeTakenMs)
			if got != tt.want {
				t.Errorf("ScoreAttempt(%q, %v, %d) = %d, want %d", tt.mode, tt.isCorrect, tt.timeTakenMs, got, tt.want)
			}
		})
	}
}

func TestBestStreak(t *testing.T) {
	attempt := func(correct bool) models.WordAttempt {
		return models.WordAttempt{IsCorrect: correct}
	}

	tests := []struct {
		name     string
		attempts []models.WordAttempt
		want     int
	}{
		{"no attempts", nil, 0},
		{"all incorrect", []models.WordAttempt{attempt(false), attempt(false)}, 0},
		{"all correct", []models.WordAttempt{attempt(true), attempt(true), attempt(true)}, 3},
		{
			"streak broken in the middle",
			[]models.WordAttempt{attempt(true), attempt(true), attempt(false), attempt(true)},
			2,
		},
		{
			"longest streak at the end",
			[]models.WordAttempt{attempt(true), attempt(false), attempt(true), attempt(true), attempt(true)},
			3,
		},
		{"single correct", []models.WordAttempt{attempt(true)}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BestStreak(tt.attempts); got != tt.want {
				t.Errorf("BestStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}
