package service

import (
	"strings"

	"spellquest/internal/models"
)

// Points awarded per correctly spelled word, before any mode bonus
const basePointsPerWord = 10

// Timed-mode speed bonus parameters: 50 extra points at instant answers,
// decaying by one point per 100ms, floored at zero
const (
	maxSpeedBonus     = 50
	speedBonusDecayMs = 100
)

// NormalizeSpelling lowercases and trims an attempt for comparison.
// Spelling is judged case-insensitively; interior punctuation (apostrophes,
// hyphens) must match exactly.
func NormalizeSpelling(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CheckSpelling reports whether attempt spells target correctly
func CheckSpelling(target, attempt string) bool {
	return NormalizeSpelling(target) == NormalizeSpelling(attempt)
}

// ScoreAttempt returns the points earned for one attempt. Incorrect
// attempts score zero. Timed mode adds a speed bonus on top of the base
// points; all other modes award the flat base.
func ScoreAttempt(mode string, isCorrect bool, timeTakenMs int) int {
	if !isCorrect {
		return 0
	}
	points := basePointsPerWord
	if mode == models.ModeTimed {
		points += speedBonus(timeTakenMs)
	}
	return points
}

func speedBonus(timeTakenMs int) int {
	if timeTakenMs < 0 {
		timeTakenMs = 0
	}
	bonus := maxSpeedBonus - timeTakenMs/speedBonusDecayMs
	if bonus < 0 {
		return 0
	}
	return bonus
}

// BestStreak returns the longest run of consecutive correct attempts, in
// attempt order
func BestStreak(attempts []models.WordAttempt) int {
	best, current := 0, 0
	for _, a := range attempts {
		if a.IsCorrect {
			current++
			if current > best {
				best = current
			}
		} else {
			current = 0
		}
	}
	return best
}
