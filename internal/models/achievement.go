package models

import "time"

// AchievementTypeStars is the per-list star rating derived from the set of
// game modes completed at 100% accuracy
const AchievementTypeStars = "list_stars"

// Achievement is keyed by (user, word list, type); Stars is 1..3
type Achievement struct {
	ID              int64
	UserID          int64
	WordListID      int64
	AchievementType string
	Stars           int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// StarsForModeCount maps the number of distinct qualifying modes completed at
// 100% accuracy to a star tier. Zero means no achievement is recorded. The
// tier saturates at 3.
func StarsForModeCount(modes int) int {
	switch {
	case modes <= 0:
		return 0
	case modes >= 3:
		return 3
	default:
		return modes
	}
}

// StarLabel returns the display label for a star tier
func StarLabel(stars int) string {
	switch stars {
	case 1:
		return "1 Star"
	case 2:
		return "2 Stars"
	case 3:
		return "3 Stars"
	}
	return ""
}
