package service

import (
	"testing"

	"spellquest/internal/models"
)

func TestDeriveUsername(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		email    string
		want     string
	}{
		{"from name", "Alice Smith", "alice@example.com", "alicesmith"},
		{"from email when name empty", "", "bob.jones@example.com", "bobjones"},
		{"strips invalid characters", "Zoë O'Brien!", "", "zoobrien"},
		{"fallback when nothing usable", "", "", "player"},
		{"too short falls back", "A!", "", "player"},
		{"truncates long names", "thisisaverylongdisplaynameindeed", "", "thisisaverylongdisplayna"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deriveUsername(tt.fullName, tt.email); got != tt.want {
				t.Errorf("deriveUsername(%q, %q) = %q, want %q", tt.fullName, tt.email, got, tt.want)
			}
		})
	}
}

func TestCanView(t *testing.T) {
	owner := int64(1)
	stranger := int64(2)

	tests := []struct {
		name      string
		list      models.WordList
		requester *int64
		want      bool
	}{
		{"public list visible to guest", models.WordList{Visibility: models.VisibilityPublic}, nil, true},
		{"shared list visible to stranger", models.WordList{OwnerID: &owner, Visibility: models.VisibilityShared}, &stranger, true},
		{"private list visible to owner", models.WordList{OwnerID: &owner, Visibility: models.VisibilityPrivate}, &owner, true},
		{"private list hidden from stranger", models.WordList{OwnerID: &owner, Visibility: models.VisibilityPrivate}, &stranger, false},
		{"private list hidden from guest", models.WordList{OwnerID: &owner, Visibility: models.VisibilityPrivate}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canView(&tt.list, tt.requester); got != tt.want {
				t.Errorf("canView() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuiltInListsCoverAllDifficulties(t *testing.T) {
	covered := map[string]bool{}
	for _, bl := range builtInLists {
		if !models.ValidDifficulty(bl.difficulty) {
			t.Errorf("built-in list %q has unknown difficulty %q", bl.name, bl.difficulty)
		}
		if covered[bl.difficulty] {
			t.Errorf("difficulty %q is covered twice", bl.difficulty)
		}
		covered[bl.difficulty] = true

		if len(bl.words) < 3 {
			t.Errorf("built-in list %q has too few words (%d)", bl.name, len(bl.words))
		}
	}

	for _, d := range []string{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard} {
		if !covered[d] {
			t.Errorf("no built-in list for difficulty %q", d)
		}
	}
}
