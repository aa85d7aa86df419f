package credentials

import (
	"strings"
	"testing"
)

func TestGenerateGuestName(t *testing.T) {
	for i := 0; i < 100; i++ {
		name, err := GenerateGuestName()
		if err != nil {
			t.Fatalf("GenerateGuestName() error = %v", err)
		}

		parts := strings.SplitN(name, "-", 2)
		if len(parts) != 2 {
			t.Fatalf("expected adjective-noun format, got %q", name)
		}

		if !contains(adjectives, parts[0]) {
			t.Errorf("adjective %q not in word list", parts[0])
		}
		if !contains(nouns, parts[1]) {
			t.Errorf("noun %q not in word list", parts[1])
		}
	}
}

func contains(slice []string, value string) bool {
	for _, s := range slice {
		if s == value {
			return true
		}
	}
	return false
}
