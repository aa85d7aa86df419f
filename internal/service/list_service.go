package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"spellquest/internal/database"
	"spellquest/internal/models"
	"spellquest/internal/repository"
	"spellquest/internal/validation"
)

var (
	ErrListNotFound  = errors.New("word list not found")
	ErrListForbidden = errors.New("not allowed to access this list")
	ErrNotListOwner  = errors.New("not the owner of this list")
	ErrListLocked    = errors.New("list has completed sessions and its words cannot change")
	ErrWordNotInList = errors.New("word is not in this list")
	ErrBuiltInList   = errors.New("built-in lists cannot be modified")
)

// builtInList seeds one grade-band public list on startup. Difficulty-tier
// sessions play against these.
type builtInList struct {
	name        string
	description string
	gradeLevel  int
	difficulty  string
	words       []string
}

var builtInLists = []builtInList{
	{
		name:        "Starter Words",
		description: "Short everyday words for grades 1-2",
		gradeLevel:  2,
		difficulty:  models.DifficultyEasy,
		words: []string{
			"cat", "dog", "sun", "hat", "run", "big", "red", "jump",
			"play", "tree", "fish", "book", "rain", "ship", "frog",
		},
	},
	{
		name:        "Growing Words",
		description: "Longer words for grades 3-4",
		gradeLevel:  4,
		difficulty:  models.DifficultyMedium,
		words: []string{
			"animal", "planet", "bridge", "castle", "garden", "kitchen",
			"morning", "picture", "thunder", "whisper", "journey", "library",
			"village", "science", "stomach",
		},
	},
	{
		name:        "Challenge Words",
		description: "Tricky words for grades 5-6",
		gradeLevel:  6,
		difficulty:  models.DifficultyHard,
		words: []string{
			"necessary", "rhythm", "separate", "mischievous", "conscience",
			"embarrass", "privilege", "recommend", "occurrence", "definitely",
			"restaurant", "vacuum", "calendar", "committee", "lightning",
		},
	},
}

// ListService handles word list management
type ListService struct {
	listRepo *repository.ListRepository
	db       *database.DB
}

// NewListService creates a new list service
func NewListService(listRepo *repository.ListRepository, db *database.DB) *ListService {
	return &ListService{listRepo: listRepo, db: db}
}

// SeedBuiltInLists inserts the grade-band public lists if they are missing
func (s *ListService) SeedBuiltInLists() error {
	for _, bl := range builtInLists {
		exists, err := s.listRepo.PublicListExists(bl.name)
		if err != nil {
			return fmt.Errorf("failed to check built-in list %q: %w", bl.name, err)
		}
		if exists {
			continue
		}
		_, err = s.listRepo.CreateList(nil, bl.name, bl.description, models.VisibilityPublic, bl.gradeLevel, bl.words)
		if err != nil {
			return fmt.Errorf("failed to seed built-in list %q: %w", bl.name, err)
		}
		log.Printf("Seeded built-in word list: %s (%d words)", bl.name, len(bl.words))
	}
	return nil
}

// ListForDifficulty resolves a difficulty tier to its built-in list
func (s *ListService) ListForDifficulty(difficulty string) (*models.WordList, error) {
	for _, bl := range builtInLists {
		if bl.difficulty == difficulty {
			return s.listRepo.GetBuiltInListByName(bl.name)
		}
	}
	return nil, nil
}

// CreateList validates and creates a user-owned word list
func (s *ListService) CreateList(ownerID int64, name, description, visibility string, gradeLevel int, words []string) (*models.ListWithWords, error) {
	name = strings.TrimSpace(name)
	if err := validation.ValidateListName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidateGradeLevel(gradeLevel); err != nil {
		return nil, err
	}
	if visibility != models.VisibilityPrivate && visibility != models.VisibilityShared {
		return nil, validation.ValidationError{Field: "visibility", Message: "visibility must be private or shared"}
	}

	cleaned, err := s.cleanWords(words)
	if err != nil {
		return nil, err
	}

	list, err := s.listRepo.CreateList(&ownerID, name, description, visibility, gradeLevel, cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}
	return s.withWords(list)
}

// GetList retrieves a list with its words, enforcing visibility.
// requesterID is nil for guests.
func (s *ListService) GetList(listID int64, requesterID *int64) (*models.ListWithWords, error) {
	list, err := s.listRepo.GetListByID(listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	if list == nil {
		return nil, ErrListNotFound
	}
	if !canView(list, requesterID) {
		return nil, ErrListForbidden
	}
	return s.withWords(list)
}

// GetListsForUser returns the user's own lists
func (s *ListService) GetListsForUser(userID int64) ([]models.ListSummary, error) {
	return s.listRepo.GetListsForOwner(userID)
}

// GetBrowsableLists returns public and shared lists
func (s *ListService) GetBrowsableLists() ([]models.ListSummary, error) {
	return s.listRepo.GetVisibleLists()
}

// UpdateList updates a list's metadata and, optionally, its words.
// Passing nil words leaves the word set unchanged. Word changes are
// refused once the list has completed sessions.
func (s *ListService) UpdateList(listID, requesterID int64, name, description string, gradeLevel int, words []string) (*models.ListWithWords, error) {
	list, err := s.requireOwned(listID, requesterID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if err := validation.ValidateListName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidateGradeLevel(gradeLevel); err != nil {
		return nil, err
	}

	if words != nil {
		locked, err := s.listRepo.HasCompletedSessions(listID)
		if err != nil {
			return nil, fmt.Errorf("failed to check list lock: %w", err)
		}
		if locked {
			return nil, ErrListLocked
		}

		cleaned, err := s.cleanWords(words)
		if err != nil {
			return nil, err
		}
		if err := s.listRepo.ReplaceWords(listID, cleaned); err != nil {
			return nil, fmt.Errorf("failed to replace words: %w", err)
		}
	}

	if err := s.listRepo.UpdateListMeta(listID, name, description, gradeLevel); err != nil {
		return nil, fmt.Errorf("failed to update list: %w", err)
	}

	list, err = s.listRepo.GetListByID(listID)
	if err != nil || list == nil {
		return nil, fmt.Errorf("failed to reload list: %w", err)
	}
	return s.withWords(list)
}

// ShareList makes a private list visible to other players
func (s *ListService) ShareList(listID, requesterID int64) (*models.WordList, error) {
	list, err := s.requireOwned(listID, requesterID)
	if err != nil {
		return nil, err
	}
	if list.Visibility == models.VisibilityShared {
		return list, nil
	}
	if err := s.listRepo.SetVisibility(listID, models.VisibilityShared); err != nil {
		return nil, fmt.Errorf("failed to share list: %w", err)
	}
	list.Visibility = models.VisibilityShared
	return list, nil
}

// DeleteList removes a list the requester owns
func (s *ListService) DeleteList(listID, requesterID int64) error {
	if _, err := s.requireOwned(listID, requesterID); err != nil {
		return err
	}
	return s.listRepo.DeleteList(listID)
}

// SetIllustration attaches a picture to one of the list's words
func (s *ListService) SetIllustration(listID, requesterID, wordID int64, imageURL string) error {
	if _, err := s.requireOwned(listID, requesterID); err != nil {
		return err
	}

	words, err := s.listRepo.GetListWords(listID)
	if err != nil {
		return fmt.Errorf("failed to get words: %w", err)
	}
	found := false
	for _, w := range words {
		if w.ID == wordID {
			found = true
			break
		}
	}
	if !found {
		return ErrWordNotInList
	}

	return s.listRepo.SetIllustration(listID, wordID, imageURL)
}

// GetIllustrations returns the illustrations attached to a list's words
func (s *ListService) GetIllustrations(listID int64) ([]models.WordIllustration, error) {
	return s.listRepo.GetIllustrations(listID)
}

// requireOwned loads a list and verifies the requester owns it
func (s *ListService) requireOwned(listID, requesterID int64) (*models.WordList, error) {
	list, err := s.listRepo.GetListByID(listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	if list == nil {
		return nil, ErrListNotFound
	}
	if list.OwnerID == nil {
		return nil, ErrBuiltInList
	}
	if *list.OwnerID != requesterID {
		return nil, ErrNotListOwner
	}
	return list, nil
}

// cleanWords normalizes, validates and profanity-screens a word set
func (s *ListService) cleanWords(words []string) ([]string, error) {
	cleaned := make([]string, 0, len(words))
	for _, w := range words {
		cleaned = append(cleaned, strings.TrimSpace(w))
	}
	if err := validation.ValidateListWords(cleaned); err != nil {
		return nil, err
	}
	flagged, err := s.db.ValidateWords(cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to screen words: %w", err)
	}
	if len(flagged) > 0 {
		return nil, validation.ValidationError{Field: "words", Message: fmt.Sprintf("word %q is not allowed", flagged[0])}
	}
	return cleaned, nil
}

func (s *ListService) withWords(list *models.WordList) (*models.ListWithWords, error) {
	words, err := s.listRepo.GetListWords(list.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %w", err)
	}
	return &models.ListWithWords{List: *list, Words: words}, nil
}

func canView(list *models.WordList, requesterID *int64) bool {
	if list.Visibility == models.VisibilityPublic || list.Visibility == models.VisibilityShared {
		return true
	}
	return requesterID != nil && list.OwnerID != nil && *list.OwnerID == *requesterID
}
