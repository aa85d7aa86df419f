package service

import (
	"errors"
	"fmt"
	"log"

	"spellquest/internal/models"
	"spellquest/internal/repository"
	"spellquest/internal/validation"
)

var (
	ErrItemNotFound      = errors.New("shop item not found")
	ErrInsufficientFunds = repository.ErrInsufficientFunds
	ErrItemNotOwned      = errors.New("item is not owned")
)

// defaultShopItems is the catalog seeded on first startup
var defaultShopItems = []models.ShopItem{
	{Name: "Ocean Theme", Description: "A calm blue look for the game", Kind: models.ItemKindTheme, Cost: 5, Effect: "theme:ocean"},
	{Name: "Forest Theme", Description: "Greens and browns, like a walk in the woods", Kind: models.ItemKindTheme, Cost: 5, Effect: "theme:forest"},
	{Name: "Galaxy Theme", Description: "Stars and nebulas behind every word", Kind: models.ItemKindTheme, Cost: 10, Effect: "theme:galaxy"},
	{Name: "Robot Avatar", Description: "Beep boop", Kind: models.ItemKindAvatar, Cost: 3, Effect: "avatar:robot"},
	{Name: "Dragon Avatar", Description: "A friendly spelling dragon", Kind: models.ItemKindAvatar, Cost: 8, Effect: "avatar:dragon"},
	{Name: "Wizard Avatar", Description: "Master of the spelling arts", Kind: models.ItemKindAvatar, Cost: 8, Effect: "avatar:wizard"},
	{Name: "Letter Hint", Description: "Reveals the first letter of a word", Kind: models.ItemKindPowerup, Cost: 2, Effect: "hint:first_letter"},
	{Name: "Extra Time", Description: "Adds 10 seconds in timed mode", Kind: models.ItemKindPowerup, Cost: 2, Effect: "time:+10s"},
}

// ShopService handles the item catalog, purchases and appearance changes
type ShopService struct {
	shopRepo *repository.ShopRepository
	userRepo *repository.UserRepository
}

// NewShopService creates a new shop service
func NewShopService(shopRepo *repository.ShopRepository, userRepo *repository.UserRepository) *ShopService {
	return &ShopService{shopRepo: shopRepo, userRepo: userRepo}
}

// SeedCatalog inserts the default catalog if the shop is empty
func (s *ShopService) SeedCatalog() error {
	if err := s.shopRepo.SeedItems(defaultShopItems); err != nil {
		return fmt.Errorf("failed to seed shop catalog: %w", err)
	}
	return nil
}

// GetCatalog returns all purchasable items
func (s *ShopService) GetCatalog() ([]models.ShopItem, error) {
	return s.shopRepo.GetItems()
}

// GetInventory returns the items a user owns
func (s *ShopService) GetInventory(userID int64) ([]models.UserItemWithDetails, error) {
	return s.shopRepo.GetUserItems(userID)
}

// GetBalance returns the user's current star balance
func (s *ShopService) GetBalance(userID int64) (int, error) {
	return s.userRepo.GetCurrency(userID)
}

// Purchase buys quantity of an item, debiting the user's star balance.
// The debit and the inventory credit happen in one transaction; a balance
// short of the total cost buys nothing.
func (s *ShopService) Purchase(userID, itemID int64, quantity int) (*models.PurchaseReceipt, error) {
	if quantity < 1 {
		return nil, validation.ValidationError{Field: "quantity", Message: "quantity must be at least 1"}
	}

	item, err := s.shopRepo.GetItemByID(itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	receipt, err := s.shopRepo.Purchase(userID, itemID, quantity, item.Cost*quantity)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientFunds) {
			return nil, ErrInsufficientFunds
		}
		return nil, fmt.Errorf("failed to purchase item: %w", err)
	}

	log.Printf("Purchase: user=%d item=%q quantity=%d cost=%d balance=%d",
		userID, item.Name, quantity, receipt.TotalCost, receipt.NewBalance)
	return receipt, nil
}

// UpdateAppearance sets the user's avatar and theme. The built-in defaults
// are always allowed; anything else must be an owned shop item's effect.
func (s *ShopService) UpdateAppearance(userID int64, avatar, theme string) error {
	if avatar != "" && !isDefaultAvatar(avatar) {
		owned, err := s.ownsEffect(userID, models.ItemKindAvatar, "avatar:"+avatar)
		if err != nil {
			return err
		}
		if !owned {
			return ErrItemNotOwned
		}
	}
	if theme != "" && !isDefaultTheme(theme) {
		owned, err := s.ownsEffect(userID, models.ItemKindTheme, "theme:"+theme)
		if err != nil {
			return err
		}
		if !owned {
			return ErrItemNotOwned
		}
	}
	return s.userRepo.UpdateAppearance(userID, avatar, theme)
}

func (s *ShopService) ownsEffect(userID int64, kind, effect string) (bool, error) {
	items, err := s.shopRepo.GetUserItems(userID)
	if err != nil {
		return false, fmt.Errorf("failed to get inventory: %w", err)
	}
	for _, it := range items {
		if it.Item.Kind == kind && it.Item.Effect == effect && it.Quantity > 0 {
			return true, nil
		}
	}
	return false, nil
}

func isDefaultAvatar(avatar string) bool {
	switch avatar {
	case "bee", "owl", "fox":
		return true
	}
	return false
}

func isDefaultTheme(theme string) bool {
	switch theme {
	case "light", "dark":
		return true
	}
	return false
}
