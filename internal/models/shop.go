package models

import "time"

// Shop item kinds
const (
	ItemKindTheme   = "theme"
	ItemKindAvatar  = "avatar"
	ItemKindPowerup = "powerup"
)

// ShopItem is a catalog entry purchasable with stars
type ShopItem struct {
	ID          int64
	Name        string
	Description string
	Kind        string
	Cost        int
	Effect      string
	CreatedAt   time.Time
}

// UserItem is the per-user owned quantity of a shop item
type UserItem struct {
	ID       int64
	UserID   int64
	ItemID   int64
	Quantity int
}

// UserItemWithDetails joins an owned item with its catalog entry
type UserItemWithDetails struct {
	UserItem
	Item ShopItem
}

// PurchaseReceipt is returned after a successful purchase
type PurchaseReceipt struct {
	ItemID      int64
	Quantity    int
	TotalCost   int
	NewBalance  int
	NewQuantity int
}
