package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"spellquest/internal/database"
	"spellquest/internal/models"
)

// ErrInsufficientFunds is returned when a purchase exceeds the user's balance
var ErrInsufficientFunds = errors.New("insufficient funds")

// ShopRepository handles database operations for the shop catalog and
// per-user inventory
type ShopRepository struct {
	db *database.DB
}

// NewShopRepository creates a new shop repository
func NewShopRepository(db *database.DB) *ShopRepository {
	return &ShopRepository{db: db}
}

// GetItems retrieves the full shop catalog
func (r *ShopRepository) GetItems() ([]models.ShopItem, error) {
	query := `
		SELECT id, name, description, kind, cost, COALESCE(effect, ''), created_at
		FROM shop_items
		ORDER BY cost ASC, id ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query shop items: %w", err)
	}
	defer rows.Close()

	var items []models.ShopItem
	for rows.Next() {
		var item models.ShopItem
		err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Kind, &item.Cost, &item.Effect, &item.CreatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetItemByID retrieves one catalog entry
func (r *ShopRepository) GetItemByID(itemID int64) (*models.ShopItem, error) {
	query := `
		SELECT id, name, description, kind, cost, COALESCE(effect, ''), created_at
		FROM shop_items
		WHERE id = ?
	`
	item := &models.ShopItem{}
	err := r.db.QueryRow(query, itemID).Scan(
		&item.ID, &item.Name, &item.Description, &item.Kind, &item.Cost, &item.Effect, &item.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop item: %w", err)
	}
	return item, nil
}

// GetUserItems retrieves a user's inventory joined with catalog entries
func (r *ShopRepository) GetUserItems(userID int64) ([]models.UserItemWithDetails, error) {
	query := `
		SELECT ui.id, ui.user_id, ui.item_id, ui.quantity,
		       si.id, si.name, si.description, si.kind, si.cost, COALESCE(si.effect, ''), si.created_at
		FROM user_items ui
		JOIN shop_items si ON si.id = ui.item_id
		WHERE ui.user_id = ?
		ORDER BY si.kind, si.name
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user items: %w", err)
	}
	defer rows.Close()

	var owned []models.UserItemWithDetails
	for rows.Next() {
		var ui models.UserItemWithDetails
		err := rows.Scan(
			&ui.ID, &ui.UserID, &ui.ItemID, &ui.Quantity,
			&ui.Item.ID, &ui.Item.Name, &ui.Item.Description, &ui.Item.Kind,
			&ui.Item.Cost, &ui.Item.Effect, &ui.Item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		owned = append(owned, ui)
	}
	return owned, rows.Err()
}

// Purchase atomically debits totalCost from the user's balance and adds
// quantity of the item to their inventory. The debit is conditional on
// currency >= totalCost so a concurrent purchase can never overdraw the
// balance; on insufficient funds the transaction rolls back with the
// balance untouched.
func (r *ShopRepository) Purchase(userID, itemID int64, quantity, totalCost int) (*models.PurchaseReceipt, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		"UPDATE users SET currency = currency - ? WHERE id = ? AND currency >= ?",
		totalCost, userID, totalCost,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to debit currency: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrInsufficientFunds
	}

	if _, err := tx.Exec(tx.GetDialect().UpsertUserItemQuery(), userID, itemID, quantity); err != nil {
		return nil, fmt.Errorf("failed to add item to inventory: %w", err)
	}

	receipt := &models.PurchaseReceipt{
		ItemID:    itemID,
		Quantity:  quantity,
		TotalCost: totalCost,
	}
	err = tx.QueryRow("SELECT currency FROM users WHERE id = ?", userID).Scan(&receipt.NewBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to read new balance: %w", err)
	}
	err = tx.QueryRow(
		"SELECT quantity FROM user_items WHERE user_id = ? AND item_id = ?",
		userID, itemID,
	).Scan(&receipt.NewQuantity)
	if err != nil {
		return nil, fmt.Errorf("failed to read new quantity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}
	return receipt, nil
}

// SeedItems inserts catalog entries if the shop is empty
func (r *ShopRepository) SeedItems(items []models.ShopItem) error {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM shop_items").Scan(&count); err != nil {
		return fmt.Errorf("failed to count shop items: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, item := range items {
		_, err := tx.Exec(
			"INSERT INTO shop_items (name, description, kind, cost, effect) VALUES (?, ?, ?, ?, ?)",
			item.Name, item.Description, item.Kind, item.Cost, item.Effect,
		)
		if err != nil {
			return fmt.Errorf("failed to seed shop item %q: %w", item.Name, err)
		}
	}
	return tx.Commit()
}
