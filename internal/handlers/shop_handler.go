package handlers

import (
	"net/http"

	"spellquest/internal/service"
)

// ShopHandler handles shop and inventory HTTP requests
type ShopHandler struct {
	shopService *service.ShopService
}

// NewShopHandler creates a new shop handler
func NewShopHandler(shopService *service.ShopService) *ShopHandler {
	return &ShopHandler{shopService: shopService}
}

type itemView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Cost        int    `json:"cost"`
	Effect      string `json:"effect"`
}

// Catalog handles GET /api/shop/items
func (h *ShopHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	items, err := h.shopService.GetCatalog()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	views := []itemView{}
	for _, it := range items {
		views = append(views, itemView{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Kind:        it.Kind,
			Cost:        it.Cost,
			Effect:      it.Effect,
		})
	}
	respondJSON(w, http.StatusOK, views)
}

// Inventory handles GET /api/user-items
func (h *ShopHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	who := IdentityFrom(r)

	items, err := h.shopService.GetInventory(who.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	balance, err := h.shopService.GetBalance(who.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	type ownedView struct {
		itemView
		Quantity int `json:"quantity"`
	}
	views := []ownedView{}
	for _, it := range items {
		views = append(views, ownedView{
			itemView: itemView{
				ID:          it.Item.ID,
				Name:        it.Item.Name,
				Description: it.Item.Description,
				Kind:        it.Item.Kind,
				Cost:        it.Item.Cost,
				Effect:      it.Item.Effect,
			},
			Quantity: it.Quantity,
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"balance": balance,
		"items":   views,
	})
}

// Purchase handles POST /api/user-items/purchase
func (h *ShopHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID   int64 `json:"item_id"`
		Quantity int   `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	who := IdentityFrom(r)
	receipt, err := h.shopService.Purchase(who.UserID, req.ItemID, req.Quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"item_id":      receipt.ItemID,
		"quantity":     receipt.Quantity,
		"total_cost":   receipt.TotalCost,
		"new_balance":  receipt.NewBalance,
		"new_quantity": receipt.NewQuantity,
	})
}

// UpdateAppearance handles PUT /api/user/appearance
func (h *ShopHandler) UpdateAppearance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Avatar string `json:"avatar"`
		Theme  string `json:"theme"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody)
		return
	}

	who := IdentityFrom(r)
	if err := h.shopService.UpdateAppearance(who.UserID, req.Avatar, req.Theme); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
