package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tavolo-pos/backend/models"
)

var ErrSessionClosed = errors.New("session is closed")

// OrderEntry is one cart line in a submission.
type OrderEntry struct {
	MenuItemID         uint    `json:"menu_item"`
	PriceEach          float64 `json:"price_each"`
	Quantity           int     `json:"quantity"`
	Notes              string  `json:"notes"`
	Course             string  `json:"course"`
	SelectedExtras     []uint  `json:"selected_extras"`
	RemovedIngredients []uint  `json:"removed_ingredients"`
}

// CreateOrder builds an order and its items from a cart submission.
//
// The order total is computed from the submitted prices and quantities, not
// re-derived from stored items. Each item snapshots the menu item's name and
// production routing; items produced by no station skip the kitchen and
// start out ready. Newly created items are not consolidated here — folding
// only matters across separate submissions and is handled by the edit and
// update paths.
func CreateOrder(tx *gorm.DB, sessionID uint, waiterID *uint, entries []OrderEntry) (*models.Order, error) {
	var session models.Session
	if err := tx.First(&session, sessionID).Error; err != nil {
		return nil, fmt.Errorf("load session %d: %w", sessionID, err)
	}
	if session.Status != models.SessionOpen {
		return nil, ErrSessionClosed
	}

	var total float64
	for _, e := range entries {
		if e.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		total += e.PriceEach * float64(e.Quantity)
	}

	order := models.Order{
		SessionID:   sessionID,
		WaiterID:    waiterID,
		TotalAmount: total,
	}
	if err := tx.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	for _, e := range entries {
		var menuItem models.MenuItem
		if err := tx.Preload("ProducedBy").First(&menuItem, e.MenuItemID).Error; err != nil {
			return nil, fmt.Errorf("load menu item %d: %w", e.MenuItemID, err)
		}

		extras, removed, err := resolveItemSets(tx, e.SelectedExtras, e.RemovedIngredients)
		if err != nil {
			return nil, err
		}

		requiresFiring := menuItem.RequiresFiring()
		status := models.ItemStatusReady
		if requiresFiring {
			status = models.ItemStatusPending
		}

		item := models.OrderItem{
			OrderID:            order.ID,
			MenuItemID:         menuItem.ID,
			MenuItemName:       menuItem.Name,
			PriceEach:          e.PriceEach,
			Quantity:           e.Quantity,
			Notes:              e.Notes,
			Course:             e.Course,
			Status:             status,
			RequiresFiring:     requiresFiring,
			SelectedExtras:     extras,
			RemovedIngredients: removed,
		}
		if err := tx.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
	}

	var created models.Order
	if err := tx.Preload("OrderItems").
		Preload("OrderItems.SelectedExtras").
		Preload("OrderItems.RemovedIngredients").
		First(&created, order.ID).Error; err != nil {
		return nil, fmt.Errorf("reload order %d: %w", order.ID, err)
	}
	return &created, nil
}
