package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tavolo-pos/backend/models"
)

// Edit outcomes reported to the caller.
const (
	OpUpdate = "update"
	OpSplit  = "split"
)

var (
	ErrInvalidQuantity = errors.New("edited quantity must be positive")
	ErrQuantityExceeds = errors.New("edited quantity exceeds item quantity")
	ErrUnknownStatus   = errors.New("unknown item status")
)

// EditItemInput carries the edited attributes for an item. ExtraIDs and
// RemovedIngredientIDs replace the item's sets wholesale.
type EditItemInput struct {
	ItemID               uint
	Quantity             int
	Notes                string
	Course               string
	ExtraIDs             []uint
	RemovedIngredientIDs []uint
}

// EditItem applies an edit to an order item inside tx.
//
// When the edited quantity equals the item's full quantity the item is
// updated in place; the order_items after-update callback then decides
// whether the reshaped item collapses into an existing pending duplicate.
//
// When the edited quantity is smaller, the item is split: the original keeps
// the old attributes with the reduced quantity and a new item carries the
// edited quantity and attributes. The new item is offered to the
// consolidation engine first and only inserted if nothing absorbs it.
//
// Returns the operation performed ("update" or "split").
func EditItem(tx *gorm.DB, in EditItemInput) (string, error) {
	if in.Quantity <= 0 {
		return "", ErrInvalidQuantity
	}

	var original models.OrderItem
	if err := tx.Preload("SelectedExtras").Preload("RemovedIngredients").
		First(&original, in.ItemID).Error; err != nil {
		return "", fmt.Errorf("load item %d: %w", in.ItemID, err)
	}
	if in.Quantity > original.Quantity {
		return "", ErrQuantityExceeds
	}

	extras, removed, err := resolveItemSets(tx, in.ExtraIDs, in.RemovedIngredientIDs)
	if err != nil {
		return "", err
	}

	if in.Quantity == original.Quantity {
		// Full edit: reshape in place.
		if err := tx.Model(&original).Association("SelectedExtras").Replace(extras); err != nil {
			return "", fmt.Errorf("replace extras on item %d: %w", original.ID, err)
		}
		if err := tx.Model(&original).Association("RemovedIngredients").Replace(removed); err != nil {
			return "", fmt.Errorf("replace removed ingredients on item %d: %w", original.ID, err)
		}
		original.Notes = in.Notes
		original.Course = in.Course
		original.SelectedExtras = extras
		original.RemovedIngredients = removed
		if err := tx.Save(&original).Error; err != nil {
			return "", fmt.Errorf("save item %d: %w", original.ID, err)
		}
		return OpUpdate, nil
	}

	// Split: the original keeps the remainder, unchanged attributes.
	original.Quantity -= in.Quantity
	if err := tx.Set(SkipConsolidation, true).Save(&original).Error; err != nil {
		return "", fmt.Errorf("save reduced item %d: %w", original.ID, err)
	}

	carved := models.OrderItem{
		OrderID:            original.OrderID,
		MenuItemID:         original.MenuItemID,
		MenuItemName:       original.MenuItemName,
		PriceEach:          original.PriceEach,
		Status:             original.Status,
		RequiresFiring:     original.RequiresFiring,
		Quantity:           in.Quantity,
		Notes:              in.Notes,
		Course:             in.Course,
		SelectedExtras:     extras,
		RemovedIngredients: removed,
	}

	if !Consolidate(tx, &carved) {
		if err := tx.Create(&carved).Error; err != nil {
			return "", fmt.Errorf("create split item: %w", err)
		}
	}
	return OpSplit, nil
}

// UpdateItemStatus moves every item in ids to newStatus. The transition to
// "fired" stamps fired_at, once. Any unresolved id fails the whole batch so
// the kitchen never sees a partially advanced ticket set.
func UpdateItemStatus(tx *gorm.DB, newStatus string, ids []uint) error {
	if !models.ValidItemStatus(newStatus) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, newStatus)
	}

	for _, id := range ids {
		var item models.OrderItem
		if err := tx.First(&item, id).Error; err != nil {
			return fmt.Errorf("load item %d: %w", id, err)
		}

		item.Status = newStatus
		if newStatus == models.ItemStatusFired && item.FiredAt == nil {
			now := time.Now()
			item.FiredAt = &now
		}

		if err := tx.Save(&item).Error; err != nil {
			return fmt.Errorf("save item %d: %w", id, err)
		}
	}
	return nil
}

func resolveItemSets(tx *gorm.DB, extraIDs, removedIDs []uint) ([]models.Extra, []models.Ingredient, error) {
	var extras []models.Extra
	if len(extraIDs) > 0 {
		if err := tx.Find(&extras, extraIDs).Error; err != nil {
			return nil, nil, fmt.Errorf("resolve extras: %w", err)
		}
		if len(extras) != len(uniqueIDs(extraIDs)) {
			return nil, nil, errors.New("unknown extra in selection")
		}
	}

	var removed []models.Ingredient
	if len(removedIDs) > 0 {
		if err := tx.Find(&removed, removedIDs).Error; err != nil {
			return nil, nil, fmt.Errorf("resolve ingredients: %w", err)
		}
		if len(removed) != len(uniqueIDs(removedIDs)) {
			return nil, nil, errors.New("unknown ingredient in selection")
		}
	}
	return extras, removed, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
