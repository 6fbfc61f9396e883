package services

import (
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tavolo-pos/backend/models"
	"github.com/tavolo-pos/backend/utils"
)

// SkipConsolidation is a gorm session setting. Saves issued by the
// consolidation engine itself carry it so the order_items after-update
// callback does not re-enter the engine.
const SkipConsolidation = "order_items:skip_consolidation"

// EqualForMerge reports whether two items describe the same kitchen ticket:
// same notes, same course, same selected extras and removed ingredients
// compared as sets. Same menu item and session are the caller's
// responsibility; status is not inspected here.
func EqualForMerge(a, b *models.OrderItem) bool {
	if a.Notes != b.Notes || a.Course != b.Course {
		return false
	}
	if !equalIDSet(extraIDs(a.SelectedExtras), extraIDs(b.SelectedExtras)) {
		return false
	}
	return equalIDSet(ingredientIDs(a.RemovedIngredients), ingredientIDs(b.RemovedIngredients))
}

func extraIDs(extras []models.Extra) []uint {
	ids := make([]uint, 0, len(extras))
	for _, e := range extras {
		ids = append(ids, e.ID)
	}
	return ids
}

func ingredientIDs(ings []models.Ingredient) []uint {
	ids := make([]uint, 0, len(ings))
	for _, ing := range ings {
		ids = append(ids, ing.ID)
	}
	return ids
}

func equalIDSet(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	sort.Slice(a, func(i, j int) bool { return a[i] < a[j] })
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Consolidate folds target into an existing merge-equal pending item in the
// same session, if one exists. The survivor takes the combined quantity and
// target is deleted. At most one merge happens per call; candidates are
// scanned in primary-key order and the first match wins.
//
// target must have SelectedExtras and RemovedIngredients populated. A target
// that has not been persisted yet (ID == 0) is simply not inserted when it
// merges, which is how the split path avoids creating a duplicate row.
//
// Consolidation is best effort: any internal failure is logged and reported
// as "no merge" so the operation that triggered it never fails on account
// of duplicate folding.
func Consolidate(tx *gorm.DB, target *models.OrderItem) bool {
	if target.Status != models.ItemStatusPending {
		return false
	}

	var order models.Order
	if err := tx.First(&order, target.OrderID).Error; err != nil {
		utils.ErrorLogger.Printf("consolidation: resolve order %d for item %d: %v", target.OrderID, target.ID, err)
		return false
	}

	// Session scope: one table visit can span several order submissions and
	// the kitchen wants one ticket per distinct dish configuration.
	var orderIDs []uint
	if err := tx.Model(&models.Order{}).
		Where("session_id = ?", order.SessionID).
		Pluck("id", &orderIDs).Error; err != nil {
		utils.ErrorLogger.Printf("consolidation: list session %d orders: %v", order.SessionID, err)
		return false
	}
	if len(orderIDs) == 0 {
		return false
	}

	var candidates []models.OrderItem
	if err := tx.Preload("SelectedExtras").Preload("RemovedIngredients").
		Where("order_id IN ? AND id <> ? AND menu_item_id = ? AND status = ?",
			orderIDs, target.ID, target.MenuItemID, models.ItemStatusPending).
		Order("id asc").
		Find(&candidates).Error; err != nil {
		utils.ErrorLogger.Printf("consolidation: load candidates for item %d: %v", target.ID, err)
		return false
	}

	for i := range candidates {
		existing := &candidates[i]
		if !EqualForMerge(existing, target) {
			continue
		}

		existing.Quantity += target.Quantity
		if err := tx.Set(SkipConsolidation, true).Save(existing).Error; err != nil {
			utils.ErrorLogger.Printf("consolidation: save merged item %d: %v", existing.ID, err)
			return false
		}

		if target.ID != 0 {
			if err := tx.Select(clause.Associations).Delete(target).Error; err != nil {
				utils.ErrorLogger.Printf("consolidation: delete absorbed item %d: %v", target.ID, err)
				return false
			}
		}

		utils.InfoLogger.Printf("consolidation: merged item %d into %d (quantity %d)", target.ID, existing.ID, existing.Quantity)
		return true
	}
	return false
}
