package database

import (
	"gorm.io/gorm"

	"github.com/tavolo-pos/backend/models"
	"github.com/tavolo-pos/backend/services"
	"github.com/tavolo-pos/backend/utils"
)

// RegisterHooks installs the order_items after-update callback. Every
// successful item update gets a consolidation pass, so edits made outside
// the edit endpoint still collapse duplicates. The callback runs on the
// statement's own connection, inside whatever transaction the update ran in.
func RegisterHooks(db *gorm.DB) error {
	return db.Callback().Update().
		After("gorm:after_update").
		Register("order_items:consolidate", consolidateAfterUpdate)
}

func consolidateAfterUpdate(db *gorm.DB) {
	if db.Error != nil || db.Statement == nil {
		return
	}
	if db.Statement.Table != "order_items" {
		return
	}
	// Saves issued by the engine itself are flagged to stop re-entry.
	if _, ok := db.Get(services.SkipConsolidation); ok {
		return
	}

	var id uint
	switch m := db.Statement.Dest.(type) {
	case *models.OrderItem:
		id = m.ID
	case models.OrderItem:
		id = m.ID
	}
	if id == 0 {
		return
	}

	tx := db.Session(&gorm.Session{NewDB: true})

	var item models.OrderItem
	if err := tx.Preload("SelectedExtras").Preload("RemovedIngredients").
		First(&item, id).Error; err != nil {
		// Best effort only; the triggering update already succeeded.
		utils.ErrorLogger.Printf("consolidation hook: reload item %d: %v", id, err)
		return
	}

	services.Consolidate(tx, &item)
}
