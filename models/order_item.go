package models

import "time"

// Item kitchen workflow states.
const (
	ItemStatusPending = "pending"
	ItemStatusFired   = "fired"
	ItemStatusCooking = "cooking"
	ItemStatusReady   = "ready"
	ItemStatusServed  = "served"
)

// ValidItemStatus reports whether s is a known kitchen state.
func ValidItemStatus(s string) bool {
	switch s {
	case ItemStatusPending, ItemStatusFired, ItemStatusCooking, ItemStatusReady, ItemStatusServed:
		return true
	}
	return false
}

type OrderItem struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	OrderID uint  `gorm:"not null;index:idx_order_items_merge,priority:1" json:"order_id"`
	Order   Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	// MenuItemName and PriceEach are snapshots taken when the item is
	// created; a later menu edit must not rewrite what was ordered.
	MenuItemID   uint     `gorm:"not null;index:idx_order_items_merge,priority:2" json:"menu_item_id"`
	MenuItem     MenuItem `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu_item"`
	MenuItemName string   `gorm:"type:varchar(255);not null" json:"menu_item_name"`
	PriceEach    float64  `gorm:"type:decimal(10,2);not null" json:"price_each"`
	Quantity     int      `gorm:"not null" json:"quantity"`
	PaidQuantity int      `gorm:"not null;default:0" json:"paid_quantity"`
	Notes        string   `gorm:"type:text" json:"notes"`
	Course       string   `gorm:"type:varchar(100)" json:"course"`
	Status       string   `gorm:"type:varchar(20);not null;default:'pending';index:idx_order_items_merge,priority:3" json:"status"`
	// RequiresFiring is copied from the menu item's production routing and
	// never changes afterwards.
	RequiresFiring     bool         `gorm:"not null;default:true" json:"requires_firing"`
	FiredAt            *time.Time   `json:"fired_at,omitempty"`
	SelectedExtras     []Extra      `gorm:"many2many:order_item_selected_extras" json:"selected_extras"`
	RemovedIngredients []Ingredient `gorm:"many2many:order_item_removed_ingredients" json:"removed_ingredients"`
	CreatedAt          time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"not null" json:"updated_at"`
}
