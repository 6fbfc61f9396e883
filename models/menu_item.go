package models

import "time"

type MenuItem struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	Name          string       `gorm:"type:varchar(255);not null" json:"name"`
	Price         float64      `gorm:"type:decimal(10,2);not null" json:"price"`
	Description   string       `gorm:"type:text" json:"description"`
	DefaultCourse string       `gorm:"type:varchar(100)" json:"default_course"`
	Available     bool         `gorm:"not null;default:true" json:"available"`
	ProducedBy    []Station    `gorm:"many2many:menu_item_stations" json:"produced_by"`
	Ingredients   []Ingredient `gorm:"many2many:menu_item_ingredients" json:"ingredients"`
	Extras        []Extra      `gorm:"many2many:menu_item_extras" json:"extras"`
	CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null" json:"updated_at"`
}

// RequiresFiring reports whether the item goes through the kitchen at all.
// Items produced by no station (e.g. bottled drinks) are ready immediately.
func (m *MenuItem) RequiresFiring() bool {
	return len(m.ProducedBy) > 0
}
