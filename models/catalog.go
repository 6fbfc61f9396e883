package models

import "time"

// Course groups dishes by serving order (antipasti, primi, ...). Order items
// carry the course name as a plain tag so a renamed course never rewrites
// historical items.
type Course struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"type:varchar(100);unique;not null" json:"name"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Station is a kitchen production station (grill, fryer, bar). A menu item
// produced by at least one station requires firing before the kitchen
// starts it.
type Station struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"type:varchar(100);unique;not null" json:"name"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Ingredient struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Extra struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Name      string  `gorm:"type:varchar(100);not null" json:"name"`
	Price     float64 `gorm:"type:decimal(10,2);not null;default:0.00" json:"price"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
