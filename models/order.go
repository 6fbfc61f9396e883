package models

import "time"

type Order struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	SessionID uint    `gorm:"not null;index" json:"session_id"`
	Session   Session `gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	WaiterID  *uint   `gorm:"index" json:"waiter_id,omitempty"`
	Waiter    *User   `gorm:"foreignKey:WaiterID" json:"waiter,omitempty"`
	// TotalAmount is fixed at submission time from the submitted prices and
	// quantities. Later splits and merges move quantity between items but
	// never change what the party ordered, so it is not recomputed.
	TotalAmount float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
	OrderItems  []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
}
