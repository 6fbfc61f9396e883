package models

import "time"

// Session is one table visit. Orders placed during the same session belong
// to the same physical party, which is why pending items are consolidated
// per session rather than per order.
type Session struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Code      string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	TableID   uint       `gorm:"not null;index" json:"table_id"`
	Table     Table      `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table"`
	Status    string     `gorm:"type:varchar(20);not null;default:'open'" json:"status"` // open, closed
	OpenedAt  time.Time  `gorm:"not null" json:"opened_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
	Orders    []Order    `gorm:"foreignKey:SessionID" json:"orders,omitempty"`
}

const (
	SessionOpen   = "open"
	SessionClosed = "closed"
)
