package models

import "gorm.io/gorm"

const (
	ItemTypeCourse = "course"
	ItemTypeNote   = "note"
)

const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"
	OrderStatusExpired = "expired"
)

type CartItem struct {
	gorm.Model
	UserID   uint   `gorm:"index"`
	ItemType string // course, note
	ItemID   uint
}

type Order struct {
	gorm.Model
	UserID      uint   `gorm:"index"`
	OrderNumber string `gorm:"unique;not null"`
	Status      string `gorm:"default:pending"`
	Total       float64
	PaymentRef  string
	Items       []OrderItem
}

// OrderItem snapshots title and price at purchase time so later edits to the
// course or note do not rewrite history.
type OrderItem struct {
	gorm.Model
	OrderID  uint `gorm:"index"`
	ItemType string
	ItemID   uint
	Title    string
	Price    float64
}
