package models

import "time"

// OrderItem snapshots the menu price at order time. UnitPrice is a copy, not
// a reference: later menu price changes never touch existing orders.
type OrderItem struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	OrderID        uint       `gorm:"not null;index" json:"order_id"`
	Order          Order      `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuItemID     uint       `gorm:"not null" json:"menu_item_id"`
	MenuItem       MenuItem   `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu_item"`
	Quantity       int        `gorm:"not null" json:"quantity"`
	UnitPrice      float64    `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Customizations StringList `gorm:"type:text" json:"customizations"`
	Subtotal       float64    `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
}
