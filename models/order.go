package models

import "time"

// Order is created once with its items in a single transaction. After
// creation only Status, PaymentStatus, Notes and EstimatedReadyTime may
// change; amount and items are frozen.
type Order struct {
	ID                 uint          `gorm:"primaryKey" json:"id"`
	CustomerName       string        `gorm:"type:varchar(120);not null" json:"customer_name"`
	CustomerPhone      string        `gorm:"type:varchar(30);not null" json:"customer_phone"`
	CustomerEmail      *string       `gorm:"type:varchar(255)" json:"customer_email,omitempty"`
	DeliveryAddress    *string       `gorm:"type:text" json:"delivery_address,omitempty"`
	OrderType          OrderType     `gorm:"type:varchar(20);not null" json:"order_type"`
	LocationID         string        `gorm:"type:varchar(50);not null;index" json:"location_id"`
	TableID            *uint         `gorm:"index" json:"table_id,omitempty"`
	Table              *Table        `gorm:"foreignKey:TableID" json:"table,omitempty"`
	TotalAmount        float64       `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	DeliveryFee        float64       `gorm:"type:decimal(10,2);not null;default:0.00" json:"delivery_fee"`
	PaymentMethod      PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus      PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	Status             OrderStatus   `gorm:"type:varchar(20);not null;default:'received';index" json:"status"`
	Notes              *string       `gorm:"type:text" json:"notes,omitempty"`
	IdempotencyKey     *string       `gorm:"type:varchar(64);uniqueIndex" json:"idempotency_key,omitempty"`
	EstimatedReadyTime time.Time     `gorm:"not null" json:"estimated_ready_time"`
	CreatedAt          time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time     `gorm:"not null" json:"updated_at"`
	Items              []OrderItem   `gorm:"foreignKey:OrderID" json:"items"`
}
