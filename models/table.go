package models

import "time"

// Table is a physical dine-in table. TableNumber is unique per location,
// enforced by the composite index and double-checked by the table service so
// the client gets a descriptive conflict error instead of a driver error.
type Table struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	TableNumber int         `gorm:"not null;uniqueIndex:idx_location_table_number" json:"table_number"`
	LocationID  string      `gorm:"type:varchar(50);not null;uniqueIndex:idx_location_table_number" json:"location_id"`
	Seats       int         `gorm:"not null" json:"seats"`
	Status      TableStatus `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
}
