package models

import "time"

type MenuItem struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	Name                 string     `gorm:"type:varchar(255);not null" json:"name"`
	Description          string     `gorm:"type:text" json:"description"`
	Price                float64    `gorm:"type:decimal(10,2);not null" json:"price"`
	Category             string     `gorm:"type:varchar(100);not null;index" json:"category"`
	PreparationTime      int        `gorm:"not null;default:15" json:"preparation_time"` // minutes
	Available            bool       `gorm:"not null;default:true" json:"available"`
	CustomizationOptions StringList `gorm:"type:text" json:"customization_options"`
	CreatedAt            time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"not null" json:"updated_at"`
}
