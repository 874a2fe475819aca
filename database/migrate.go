package database

import (
	"gorm.io/gorm"

	"github.com/kenylson23/lastortillas-backend/models"
	"github.com/kenylson23/lastortillas-backend/utils"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
	)
}

// Seed fills an empty database with the starting menu and the tables of both
// locations. Idempotent: existing data is left alone.
func Seed(db *gorm.DB, locations []string) error {
	var menuCount int64
	if err := db.Model(&models.MenuItem{}).Count(&menuCount).Error; err != nil {
		return err
	}
	if menuCount == 0 {
		if err := db.Create(defaultMenu()).Error; err != nil {
			return err
		}
		utils.InfoLogger.Println("Seeded default menu")
	}

	var tableCount int64
	if err := db.Model(&models.Table{}).Count(&tableCount).Error; err != nil {
		return err
	}
	if tableCount == 0 {
		var tables []models.Table
		for _, loc := range locations {
			for n := 1; n <= 8; n++ {
				tables = append(tables, models.Table{
					TableNumber: n,
					LocationID:  loc,
					Seats:       4,
					Status:      models.TableAvailable,
				})
			}
		}
		if len(tables) > 0 {
			if err := db.Create(&tables).Error; err != nil {
				return err
			}
			utils.InfoLogger.Printf("Seeded %d tables", len(tables))
		}
	}

	return nil
}

func defaultMenu() *[]models.MenuItem {
	salsas := models.StringList{"Sem picante", "Picante suave", "Extra picante"}
	extras := models.StringList{"Extra queijo", "Extra guacamole", "Sem cebola", "Sem coentros"}

	return &[]models.MenuItem{
		{Name: "Tacos al Pastor", Description: "Três tacos de porco marinado com ananás", Price: 1500, Category: "Tacos", PreparationTime: 15, Available: true, CustomizationOptions: append(append(models.StringList{}, salsas...), extras...)},
		{Name: "Tacos de Carnitas", Description: "Três tacos de porco confitado", Price: 1600, Category: "Tacos", PreparationTime: 15, Available: true, CustomizationOptions: salsas},
		{Name: "Quesadilla de Frango", Description: "Tortilla de trigo com frango e queijo", Price: 1800, Category: "Quesadillas", PreparationTime: 20, Available: true, CustomizationOptions: extras},
		{Name: "Burrito Supremo", Description: "Burrito com carne, feijão, arroz e queijo", Price: 2200, Category: "Burritos", PreparationTime: 25, Available: true, CustomizationOptions: append(append(models.StringList{}, salsas...), extras...)},
		{Name: "Nachos com Guacamole", Description: "Totopos com queijo fundido e guacamole", Price: 1200, Category: "Entradas", PreparationTime: 10, Available: true, CustomizationOptions: salsas},
		{Name: "Enchiladas Verdes", Description: "Tortillas recheadas com molho verde", Price: 2000, Category: "Pratos", PreparationTime: 30, Available: true, CustomizationOptions: salsas},
		{Name: "Agua de Jamaica", Description: "Bebida de hibisco gelada", Price: 500, Category: "Bebidas", PreparationTime: 2, Available: true, CustomizationOptions: models.StringList{}},
		{Name: "Horchata", Description: "Bebida de arroz com canela", Price: 600, Category: "Bebidas", PreparationTime: 2, Available: true, CustomizationOptions: models.StringList{}},
	}
}
