package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kenylson23/lastortillas-backend/models"
	"github.com/kenylson23/lastortillas-backend/realtime"
	"github.com/kenylson23/lastortillas-backend/utils"
)

// TableService owns table records and their occupancy. Assignment is
// compare-and-swap: a table is only taken if it is still available at write
// time, so two concurrent dine-in submissions can never double-book.
type TableService struct {
	DB *gorm.DB
}

func NewTableService(db *gorm.DB) *TableService {
	return &TableService{DB: db}
}

func (ts *TableService) ListByLocation(location string) ([]models.Table, error) {
	var tables []models.Table
	if err := ts.DB.Where("location_id = ?", location).
		Order("table_number asc").
		Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

func (ts *TableService) Get(id uint) (*models.Table, error) {
	var table models.Table
	if err := ts.DB.First(&table, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &table, nil
}

// Create rejects a duplicate (location, tableNumber) pair with a descriptive
// error. The composite unique index is the backstop for concurrent creates.
func (ts *TableService) Create(tableNumber int, location string, seats int, status models.TableStatus) (*models.Table, error) {
	if tableNumber <= 0 {
		return nil, fmt.Errorf("%w: table number must be positive", ErrValidation)
	}
	if seats < 1 || seats > 12 {
		return nil, fmt.Errorf("%w: seats must be between 1 and 12", ErrValidation)
	}
	if status == "" {
		status = models.TableAvailable
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid table status %q", ErrValidation, status)
	}

	var count int64
	if err := ts.DB.Model(&models.Table{}).
		Where("location_id = ? AND table_number = ?", location, tableNumber).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: number %d at %s", ErrDuplicateTableNumber, tableNumber, location)
	}

	table := models.Table{
		TableNumber: tableNumber,
		LocationID:  location,
		Seats:       seats,
		Status:      status,
	}
	if err := ts.DB.Create(&table).Error; err != nil {
		return nil, err
	}

	realtime.BroadcastTables(table)
	utils.InfoLogger.Printf("Table %d created at %s (status=%s)", table.TableNumber, table.LocationID, table.Status)
	return &table, nil
}

func (ts *TableService) Update(id uint, tableNumber, seats int) (*models.Table, error) {
	table, err := ts.Get(id)
	if err != nil {
		return nil, err
	}
	if seats < 1 || seats > 12 {
		return nil, fmt.Errorf("%w: seats must be between 1 and 12", ErrValidation)
	}
	if tableNumber <= 0 {
		return nil, fmt.Errorf("%w: table number must be positive", ErrValidation)
	}

	if tableNumber != table.TableNumber {
		var count int64
		if err := ts.DB.Model(&models.Table{}).
			Where("location_id = ? AND table_number = ? AND id <> ?", table.LocationID, tableNumber, id).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, fmt.Errorf("%w: number %d at %s", ErrDuplicateTableNumber, tableNumber, table.LocationID)
		}
	}

	table.TableNumber = tableNumber
	table.Seats = seats
	if err := ts.DB.Save(table).Error; err != nil {
		return nil, err
	}

	realtime.BroadcastTables(*table)
	return table, nil
}

func (ts *TableService) UpdateStatus(id uint, status models.TableStatus) (*models.Table, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid table status %q", ErrValidation, status)
	}
	table, err := ts.Get(id)
	if err != nil {
		return nil, err
	}

	table.Status = status
	if err := ts.DB.Save(table).Error; err != nil {
		return nil, err
	}

	realtime.BroadcastTables(*table)
	utils.InfoLogger.Printf("Table %d status changed to %s", table.ID, table.Status)
	return table, nil
}

func (ts *TableService) Delete(id uint) error {
	table, err := ts.Get(id)
	if err != nil {
		return err
	}
	if err := ts.DB.Delete(table).Error; err != nil {
		return err
	}

	realtime.BroadcastMessage(realtime.Message{
		Type: realtime.EventTables,
		Data: map[string]interface{}{"deleted": table.ID, "location_id": table.LocationID},
	})
	return nil
}

// Assign marks a table occupied iff it is still available. Runs inside the
// caller's transaction so the order insert and the table flip commit
// together. Zero rows affected means the table was taken between validation
// and write.
func (ts *TableService) Assign(tx *gorm.DB, tableID uint) error {
	res := tx.Model(&models.Table{}).
		Where("id = ? AND status = ?", tableID, models.TableAvailable).
		Updates(map[string]interface{}{"status": models.TableOccupied, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.Table{}).Where("id = ?", tableID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrTableNotFound
		}
		return ErrTableUnavailable
	}
	return nil
}

// Release returns a table to available when its order reaches a terminal
// status. Runs inside the caller's transaction.
func (ts *TableService) Release(tx *gorm.DB, tableID uint) error {
	res := tx.Model(&models.Table{}).
		Where("id = ?", tableID).
		Updates(map[string]interface{}{"status": models.TableAvailable, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTableNotFound
	}
	return nil
}
