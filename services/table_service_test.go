package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kenylson23/lastortillas-backend/models"
	"github.com/kenylson23/lastortillas-backend/services"
	"github.com/kenylson23/lastortillas-backend/utils"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.Table{}, &models.MenuItem{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestCreateTableRejectsDuplicatePerLocation(t *testing.T) {
	db := setupTestDB(t, "tables_dup")
	ts := services.NewTableService(db)

	_, err := ts.Create(3, "ilha", 4, "")
	assert.NoError(t, err)

	// Same number at the same location is a conflict...
	_, err = ts.Create(3, "ilha", 6, "")
	assert.ErrorIs(t, err, services.ErrDuplicateTableNumber)

	// ...and the table set is unchanged.
	tables, err := ts.ListByLocation("ilha")
	assert.NoError(t, err)
	assert.Len(t, tables, 1)
	assert.Equal(t, 4, tables[0].Seats)

	// The same number at another location is fine.
	_, err = ts.Create(3, "talatona", 4, "")
	assert.NoError(t, err)
}

func TestCreateTableValidatesSeats(t *testing.T) {
	db := setupTestDB(t, "tables_seats")
	ts := services.NewTableService(db)

	_, err := ts.Create(1, "ilha", 0, "")
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = ts.Create(1, "ilha", 13, "")
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = ts.Create(1, "ilha", 12, "")
	assert.NoError(t, err)
}

func TestCreateTableValidatesStatus(t *testing.T) {
	db := setupTestDB(t, "tables_status")
	ts := services.NewTableService(db)

	_, err := ts.Create(1, "ilha", 4, "dirty")
	assert.ErrorIs(t, err, services.ErrValidation)

	table, err := ts.Create(1, "ilha", 4, models.TableReserved)
	assert.NoError(t, err)
	assert.Equal(t, models.TableReserved, table.Status)
}

func TestAssignIsCompareAndSwap(t *testing.T) {
	db := setupTestDB(t, "tables_cas")
	ts := services.NewTableService(db)

	table, err := ts.Create(1, "ilha", 4, "")
	assert.NoError(t, err)

	assert.NoError(t, ts.Assign(db, table.ID))

	got, err := ts.Get(table.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.TableOccupied, got.Status)

	// Second assignment loses the race.
	err = ts.Assign(db, table.ID)
	assert.ErrorIs(t, err, services.ErrTableUnavailable)

	err = ts.Assign(db, 999)
	assert.ErrorIs(t, err, services.ErrTableNotFound)
}

func TestReleaseReturnsTableToAvailable(t *testing.T) {
	db := setupTestDB(t, "tables_release")
	ts := services.NewTableService(db)

	table, err := ts.Create(1, "ilha", 4, "")
	assert.NoError(t, err)
	assert.NoError(t, ts.Assign(db, table.ID))

	assert.NoError(t, ts.Release(db, table.ID))

	got, err := ts.Get(table.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.TableAvailable, got.Status)
}

func TestUpdateTableNumberChecksUniqueness(t *testing.T) {
	db := setupTestDB(t, "tables_update")
	ts := services.NewTableService(db)

	_, err := ts.Create(1, "ilha", 4, "")
	assert.NoError(t, err)
	second, err := ts.Create(2, "ilha", 4, "")
	assert.NoError(t, err)

	_, err = ts.Update(second.ID, 1, 6)
	assert.ErrorIs(t, err, services.ErrDuplicateTableNumber)

	updated, err := ts.Update(second.ID, 5, 6)
	assert.NoError(t, err)
	assert.Equal(t, 5, updated.TableNumber)
	assert.Equal(t, 6, updated.Seats)
}
