package catalog

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kenylson23/lastortillas-backend/models"
)

var ErrItemNotFound = errors.New("menu item not found")

// Reader exposes the orderable menu. The ordering subsystem never writes
// menu data; editing lives in the admin back office.
type Reader interface {
	List() ([]models.MenuItem, error)
	Get(id uint) (*models.MenuItem, error)
}

type GormReader struct {
	DB *gorm.DB
}

func NewGormReader(db *gorm.DB) *GormReader {
	return &GormReader{DB: db}
}

func (r *GormReader) List() ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.DB.Order("category asc, name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormReader) Get(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// ByCategory groups the menu for the public menu page.
func ByCategory(items []models.MenuItem) map[string][]models.MenuItem {
	grouped := make(map[string][]models.MenuItem)
	for _, item := range items {
		grouped[item.Category] = append(grouped[item.Category], item)
	}
	return grouped
}
