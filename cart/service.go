package cart

import (
	"errors"
	"fmt"
	"time"

	"github.com/kenylson23/lastortillas-backend/catalog"
	"github.com/kenylson23/lastortillas-backend/utils"
)

var now = time.Now

var (
	ErrItemUnavailable      = errors.New("menu item is not available")
	ErrInvalidCustomization = errors.New("customization not offered for this item")
)

// Service is the cart aggregator. All mutations re-persist the cart so a
// reload never loses state; carts for different locations are independent.
type Service struct {
	store   Store
	catalog catalog.Reader
}

func NewService(store Store, reader catalog.Reader) *Service {
	return &Service{store: store, catalog: reader}
}

func (s *Service) Get(session, location string) (*Cart, error) {
	return s.store.LoadCart(session, location)
}

// AddItem appends a new line, or increments the quantity when a line with
// the same item and customization set already exists.
func (s *Service) AddItem(session, location string, itemID uint, customizations []string) (*Cart, error) {
	item, err := s.catalog.Get(itemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, ErrItemUnavailable
	}
	for _, cust := range customizations {
		if !contains(item.CustomizationOptions, cust) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCustomization, cust)
		}
	}

	c, err := s.store.LoadCart(session, location)
	if err != nil {
		return nil, err
	}

	key := LineKey(itemID, customizations)
	if line := c.find(key); line != nil {
		line.Quantity++
	} else {
		c.Lines = append(c.Lines, Line{
			MenuItemID:     itemID,
			Quantity:       1,
			Customizations: normalize(customizations),
		})
	}

	if err := s.save(session, location, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateQuantity sets the quantity of an existing line. Zero (or negative,
// treated as zero) removes the line. Unknown lines are a no-op so repeated
// calls stay idempotent.
func (s *Service) UpdateQuantity(session, location string, itemID uint, customizations []string, quantity int) (*Cart, error) {
	c, err := s.store.LoadCart(session, location)
	if err != nil {
		return nil, err
	}

	if quantity < 0 {
		quantity = 0
	}

	key := LineKey(itemID, customizations)
	if quantity == 0 {
		c.remove(key)
	} else if line := c.find(key); line != nil {
		line.Quantity = quantity
	}

	if err := s.save(session, location, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem drops a line regardless of its quantity.
func (s *Service) RemoveItem(session, location string, itemID uint, customizations []string) (*Cart, error) {
	return s.UpdateQuantity(session, location, itemID, customizations, 0)
}

func (s *Service) Clear(session, location string) error {
	return s.store.DeleteCart(session, location)
}

// ClearAll drops both the cart and the saved customer info for a session.
func (s *Service) ClearAll(session, location string) error {
	if err := s.store.DeleteCart(session, location); err != nil {
		return err
	}
	return s.store.DeleteCustomerInfo(session, location)
}

// Subtotal recomputes from live menu prices. Prices are only snapshotted at
// order submission; until then a menu edit changes what the customer sees.
// Lines whose menu item has disappeared are skipped.
func (s *Service) Subtotal(c *Cart) (float64, error) {
	var total float64
	for _, line := range c.Lines {
		item, err := s.catalog.Get(line.MenuItemID)
		if err != nil {
			if errors.Is(err, catalog.ErrItemNotFound) {
				utils.ErrorLogger.Printf("cart line references missing menu item %d, skipping", line.MenuItemID)
				continue
			}
			return 0, err
		}
		total += item.Price * float64(line.Quantity)
	}
	return total, nil
}

func (s *Service) CustomerInfo(session, location string) (*CustomerInfo, error) {
	return s.store.LoadCustomerInfo(session, location)
}

func (s *Service) SaveCustomerInfo(session, location string, info *CustomerInfo) error {
	return s.store.SaveCustomerInfo(session, location, info)
}

func (s *Service) save(session, location string, c *Cart) error {
	c.LocationID = location
	c.UpdatedAt = now()
	return s.store.SaveCart(session, location, c)
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
