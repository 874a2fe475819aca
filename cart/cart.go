package cart

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kenylson23/lastortillas-backend/models"
)

// Line is one distinct (menu item, customization set) entry in a cart.
// Customizations are kept sorted so identity comparison is order-insensitive.
type Line struct {
	MenuItemID     uint     `json:"menu_item_id"`
	Quantity       int      `json:"quantity"`
	Customizations []string `json:"customizations"`
}

// Key identifies a line inside a cart. Two lines with the same menu item and
// the same customization set always collapse into one.
func (l Line) Key() string {
	return LineKey(l.MenuItemID, l.Customizations)
}

func LineKey(menuItemID uint, customizations []string) string {
	sorted := normalize(customizations)
	return strconv.FormatUint(uint64(menuItemID), 10) + "|" + strings.Join(sorted, ",")
}

func normalize(customizations []string) []string {
	out := make([]string, len(customizations))
	copy(out, customizations)
	sort.Strings(out)
	return out
}

// Cart is the unsubmitted order for one (session, location) pair. Carts for
// different locations never merge.
type Cart struct {
	LocationID string    `json:"location_id"`
	Lines      []Line    `json:"lines"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) find(key string) *Line {
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			return &c.Lines[i]
		}
	}
	return nil
}

func (c *Cart) remove(key string) {
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// CustomerInfo is collected alongside the cart and persisted with the same
// lifecycle. TableID is meaningful only for dine-in, DeliveryAddress only for
// delivery.
type CustomerInfo struct {
	Name            string               `json:"name"`
	Phone           string               `json:"phone"`
	Email           string               `json:"email,omitempty"`
	DeliveryAddress string               `json:"delivery_address,omitempty"`
	OrderType       models.OrderType     `json:"order_type"`
	PaymentMethod   models.PaymentMethod `json:"payment_method"`
	TableID         *uint                `json:"table_id,omitempty"`
	Notes           string               `json:"notes,omitempty"`
}
