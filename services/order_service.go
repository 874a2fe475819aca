package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kenylson23/lastortillas-backend/cart"
	"github.com/kenylson23/lastortillas-backend/catalog"
	"github.com/kenylson23/lastortillas-backend/config"
	"github.com/kenylson23/lastortillas-backend/models"
	"github.com/kenylson23/lastortillas-backend/realtime"
	"github.com/kenylson23/lastortillas-backend/utils"
)

// OrderService composes submissions from a cart and owns the order status
// lifecycle afterwards.
type OrderService struct {
	DB      *gorm.DB
	Catalog catalog.Reader
	Tables  *TableService
	Cfg     config.Config
}

func NewOrderService(db *gorm.DB, reader catalog.Reader, tables *TableService, cfg config.Config) *OrderService {
	return &OrderService{DB: db, Catalog: reader, Tables: tables, Cfg: cfg}
}

// Compose validates the cart and customer info and builds an order with its
// item snapshots. Nothing is persisted; the caller submits the result.
func (svc *OrderService) Compose(c *cart.Cart, info *cart.CustomerInfo, location string) (*models.Order, error) {
	if !svc.Cfg.HasLocation(location) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocation, location)
	}
	if c == nil || c.Empty() {
		return nil, ErrEmptyCart
	}
	if info == nil {
		return nil, fmt.Errorf("%w: customer info is required", ErrValidation)
	}

	name := strings.TrimSpace(info.Name)
	phone := strings.TrimSpace(info.Phone)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if phone == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrValidation)
	}
	if !info.OrderType.Valid() {
		return nil, fmt.Errorf("%w: invalid order type %q", ErrValidation, info.OrderType)
	}
	if !info.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: invalid payment method %q", ErrValidation, info.PaymentMethod)
	}

	order := models.Order{
		CustomerName:  name,
		CustomerPhone: phone,
		OrderType:     info.OrderType,
		LocationID:    location,
		PaymentMethod: info.PaymentMethod,
		PaymentStatus: models.PaymentPending,
		Status:        models.OrderReceived,
	}
	if email := strings.TrimSpace(info.Email); email != "" {
		order.CustomerEmail = &email
	}
	if notes := strings.TrimSpace(info.Notes); notes != "" {
		order.Notes = &notes
	}

	switch info.OrderType {
	case models.OrderTypeDelivery:
		address := strings.TrimSpace(info.DeliveryAddress)
		if address == "" {
			return nil, fmt.Errorf("%w: delivery address is required for delivery orders", ErrValidation)
		}
		order.DeliveryAddress = &address
		order.DeliveryFee = svc.Cfg.DeliveryFee
	case models.OrderTypeDineIn:
		if info.TableID == nil {
			return nil, fmt.Errorf("%w: a table must be selected for dine-in orders", ErrValidation)
		}
		table, err := svc.Tables.Get(*info.TableID)
		if err != nil {
			return nil, err
		}
		if table.LocationID != location {
			return nil, fmt.Errorf("%w: table %d belongs to %s", ErrValidation, table.TableNumber, table.LocationID)
		}
		// Pre-check only; Submit re-checks with compare-and-swap.
		if table.Status != models.TableAvailable {
			return nil, ErrTableUnavailable
		}
		order.TableID = info.TableID
	}

	var subtotal float64
	var maxPrep int
	for _, line := range c.Lines {
		item, err := svc.Catalog.Get(line.MenuItemID)
		if err != nil {
			if errors.Is(err, catalog.ErrItemNotFound) {
				utils.ErrorLogger.Printf("order line references missing menu item %d, skipping", line.MenuItemID)
				continue
			}
			return nil, err
		}

		lineSubtotal := item.Price * float64(line.Quantity)
		subtotal += lineSubtotal
		if item.PreparationTime > maxPrep {
			maxPrep = item.PreparationTime
		}

		order.Items = append(order.Items, models.OrderItem{
			MenuItemID:     item.ID,
			Quantity:       line.Quantity,
			UnitPrice:      item.Price,
			Customizations: models.StringList(line.Customizations),
			Subtotal:       lineSubtotal,
		})
	}
	if len(order.Items) == 0 {
		return nil, ErrEmptyCart
	}

	prep := time.Duration(maxPrep) * time.Minute
	if info.OrderType == models.OrderTypeDelivery {
		prep += svc.Cfg.DeliveryBuffer
	}
	order.EstimatedReadyTime = time.Now().Add(prep)
	order.TotalAmount = subtotal + order.DeliveryFee

	return &order, nil
}

// Submit persists the composed order and its items in one transaction. For
// dine-in the table flip is part of the same transaction: either the order
// exists and the table is occupied, or neither happened. A repeated
// idempotency key returns the already-created order instead of a duplicate.
func (svc *OrderService) Submit(order *models.Order, idempotencyKey string) (*models.Order, error) {
	if idempotencyKey != "" {
		var existing models.Order
		err := svc.DB.Preload("Items").
			Where("idempotency_key = ?", idempotencyKey).
			First(&existing).Error
		if err == nil {
			utils.InfoLogger.Printf("Order submission replayed (key=%s), returning order #%d", idempotencyKey, existing.ID)
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		order.IdempotencyKey = &idempotencyKey
	}

	err := svc.DB.Transaction(func(tx *gorm.DB) error {
		if order.OrderType == models.OrderTypeDineIn && order.TableID != nil {
			if err := svc.Tables.Assign(tx, *order.TableID); err != nil {
				return err
			}
		}
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}

	realtime.BroadcastOrders(*order)
	if order.TableID != nil {
		if table, terr := svc.Tables.Get(*order.TableID); terr == nil {
			realtime.BroadcastTables(*table)
		}
	}

	utils.InfoLogger.Printf("Order #%d created (%s, %s, total=%s Kz)", order.ID, order.OrderType, order.LocationID, utils.FormatCurrency(order.TotalAmount))
	return order, nil
}

// UpdateStatus applies a status transition. Any target that differs from the
// current status is accepted (admins can move orders freely); the same
// status is an idempotent no-op; terminal orders are frozen. Entering a
// terminal status releases the order's table in the same transaction.
func (svc *OrderService) UpdateStatus(id uint, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid order status %q", ErrValidation, status)
	}

	order, err := svc.Get(id)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}
	if order.Status.Terminal() {
		return nil, fmt.Errorf("%w: order #%d is %s", ErrOrderFinalized, order.ID, order.Status)
	}

	released := false
	err = svc.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
		if res.Error != nil {
			return res.Error
		}
		if status.Terminal() && order.TableID != nil {
			if err := svc.Tables.Release(tx, *order.TableID); err != nil {
				return err
			}
			released = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = status
	realtime.BroadcastOrderStatus(*order)
	if released {
		if table, terr := svc.Tables.Get(*order.TableID); terr == nil {
			realtime.BroadcastTables(*table)
		}
	}

	utils.InfoLogger.Printf("Order #%d status changed to %s", order.ID, status)
	return order, nil
}

func (svc *OrderService) Get(id uint) (*models.Order, error) {
	var order models.Order
	if err := svc.DB.Preload("Items").Preload("Table").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// List supports the admin dashboard filters; empty values mean "all".
func (svc *OrderService) List(status models.OrderStatus, location string) ([]models.Order, error) {
	q := svc.DB.Preload("Items").Order("created_at desc")
	if status != "" {
		if !status.Valid() {
			return nil, fmt.Errorf("%w: invalid order status %q", ErrValidation, status)
		}
		q = q.Where("status = ?", status)
	}
	if location != "" {
		q = q.Where("location_id = ?", location)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// KitchenOrders feeds the kitchen display: everything still moving, oldest
// first.
func (svc *OrderService) KitchenOrders(location string) ([]models.Order, error) {
	q := svc.DB.Preload("Items").
		Where("status IN ?", []models.OrderStatus{models.OrderReceived, models.OrderPreparing, models.OrderReady}).
		Order("created_at asc")
	if location != "" {
		q = q.Where("location_id = ?", location)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (svc *OrderService) Delete(id uint) error {
	order, err := svc.Get(id)
	if err != nil {
		return err
	}

	err = svc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, id).Error
	})
	if err != nil {
		return err
	}

	realtime.BroadcastMessage(realtime.Message{
		Type: realtime.EventOrders,
		Data: map[string]interface{}{"deleted": order.ID, "location_id": order.LocationID},
	})
	return nil
}

// Analytics aggregates for the admin dashboard.
type Analytics struct {
	PopularItems  []PopularItem      `json:"popular_items"`
	StatusCounts  map[string]int64   `json:"status_counts"`
	RevenueByType map[string]float64 `json:"revenue_by_type"`
	PeakHours     map[int]int64      `json:"peak_hours"`
}

type PopularItem struct {
	MenuItemID uint    `json:"menu_item_id"`
	Name       string  `json:"name"`
	Count      int64   `json:"count"`
	Revenue    float64 `json:"revenue"`
}

func (svc *OrderService) GetAnalytics(location string) (*Analytics, error) {
	a := &Analytics{
		StatusCounts:  make(map[string]int64),
		RevenueByType: make(map[string]float64),
		PeakHours:     make(map[int]int64),
	}

	popularQuery := svc.DB.Table("order_items").
		Select("menu_items.id as menu_item_id, menu_items.name as name, SUM(order_items.quantity) as count, SUM(order_items.subtotal) as revenue").
		Joins("JOIN menu_items ON menu_items.id = order_items.menu_item_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Group("menu_items.id, menu_items.name").
		Order("count desc").
		Limit(10)
	if location != "" {
		popularQuery = popularQuery.Where("orders.location_id = ?", location)
	}
	if err := popularQuery.Scan(&a.PopularItems).Error; err != nil {
		return nil, err
	}

	type statusRow struct {
		Status string
		Count  int64
	}
	var statuses []statusRow
	statusQuery := svc.DB.Model(&models.Order{}).Select("status, COUNT(*) as count").Group("status")
	if location != "" {
		statusQuery = statusQuery.Where("location_id = ?", location)
	}
	if err := statusQuery.Scan(&statuses).Error; err != nil {
		return nil, err
	}
	for _, row := range statuses {
		a.StatusCounts[row.Status] = row.Count
	}

	type revenueRow struct {
		OrderType string
		Revenue   float64
	}
	var revenues []revenueRow
	revenueQuery := svc.DB.Model(&models.Order{}).
		Select("order_type, SUM(total_amount) as revenue").
		Where("status <> ?", models.OrderCancelled).
		Group("order_type")
	if location != "" {
		revenueQuery = revenueQuery.Where("location_id = ?", location)
	}
	if err := revenueQuery.Scan(&revenues).Error; err != nil {
		return nil, err
	}
	for _, row := range revenues {
		a.RevenueByType[row.OrderType] = row.Revenue
	}

	// Bucketed in Go; hour extraction in SQL is not portable across drivers.
	var createdAts []time.Time
	hoursQuery := svc.DB.Model(&models.Order{})
	if location != "" {
		hoursQuery = hoursQuery.Where("location_id = ?", location)
	}
	if err := hoursQuery.Pluck("created_at", &createdAts).Error; err != nil {
		return nil, err
	}
	for _, ts := range createdAts {
		a.PeakHours[ts.Hour()]++
	}

	return a, nil
}
