package Controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kenylson23/lastortillas-backend/cart"
	"github.com/kenylson23/lastortillas-backend/catalog"
	"github.com/kenylson23/lastortillas-backend/config"
	"github.com/kenylson23/lastortillas-backend/controllers"
	"github.com/kenylson23/lastortillas-backend/models"
	"github.com/kenylson23/lastortillas-backend/services"
	"github.com/kenylson23/lastortillas-backend/utils"
)

func setupTestDBForOrders(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.Table{}, &models.MenuItem{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	db.Create(&models.MenuItem{
		Name: "Tacos al Pastor", Price: 1500, Category: "Tacos",
		PreparationTime: 15, Available: true,
	})
	return db
}

func setupOrderRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	cfg := config.Config{
		Locations:      []string{"ilha", "talatona"},
		DeliveryFee:    500,
		DeliveryBuffer: 30 * time.Minute,
	}
	reader := catalog.NewGormReader(db)
	carts := cart.NewService(cart.NewMemoryStore(), reader)
	tables := services.NewTableService(db)
	orders := services.NewOrderService(db, reader, tables, cfg)

	cartCtrl := controllers.NewCartController(carts)
	orderCtrl := controllers.NewOrderController(orders, carts)
	router.POST("/cart/items", cartCtrl.AddItem)
	router.POST("/orders", orderCtrl.CreateOrder)
	router.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	router.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
	router.GET("/kitchen/orders", orderCtrl.GetKitchenDisplay)
	return router
}

func takeawayPayload() map[string]interface{} {
	return map[string]interface{}{
		"customer": map[string]interface{}{
			"name":           "Kenylson",
			"phone":          "+244923000000",
			"order_type":     "takeaway",
			"payment_method": "cash",
		},
	}
}

func TestCreateOrderFromSessionCart(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t, "orders_http_create")
	router := setupOrderRouter(db)

	w := postJSON(t, router, "POST", "/cart/items?location=ilha", map[string]interface{}{"menu_item_id": 1}, "sess-1")
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, router, "POST", "/orders?location=ilha", takeawayPayload(), "sess-1")
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Order created", response["message"])

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "received", data["status"])
	assert.Equal(t, 1500.0, data["total_amount"])
	orderID := data["id"].(float64)

	// The session cart was consumed: a second submission has nothing to send.
	w = postJSON(t, router, "POST", "/orders?location=ilha", takeawayPayload(), "sess-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Public tracking works without a session.
	w = postJSON(t, router, "GET", fmt.Sprintf("/orders/%d", int(orderID)), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateOrderEmptyCartRejected(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t, "orders_http_empty")
	router := setupOrderRouter(db)

	w := postJSON(t, router, "POST", "/orders?location=ilha", takeawayPayload(), "sess-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderUnknownLocationRejected(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t, "orders_http_badloc")
	router := setupOrderRouter(db)

	w := postJSON(t, router, "POST", "/cart/items?location=benguela", map[string]interface{}{"menu_item_id": 1}, "sess-1")
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, router, "POST", "/orders?location=benguela", takeawayPayload(), "sess-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderDineInConflict(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t, "orders_http_conflict")
	router := setupOrderRouter(db)

	table := models.Table{TableNumber: 1, LocationID: "ilha", Seats: 4, Status: models.TableOccupied}
	assert.NoError(t, db.Create(&table).Error)

	w := postJSON(t, router, "POST", "/cart/items?location=ilha", map[string]interface{}{"menu_item_id": 1}, "sess-1")
	assert.Equal(t, http.StatusOK, w.Code)

	payload := takeawayPayload()
	customer := payload["customer"].(map[string]interface{})
	customer["order_type"] = "dine-in"
	customer["table_id"] = table.ID

	w = postJSON(t, router, "POST", "/orders?location=ilha", payload, "sess-1")
	assert.Equal(t, http.StatusConflict, w.Code)

	// The cart survives the failed submission.
	w = postJSON(t, router, "GET", "/orders/999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateOrderStatusOverHTTP(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t, "orders_http_status")
	router := setupOrderRouter(db)

	w := postJSON(t, router, "POST", "/cart/items?location=ilha", map[string]interface{}{"menu_item_id": 1}, "sess-1")
	assert.Equal(t, http.StatusOK, w.Code)
	w = postJSON(t, router, "POST", "/orders?location=ilha", takeawayPayload(), "sess-1")
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	orderID := int(response["data"].(map[string]interface{})["id"].(float64))

	url := fmt.Sprintf("/orders/%d/status", orderID)
	w = postJSON(t, router, "PATCH", url, map[string]string{"status": "preparing"}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	// Unknown statuses never reach the database.
	w = postJSON(t, router, "PATCH", url, map[string]string{"status": "burnt"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, router, "PATCH", url, map[string]string{"status": "delivered"}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	// Terminal orders are frozen.
	w = postJSON(t, router, "PATCH", url, map[string]string{"status": "preparing"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestKitchenDisplayOrdering(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t, "orders_http_kitchen")
	router := setupOrderRouter(db)

	for _, sess := range []string{"sess-1", "sess-2"} {
		w := postJSON(t, router, "POST", "/cart/items?location=ilha", map[string]interface{}{"menu_item_id": 1}, sess)
		assert.Equal(t, http.StatusOK, w.Code)
		w = postJSON(t, router, "POST", "/orders?location=ilha", takeawayPayload(), sess)
		assert.Equal(t, http.StatusCreated, w.Code)
	}

	w := postJSON(t, router, "GET", "/kitchen/orders?location=ilha", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].([]interface{})
	assert.Len(t, data, 2)

	// Oldest first.
	first := data[0].(map[string]interface{})["id"].(float64)
	second := data[1].(map[string]interface{})["id"].(float64)
	assert.Less(t, first, second)
}
