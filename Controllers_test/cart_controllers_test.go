package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kenylson23/lastortillas-backend/cart"
	"github.com/kenylson23/lastortillas-backend/catalog"
	"github.com/kenylson23/lastortillas-backend/controllers"
	"github.com/kenylson23/lastortillas-backend/models"
	"github.com/kenylson23/lastortillas-backend/utils"
)

func setupTestDBForCart(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.MenuItem{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	db.Create(&models.MenuItem{
		Name: "Tacos al Pastor", Price: 1500, Category: "Tacos",
		PreparationTime: 15, Available: true,
		CustomizationOptions: models.StringList{"Extra queijo", "Sem cebola"},
	})
	return db
}

func setupCartRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	carts := cart.NewService(cart.NewMemoryStore(), catalog.NewGormReader(db))
	cartCtrl := controllers.NewCartController(carts)
	router.GET("/cart", cartCtrl.GetCart)
	router.POST("/cart/items", cartCtrl.AddItem)
	router.PATCH("/cart/items", cartCtrl.UpdateItem)
	router.DELETE("/cart", cartCtrl.ClearCart)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, method, url string, payload interface{}, session string) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set(controllers.SessionHeader, session)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetCartMintsSessionKey(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCart(t, "cart_http_mint")
	router := setupCartRouter(db)

	w := postJSON(t, router, "GET", "/cart?location=ilha", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(controllers.SessionHeader))

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Cart", response["message"])
}

func TestGetCartRequiresLocation(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCart(t, "cart_http_loc")
	router := setupCartRouter(db)

	w := postJSON(t, router, "GET", "/cart", nil, "sess-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddItemAccumulatesAndReportsSubtotal(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCart(t, "cart_http_add")
	router := setupCartRouter(db)

	payload := map[string]interface{}{"menu_item_id": 1}
	w := postJSON(t, router, "POST", "/cart/items?location=ilha", payload, "sess-1")
	assert.Equal(t, http.StatusOK, w.Code)
	w = postJSON(t, router, "POST", "/cart/items?location=ilha", payload, "sess-1")
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, 3000.0, data["subtotal"])

	lines := data["lines"].([]interface{})
	assert.Len(t, lines, 1)
	assert.Equal(t, 2.0, lines[0].(map[string]interface{})["quantity"])
}

func TestAddItemRejectsUnknownCustomization(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCart(t, "cart_http_custom")
	router := setupCartRouter(db)

	payload := map[string]interface{}{
		"menu_item_id":   1,
		"customizations": []string{"Extra abacate"},
	}
	w := postJSON(t, router, "POST", "/cart/items?location=ilha", payload, "sess-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateItemQuantityZeroRemovesLine(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCart(t, "cart_http_update")
	router := setupCartRouter(db)

	w := postJSON(t, router, "POST", "/cart/items?location=ilha", map[string]interface{}{"menu_item_id": 1}, "sess-1")
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, router, "PATCH", "/cart/items?location=ilha", map[string]interface{}{"menu_item_id": 1, "quantity": 0}, "sess-1")
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, 0.0, data["subtotal"])
}

func TestSessionsAreIsolated(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCart(t, "cart_http_sessions")
	router := setupCartRouter(db)

	w := postJSON(t, router, "POST", "/cart/items?location=ilha", map[string]interface{}{"menu_item_id": 1}, "sess-a")
	assert.Equal(t, http.StatusOK, w.Code)

	// A different session sees an empty cart.
	w = postJSON(t, router, "GET", "/cart?location=ilha", nil, "sess-b")
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, 0.0, data["subtotal"])
}
