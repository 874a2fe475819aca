package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kenylson23/lastortillas-backend/cart"
	"github.com/kenylson23/lastortillas-backend/utils"
)

// SessionHeader carries the client-generated session key. A new key is
// issued on the first mutation if the client didn't send one; the client is
// expected to echo it back on every later call.
const SessionHeader = "X-Session-Key"

type CartController struct {
	Carts *cart.Service
}

func NewCartController(carts *cart.Service) *CartController {
	return &CartController{Carts: carts}
}

// sessionKey returns the caller's session key, minting one when absent. The
// key is always echoed in the response header.
func sessionKey(c *gin.Context) string {
	key := c.GetHeader(SessionHeader)
	if key == "" {
		key = uuid.NewString()
	}
	c.Header(SessionHeader, key)
	return key
}

func location(c *gin.Context) (string, bool) {
	loc := c.Query("location")
	if loc == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("location query parameter is required"))
		return "", false
	}
	return loc, true
}

type cartView struct {
	*cart.Cart
	Subtotal float64 `json:"subtotal"`
}

func (cc *CartController) view(c *gin.Context, crt *cart.Cart) {
	subtotal, err := cc.Carts.Subtotal(crt)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart", cartView{Cart: crt, Subtotal: subtotal})
}

// GetCart -> current cart with its live subtotal.
func (cc *CartController) GetCart(c *gin.Context) {
	loc, ok := location(c)
	if !ok {
		return
	}
	crt, err := cc.Carts.Get(sessionKey(c), loc)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	cc.view(c, crt)
}

// AddItem -> adds one unit; an existing (item, customizations) line is
// incremented instead of duplicated.
func (cc *CartController) AddItem(c *gin.Context) {
	loc, ok := location(c)
	if !ok {
		return
	}

	var req struct {
		MenuItemID     uint     `json:"menu_item_id" binding:"required"`
		Customizations []string `json:"customizations"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	crt, err := cc.Carts.AddItem(sessionKey(c), loc, req.MenuItemID, req.Customizations)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	cc.view(c, crt)
}

// UpdateItem -> sets a line's quantity; zero or negative removes it.
func (cc *CartController) UpdateItem(c *gin.Context) {
	loc, ok := location(c)
	if !ok {
		return
	}

	var req struct {
		MenuItemID     uint     `json:"menu_item_id" binding:"required"`
		Customizations []string `json:"customizations"`
		Quantity       *int     `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	crt, err := cc.Carts.UpdateQuantity(sessionKey(c), loc, req.MenuItemID, req.Customizations, *req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	cc.view(c, crt)
}

// RemoveItem -> drops a line entirely, whatever its quantity.
func (cc *CartController) RemoveItem(c *gin.Context) {
	loc, ok := location(c)
	if !ok {
		return
	}

	var req struct {
		MenuItemID     uint     `json:"menu_item_id" binding:"required"`
		Customizations []string `json:"customizations"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	crt, err := cc.Carts.RemoveItem(sessionKey(c), loc, req.MenuItemID, req.Customizations)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	cc.view(c, crt)
}

// ClearCart -> empties the cart; saved customer info stays.
func (cc *CartController) ClearCart(c *gin.Context) {
	loc, ok := location(c)
	if !ok {
		return
	}
	if err := cc.Carts.Clear(sessionKey(c), loc); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart cleared", nil)
}

// ClearAll -> explicit reset of cart and customer info together.
func (cc *CartController) ClearAll(c *gin.Context) {
	loc, ok := location(c)
	if !ok {
		return
	}
	if err := cc.Carts.ClearAll(sessionKey(c), loc); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart and customer info cleared", nil)
}

// GetCustomerInfo -> previously saved checkout details, if any.
func (cc *CartController) GetCustomerInfo(c *gin.Context) {
	loc, ok := location(c)
	if !ok {
		return
	}
	info, err := cc.Carts.CustomerInfo(sessionKey(c), loc)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer info", info)
}

// SaveCustomerInfo -> persists checkout details so a reload keeps the form
// filled.
func (cc *CartController) SaveCustomerInfo(c *gin.Context) {
	loc, ok := location(c)
	if !ok {
		return
	}

	var info cart.CustomerInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := cc.Carts.SaveCustomerInfo(sessionKey(c), loc, &info); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer info saved", info)
}
