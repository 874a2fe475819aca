package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kenylson23/lastortillas-backend/cart"
	"github.com/kenylson23/lastortillas-backend/models"
	"github.com/kenylson23/lastortillas-backend/services"
	"github.com/kenylson23/lastortillas-backend/utils"
)

type OrderController struct {
	Orders *services.OrderService
	Carts  *cart.Service
}

func NewOrderController(orders *services.OrderService, carts *cart.Service) *OrderController {
	return &OrderController{Orders: orders, Carts: carts}
}

// CreateOrder -> submits the session's cart as an order. The cart is cleared
// only after the store confirms the write, so a failed submission leaves
// everything in place for a retry. An Idempotency-Key header makes that
// retry safe against duplicates.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	loc, ok := location(c)
	if !ok {
		return
	}
	session := sessionKey(c)

	var req struct {
		Customer *cart.CustomerInfo `json:"customer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	info := req.Customer
	if info != nil {
		// Keep the checkout form warm for a retry after failure.
		if err := oc.Carts.SaveCustomerInfo(session, loc, info); err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	} else {
		saved, err := oc.Carts.CustomerInfo(session, loc)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		info = saved
	}

	crt, err := oc.Carts.Get(session, loc)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	order, err := oc.Orders.Compose(crt, info, loc)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	order, err = oc.Orders.Submit(order, c.GetHeader("Idempotency-Key"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Confirmed success: drop the session's cart and customer info.
	if err := oc.Carts.ClearAll(session, loc); err != nil {
		utils.ErrorLogger.Printf("order #%d created but session cleanup failed: %v", order.ID, err)
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetAllOrders -> admin list, optionally filtered by status and location.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Orders.List(models.OrderStatus(c.Query("status")), c.Query("location"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID -> public order tracking.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.Get(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus -> moves an order through its lifecycle. Terminal
// statuses release the order's table as a side effect.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.UpdateStatus(uint(id), req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// DeleteOrder -> admin cleanup; removes the order together with its items.
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := oc.Orders.Delete(uint(id)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": id})
}

// GetKitchenDisplay -> active orders for the kitchen screen, oldest first.
func (oc *OrderController) GetKitchenDisplay(c *gin.Context) {
	orders, err := oc.Orders.KitchenOrders(c.Query("location"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen display orders", orders)
}

// GetOrderAnalytics -> admin dashboard aggregates.
func (oc *OrderController) GetOrderAnalytics(c *gin.Context) {
	role, _ := c.Get("role")
	if role != "admin" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	analytics, err := oc.Orders.GetAnalytics(c.Query("location"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order analytics", analytics)
}
