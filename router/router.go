package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kenylson23/lastortillas-backend/cart"
	"github.com/kenylson23/lastortillas-backend/catalog"
	"github.com/kenylson23/lastortillas-backend/config"
	"github.com/kenylson23/lastortillas-backend/controllers"
	"github.com/kenylson23/lastortillas-backend/middlewares"
	"github.com/kenylson23/lastortillas-backend/services"
)

// Deps collects everything the routes need. main builds one; tests build
// smaller ones.
type Deps struct {
	DB      *gorm.DB
	Cfg     config.Config
	Catalog catalog.Reader
	Carts   *cart.Service
	Tables  *services.TableService
	Orders  *services.OrderService
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(deps.DB)
	menuCtrl := controllers.NewMenuController(deps.Catalog)
	cartCtrl := controllers.NewCartController(deps.Carts)
	tableCtrl := controllers.NewTableController(deps.Tables)
	orderCtrl := controllers.NewOrderController(deps.Orders, deps.Carts)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	r.GET("/locations", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": true, "message": "Locations", "data": deps.Cfg.Locations})
	})

	// Menu
	r.GET("/menu-items", menuCtrl.GetMenuItems)
	r.GET("/menu-items/by-category", menuCtrl.GetMenuByCategory)

	// Tables (read-only for the "select a table" UI)
	r.GET("/tables", tableCtrl.GetTables)

	// Cart session (keyed by X-Session-Key + ?location=)
	r.GET("/cart", cartCtrl.GetCart)
	r.POST("/cart/items", cartCtrl.AddItem)
	r.PATCH("/cart/items", cartCtrl.UpdateItem)
	r.DELETE("/cart/items", cartCtrl.RemoveItem)
	r.DELETE("/cart", cartCtrl.ClearCart)
	r.DELETE("/cart/all", cartCtrl.ClearAll)
	r.GET("/cart/customer", cartCtrl.GetCustomerInfo)
	r.PUT("/cart/customer", cartCtrl.SaveCustomerInfo)

	// Orders
	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)

	// Push channel
	r.GET("/ws", controllers.WSHandler)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/profile", userCtrl.GetProfile)

		auth.GET("/orders", orderCtrl.GetAllOrders)
		auth.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
		auth.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)
		auth.GET("/analytics/orders", orderCtrl.GetOrderAnalytics)

		auth.POST("/tables", tableCtrl.CreateTable)
		auth.GET("/tables/:table_id", tableCtrl.GetTableByID)
		auth.PUT("/tables/:table_id", tableCtrl.UpdateTable)
		auth.PATCH("/tables/:table_id/status", tableCtrl.UpdateTableStatus)
		auth.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

		kitchen := auth.Group("/kitchen")
		kitchen.Use(middlewares.RequireRoles("kitchen"))
		{
			kitchen.GET("/orders", orderCtrl.GetKitchenDisplay)
		}
	}

	return r
}
