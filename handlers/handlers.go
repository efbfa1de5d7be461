// Package handlers exposes the POS procedures over HTTP with gin.
package handlers

import (
	"log"
	"net/http"

	"diner-pos-server/models"
	"diner-pos-server/services"
	"diner-pos-server/store"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the handlers share. Store is used directly for
// plain lookups; everything with rules goes through a service.
type Deps struct {
	Store     *store.Store
	Orders    *services.OrderService
	Payments  *services.PaymentService
	Receipts  *services.ReceiptService
	Drawers   *services.DrawerService
	Shifts    *services.ShiftService
	Inventory *services.InventoryService
	Sales     *services.SalesService
	JWTSecret string
}

type Handler struct {
	Deps
}

func New(d Deps) *Handler {
	return &Handler{Deps: d}
}

// RegisterRoutes mounts /health and the /api/v1 procedures on router.
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.Health)

	api := router.Group("/api/v1")
	api.POST("/auth/login", h.Login)

	staff := api.Group("")
	staff.Use(AuthMiddleware(h.JWTSecret), h.RequireRoles(models.StaffRoles...))
	managers := h.RequireRoles(models.RoleAdmin, models.RoleManager)

	menu := staff.Group("/menu")
	{
		menu.GET("/categories", h.GetMenuCategories)
		menu.GET("/categories/:id/items", h.GetMenuItemsByCategory)
		menu.GET("/items/:id", h.GetMenuItem)
		menu.GET("/combos", h.GetCombos)
		menu.GET("/combos/:id", h.GetCombo)
	}

	inventory := staff.Group("/inventory")
	{
		inventory.GET("/low-stock", h.GetLowStockItems)
		inventory.GET("/sku/:sku", h.GetInventoryBySKU)
		inventory.POST("/:id/adjust", managers, h.AdjustInventory)
	}

	customers := staff.Group("/customers")
	{
		customers.GET("/phone/:phone", h.GetCustomerByPhone)
		customers.POST("", h.UpsertCustomer)
	}

	orders := staff.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("/active", h.GetActiveOrders)
		orders.GET("/:id", h.GetOrder)
		orders.PUT("/:id/status", h.UpdateOrderStatus)
		orders.POST("/:id/payments", h.RecordPayment)
		orders.GET("/:id/payments", h.ListPayments)
		orders.POST("/:id/receipt", h.GenerateReceipt)
	}

	tables := staff.Group("/tables")
	{
		tables.GET("/available", h.GetAvailableTables)
		tables.PUT("/:id/status", h.UpdateTableStatus)
	}

	employees := staff.Group("/employees")
	{
		employees.GET("/me", h.GetCurrentEmployee)
		employees.GET("/user/:userId", managers, h.GetEmployeeByUserID)
	}

	shifts := staff.Group("/shifts")
	{
		shifts.POST("/start", h.StartShift)
		shifts.POST("/:id/end", h.EndShift)
	}

	drawers := staff.Group("/cash-drawers")
	{
		drawers.POST("/open", h.OpenCashDrawer)
		drawers.GET("/open", h.GetOpenCashDrawer)
		drawers.POST("/:id/close", h.CloseCashDrawer)
	}

	sales := staff.Group("/sales")
	{
		sales.GET("/daily", h.GetDailySales)
		sales.PUT("/daily", h.UpdateDailySales)
		sales.GET("/top-items", h.GetTopItems)
		sales.POST("/top-items", h.RecordTopItem)
		sales.POST("/rollup", managers, h.RollupSales)
	}
}

// Health pings the store.
func (h *Handler) Health(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		log.Printf("Health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
