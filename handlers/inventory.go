package handlers

import (
	"net/http"

	"diner-pos-server/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetLowStockItems(c *gin.Context) {
	items, err := h.Store.GetLowStockItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetInventoryBySKU(c *gin.Context) {
	item, err := h.Store.GetInventoryItemBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// AdjustInventory records a stock movement by the current employee.
func (h *Handler) AdjustInventory(c *gin.Context) {
	inventoryID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.AdjustInput
	if !bindJSON(c, &in) {
		return
	}
	in.InventoryID = inventoryID

	// managers without an employee profile may still adjust stock
	if emp, err := h.Store.GetEmployeeByUserID(c.Request.Context(), currentUserID(c)); err == nil {
		in.EmployeeID = &emp.ID
	}

	item, err := h.Inventory.Adjust(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
