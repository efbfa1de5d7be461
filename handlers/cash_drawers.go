package handlers

import (
	"net/http"

	"diner-pos-server/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (h *Handler) OpenCashDrawer(c *gin.Context) {
	var req struct {
		OpeningBalance decimal.Decimal `json:"openingBalance"`
	}
	if !bindJSON(c, &req) {
		return
	}
	emp, ok := h.currentEmployee(c)
	if !ok {
		return
	}

	drawer, err := h.Drawers.Open(c.Request.Context(), emp.ID, req.OpeningBalance)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, drawer)
}

// GetOpenCashDrawer answers null when the employee has no open drawer.
func (h *Handler) GetOpenCashDrawer(c *gin.Context) {
	emp, ok := h.currentEmployee(c)
	if !ok {
		return
	}
	drawer, err := h.Drawers.GetOpen(c.Request.Context(), emp.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, drawer)
}

func (h *Handler) CloseCashDrawer(c *gin.Context) {
	drawerID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		ClosingBalance decimal.Decimal `json:"closingBalance"`
		ExpectedTotal  decimal.Decimal `json:"expectedTotal"`
		Notes          *string         `json:"notes"`
	}
	if !bindJSON(c, &req) {
		return
	}

	in := services.CloseDrawerInput{
		DrawerID:       drawerID,
		AnyDrawer:      isManager(c),
		ClosingBalance: req.ClosingBalance,
		ExpectedTotal:  req.ExpectedTotal,
		Notes:          req.Notes,
	}
	if !in.AnyDrawer {
		emp, ok := h.currentEmployee(c)
		if !ok {
			return
		}
		in.EmployeeID = emp.ID
	}

	drawer, err := h.Drawers.Close(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, drawer)
}
