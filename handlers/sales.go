package handlers

import (
	"net/http"
	"strconv"

	"diner-pos-server/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetDailySales answers null when the day has no totals yet.
func (h *Handler) GetDailySales(c *gin.Context) {
	day, err := h.Sales.ParseDay(c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	daily, err := h.Sales.GetDaily(c.Request.Context(), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, daily)
}

func (h *Handler) UpdateDailySales(c *gin.Context) {
	var req struct {
		Date                string          `json:"date"`
		TotalOrders         int             `json:"totalOrders"`
		TotalRevenue        decimal.Decimal `json:"totalRevenue"`
		TotalTax            decimal.Decimal `json:"totalTax"`
		TotalDiscount       decimal.Decimal `json:"totalDiscount"`
		CashSales           decimal.Decimal `json:"cashSales"`
		CardSales           decimal.Decimal `json:"cardSales"`
		LoyaltyPointsIssued decimal.Decimal `json:"loyaltyPointsIssued"`
	}
	if !bindJSON(c, &req) {
		return
	}
	day, err := h.Sales.ParseDay(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	daily, err := h.Sales.UpdateDaily(c.Request.Context(), &models.DailySales{
		SalesDate:           day,
		TotalOrders:         req.TotalOrders,
		TotalRevenue:        req.TotalRevenue,
		TotalTax:            req.TotalTax,
		TotalDiscount:       req.TotalDiscount,
		CashSales:           req.CashSales,
		CardSales:           req.CardSales,
		LoyaltyPointsIssued: req.LoyaltyPointsIssued,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, daily)
}

func (h *Handler) RecordTopItem(c *gin.Context) {
	var req struct {
		Date       string          `json:"date"`
		MenuItemID *int64          `json:"menuItemId"`
		ComboID    *int64          `json:"comboId"`
		Quantity   int             `json:"quantity"`
		Revenue    decimal.Decimal `json:"revenue"`
	}
	if !bindJSON(c, &req) {
		return
	}
	day, err := h.Sales.ParseDay(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	item, err := h.Sales.RecordTopItem(c.Request.Context(), &models.TopItem{
		SalesDate:  day,
		MenuItemID: req.MenuItemID,
		ComboID:    req.ComboID,
		Quantity:   req.Quantity,
		Revenue:    req.Revenue,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) GetTopItems(c *gin.Context) {
	day, err := h.Sales.ParseDay(c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
	}

	items, err := h.Sales.TopItems(c.Request.Context(), day, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// RollupSales recomputes a day's totals from orders and payments.
func (h *Handler) RollupSales(c *gin.Context) {
	day, err := h.Sales.ParseDay(c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	daily, err := h.Sales.Rollup(c.Request.Context(), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, daily)
}
