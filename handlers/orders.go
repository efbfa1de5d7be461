package handlers

import (
	"net/http"

	"diner-pos-server/apperrors"
	"diner-pos-server/services"

	"github.com/gin-gonic/gin"
)

// optionalEmployeeID returns the current user's employee id, or nil for
// staff without an employee profile.
func (h *Handler) optionalEmployeeID(c *gin.Context) (*int64, error) {
	emp, err := h.Store.GetEmployeeByUserID(c.Request.Context(), currentUserID(c))
	if apperrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emp.ID, nil
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var in services.CreateOrderInput
	if !bindJSON(c, &in) {
		return
	}

	employeeID, err := h.optionalEmployeeID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	in.EmployeeID = employeeID

	order, err := h.Orders.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"orderId":     order.ID,
		"orderNumber": order.OrderNumber,
		"subtotal":    order.Subtotal.StringFixed(2),
		"tax":         order.Tax.StringFixed(2),
		"discount":    order.Discount.StringFixed(2),
		"total":       order.Total.StringFixed(2),
	})
}

func (h *Handler) GetOrder(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := h.Orders.Get(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) GetActiveOrders(c *gin.Context) {
	orders, err := h.Orders.Active(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.Orders.UpdateStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) RecordPayment(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.RecordPaymentInput
	if !bindJSON(c, &in) {
		return
	}
	in.OrderID = orderID

	employeeID, err := h.optionalEmployeeID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	in.EmployeeID = employeeID

	payment, err := h.Payments.Record(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *Handler) ListPayments(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	payments, err := h.Payments.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *Handler) GenerateReceipt(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	receipt, err := h.Receipts.Generate(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}
