package handlers

import (
	"net/http"

	"diner-pos-server/store"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetCustomerByPhone(c *gin.Context) {
	customer, err := h.Store.GetCustomerByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpsertCustomer creates or updates the customer keyed by phone.
func (h *Handler) UpsertCustomer(c *gin.Context) {
	var req struct {
		Phone     string `json:"phone"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
	}
	if !bindJSON(c, &req) {
		return
	}

	customer, err := h.Store.UpsertCustomer(c.Request.Context(), store.CustomerInput{
		Phone:     req.Phone,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}
