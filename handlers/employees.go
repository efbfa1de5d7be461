package handlers

import (
	"net/http"

	"diner-pos-server/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetCurrentEmployee(c *gin.Context) {
	emp, ok := h.currentEmployee(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, emp)
}

func (h *Handler) GetEmployeeByUserID(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	emp, err := h.Store.GetEmployeeByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emp)
}

func (h *Handler) StartShift(c *gin.Context) {
	emp, ok := h.currentEmployee(c)
	if !ok {
		return
	}
	shift, err := h.Shifts.Start(c.Request.Context(), emp.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shift)
}

func (h *Handler) EndShift(c *gin.Context) {
	shiftID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		BreakMinutes int `json:"breakMinutes"`
	}
	if !bindJSON(c, &req) {
		return
	}

	in := services.EndShiftInput{
		ShiftID:      shiftID,
		AnyShift:     isManager(c),
		BreakMinutes: req.BreakMinutes,
	}
	if !in.AnyShift {
		emp, ok := h.currentEmployee(c)
		if !ok {
			return
		}
		in.EmployeeID = emp.ID
	}

	shift, err := h.Shifts.End(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shift)
}
