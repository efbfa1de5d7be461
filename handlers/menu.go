package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetMenuCategories(c *gin.Context) {
	categories, err := h.Store.GetMenuCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) GetMenuItemsByCategory(c *gin.Context) {
	categoryID, ok := paramID(c, "id")
	if !ok {
		return
	}
	items, err := h.Store.GetMenuItemsByCategory(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetMenuItem returns an item with its modifier groups and their options.
func (h *Handler) GetMenuItem(c *gin.Context) {
	itemID, ok := paramID(c, "id")
	if !ok {
		return
	}
	item, err := h.Store.GetMenuItemWithModifiers(c.Request.Context(), itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) GetCombos(c *gin.Context) {
	combos, err := h.Store.GetCombos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, combos)
}

func (h *Handler) GetCombo(c *gin.Context) {
	comboID, ok := paramID(c, "id")
	if !ok {
		return
	}
	combo, err := h.Store.GetComboWithItems(c.Request.Context(), comboID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, combo)
}
