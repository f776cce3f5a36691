package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mzatilife/Bello/internal/auth"
	"github.com/Mzatilife/Bello/internal/models"
)

// GetCart handles GET /api/v1/cart
func (h *Handlers) GetCart(c *gin.Context) {
	items, err := h.carts.GetCart(c.Request.Context(), auth.UserID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// GetCartSummary handles GET /api/v1/cart/summary
func (h *Handlers) GetCartSummary(c *gin.Context) {
	summary, err := h.carts.Summary(c.Request.Context(), auth.UserID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// AddToCart handles POST /api/v1/cart/items
func (h *Handlers) AddToCart(c *gin.Context) {
	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.carts.AddToCart(c.Request.Context(), auth.UserID(c), req.ListingID, req.Quantity)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateCartItem handles PATCH /api/v1/cart/items/:id
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	var req models.UpdateCartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.carts.UpdateQuantity(c.Request.Context(), auth.UserID(c), c.Param("id"), req.Quantity)
	if err != nil {
		handleError(c, err)
		return
	}

	if item == nil {
		// Zero or negative quantity removed the line.
		c.JSON(http.StatusOK, gin.H{"removed": true})
		return
	}
	c.JSON(http.StatusOK, item)
}

// RemoveCartItem handles DELETE /api/v1/cart/items/:id
func (h *Handlers) RemoveCartItem(c *gin.Context) {
	if err := h.carts.Remove(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearCart handles DELETE /api/v1/cart
func (h *Handlers) ClearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), auth.UserID(c)); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
