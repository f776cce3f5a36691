package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mzatilife/Bello/internal/auth"
	"github.com/Mzatilife/Bello/internal/models"
)

// Checkout handles POST /api/v1/checkout. It creates an order from the
// caller's cart in one shot; on success the cart is already cleared.
func (h *Handlers) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.checkout.CreateOrderFromCart(c.Request.Context(), auth.UserID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}
