package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mzatilife/Bello/internal/auth"
)

// GetSellerPayments handles GET /api/v1/payments
func (h *Handlers) GetSellerPayments(c *gin.Context) {
	payments, err := h.orders.GetSellerPayments(c.Request.Context(), auth.UserID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"count":    len(payments),
	})
}

// ProcessSellerPayment handles POST /api/v1/payments/:id/process
func (h *Handlers) ProcessSellerPayment(c *gin.Context) {
	var req struct {
		Details json.RawMessage `json:"details"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	payment, err := h.orders.ProcessSellerPayment(c.Request.Context(), c.Param("id"), req.Details)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// CompleteSellerPayment handles POST /api/v1/payments/:id/complete
func (h *Handlers) CompleteSellerPayment(c *gin.Context) {
	payment, err := h.orders.CompleteSellerPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}
