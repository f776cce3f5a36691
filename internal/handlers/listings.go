package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Mzatilife/Bello/internal/auth"
	"github.com/Mzatilife/Bello/internal/models"
)

// ListListings handles GET /api/v1/listings (public)
func (h *Handlers) ListListings(c *gin.Context) {
	filter := &models.ListingFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Limit:    20,
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = l
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = o
		}
	}

	listings, err := h.listings.ListActive(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"count":    len(listings),
	})
}

// GetListing handles GET /api/v1/listings/:id (public)
func (h *Handlers) GetListing(c *gin.Context) {
	listing, err := h.listings.GetListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// CreateListing handles POST /api/v1/listings
func (h *Handlers) CreateListing(c *gin.Context) {
	var req models.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	listing, err := h.listings.CreateListing(c.Request.Context(), auth.UserID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, listing)
}

// GetMyListings handles GET /api/v1/my/listings
func (h *Handlers) GetMyListings(c *gin.Context) {
	listings, err := h.listings.ListOwn(c.Request.Context(), auth.UserID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"count":    len(listings),
	})
}

// UpdateListing handles PATCH /api/v1/listings/:id
func (h *Handlers) UpdateListing(c *gin.Context) {
	var req models.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	listing, err := h.listings.UpdateListing(c.Request.Context(), auth.UserID(c), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// MarkListingSold handles POST /api/v1/listings/:id/sold
func (h *Handlers) MarkListingSold(c *gin.Context) {
	listing, err := h.listings.MarkSold(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// DeleteListing handles DELETE /api/v1/listings/:id
func (h *Handlers) DeleteListing(c *gin.Context) {
	if err := h.listings.DeleteListing(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
