package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mzatilife/Bello/internal/auth"
)

// ListFavorites handles GET /api/v1/favorites
func (h *Handlers) ListFavorites(c *gin.Context) {
	favorites, err := h.favorites.List(c.Request.Context(), auth.UserID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": favorites,
		"count":     len(favorites),
	})
}

// AddFavorite handles PUT /api/v1/favorites/:listing_id
func (h *Handlers) AddFavorite(c *gin.Context) {
	favorite, err := h.favorites.Add(c.Request.Context(), auth.UserID(c), c.Param("listing_id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, favorite)
}

// RemoveFavorite handles DELETE /api/v1/favorites/:listing_id
func (h *Handlers) RemoveFavorite(c *gin.Context) {
	if err := h.favorites.Remove(c.Request.Context(), auth.UserID(c), c.Param("listing_id")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CheckFavorite handles GET /api/v1/favorites/:listing_id
func (h *Handlers) CheckFavorite(c *gin.Context) {
	favorited, err := h.favorites.IsFavorited(c.Request.Context(), auth.UserID(c), c.Param("listing_id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorited": favorited})
}
