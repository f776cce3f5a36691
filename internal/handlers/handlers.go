package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Mzatilife/Bello/internal/errors"
	"github.com/Mzatilife/Bello/internal/service"
)

// Handlers holds all HTTP handlers for the service.
type Handlers struct {
	carts     *service.CartService
	checkout  *service.CheckoutService
	orders    *service.OrderService
	listings  *service.ListingService
	favorites *service.FavoriteService
	logger    *slog.Logger
}

func NewHandlers(
	carts *service.CartService,
	checkout *service.CheckoutService,
	orders *service.OrderService,
	listings *service.ListingService,
	favorites *service.FavoriteService,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		carts:     carts,
		checkout:  checkout,
		orders:    orders,
		listings:  listings,
		favorites: favorites,
		logger:    logger.With("component", "handlers"),
	}
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, apperrors.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, apperrors.ErrEmptyCart):
		c.JSON(http.StatusConflict, gin.H{"error": "cart has no purchasable items"})
	default:
		var validationErr *apperrors.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": validationErr.Message,
				"field": validationErr.Field,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
