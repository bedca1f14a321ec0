package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sahanw/travelbooking/internal/domain"
)

// RegisterValidators wires the domain enums into gin's binding engine.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("resourcekind", func(fl validator.FieldLevel) bool {
		return domain.ResourceKind(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("agecategory", func(fl validator.FieldLevel) bool {
		return domain.AgeCategory(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("bookingstatus", func(fl validator.FieldLevel) bool {
		s := domain.BookingStatus(fl.Field().String())
		return s == domain.BookingStatusPending || s == domain.BookingStatusConfirmed ||
			s == domain.BookingStatusCompleted || s == domain.BookingStatusCancelled
	})
}

// writeError maps domain errors onto HTTP status codes. Storage faults come
// through as a generic 500 so nothing internal leaks to callers.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotEnoughCapacity),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrResourceInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
