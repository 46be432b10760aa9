package handler

import (
	"errors"
	"log"
	"net/http"

	"rossx/internal/domain"

	"github.com/gin-gonic/gin"
)

// respondError maps ledger error kinds onto HTTP statuses. Validation errors
// are expected outcomes and go back as-is for display; integrity violations
// are logged loudly and masked from the caller.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrIntegrity):
		log.Printf("[ledger] INTEGRITY VIOLATION: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal ledger error"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAlreadyResolved):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrNotMatured):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrWithdrawalLocked):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		log.Printf("[handler] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
