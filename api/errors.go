package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xraph/ezcoin"
)

// respondError maps engine errors to HTTP statuses.
func (s *Server) respondError(c *gin.Context, err error) {
	var insufficient *ezcoin.InsufficientBalanceError
	var perr *ezcoin.PaymentError

	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":     "insufficient balance",
			"required":  insufficient.Required,
			"available": insufficient.Available,
		})
	case errors.As(err, &perr):
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":  "payment failed",
			"method": perr.Method,
			"reason": perr.Reason,
		})
	case ezcoin.IsContractViolation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ezcoin.ErrStoreClosed), ezcoin.IsRetryable(err):
		s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable, try again"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": err.Error()})
	default:
		s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}
