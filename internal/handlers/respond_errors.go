package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/addisledger/gl_backend/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the HTTP surface:
//
//	ValidationFailedError   -> 400 with the full problem list
//	PostingLockedError      -> 423 with a Retry-After header
//	IdempotencyConflictError-> 409 with the previously stored response
//	IllegalTransitionError  -> 409
//	ErrNotFound             -> 404
//	ErrForbidden            -> 403
//	anything else           -> 500 with a generic message
func respondError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	var validationErr *apperrors.ValidationFailedError
	if errors.As(err, &validationErr) {
		logger.Warn("Validation failed", slog.Int("problem_count", len(validationErr.Problems)))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "validation failed",
			"problems": validationErr.Problems,
		})
		return
	}

	var lockedErr *apperrors.PostingLockedError
	if errors.As(err, &lockedErr) {
		logger.Warn("Resource locked",
			slog.String("resource", lockedErr.Resource),
			slog.String("resource_id", lockedErr.ResourceID))
		c.Header("Retry-After", fmt.Sprintf("%d", int(lockedErr.RetryAfter.Seconds())))
		c.JSON(http.StatusLocked, gin.H{"error": lockedErr.Error()})
		return
	}

	var idemErr *apperrors.IdempotencyConflictError
	if errors.As(err, &idemErr) {
		logger.Warn("Idempotency conflict", slog.String("idempotency_key", idemErr.Key))
		resp := gin.H{"error": idemErr.Error()}
		if len(idemErr.StoredResponse) > 0 {
			resp["storedResponse"] = idemErr.StoredResponse
		}
		c.JSON(http.StatusConflict, resp)
		return
	}

	var transitionErr *apperrors.IllegalTransitionError
	if errors.As(err, &transitionErr) {
		logger.Warn("Illegal transition",
			slog.String("operation", transitionErr.Operation),
			slog.String("current_status", transitionErr.CurrentStatus))
		c.JSON(http.StatusConflict, gin.H{
			"error":         transitionErr.Reason,
			"currentStatus": transitionErr.CurrentStatus,
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}
