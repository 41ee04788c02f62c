package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	schedulingRepo "turnero/database/repository/scheduling"
	"turnero/services/booking"
	"turnero/services/scheduling"
	"turnero/utils"
)

// respondError maps service errors onto HTTP status codes. Conflict
// responses carry the full conflict list so clients can render the
// suggested alternatives.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *scheduling.ValidationError
		scheduleErr   *scheduling.ScheduleValidationError
		conflictErr   *booking.ConflictError
		capacityErr   *booking.CapacityExceededError
		inactiveErr   *booking.ProviderInactiveError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &scheduleErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "schedule validation failed",
			"violations": scheduleErr.Violations,
		})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":     conflictErr.Error(),
			"conflicts": conflictErr.Result.Conflicts,
		})
	case errors.As(err, &capacityErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": capacityErr.Error()})
	case errors.As(err, &inactiveErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": inactiveErr.Error()})
	case errors.Is(err, schedulingRepo.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
	default:
		utils.GetLogger().Error("Unhandled service error",
			zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
