package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atelierhq/sheetwork/internal/models"
)

// respondError maps domain sentinels to HTTP statuses in one place.
// Anything unrecognized is an infrastructure failure: logged with its
// real cause, reported to the client as a bare 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidValue),
		errors.Is(err, models.ErrInvalidReply),
		errors.Is(err, models.ErrMarkerMismatch),
		errors.Is(err, models.ErrMismatchedOwnership):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrDuplicateInvitation),
		errors.Is(err, models.ErrDuplicateMembership),
		errors.Is(err, models.ErrDuplicatePartnership):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// pathUUID parses a :param path segment as a UUID, answering 400 itself
// on garbage. The bool tells the handler whether to continue.
func pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return uuid.Nil, false
	}
	return id, true
}

// bodyUUID parses a UUID string that arrived in a JSON body.
func bodyUUID(c *gin.Context, raw, field string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + field})
		return uuid.Nil, false
	}
	return id, true
}
