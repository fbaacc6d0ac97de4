package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Edwardko2004/CS391-Project/internal/domain"
	"github.com/Edwardko2004/CS391-Project/internal/logger"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

var errorStatuses = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrNotAuthenticated, http.StatusUnauthorized, "not_authenticated"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
	{domain.ErrEventNotFound, http.StatusNotFound, "event_not_found"},
	{domain.ErrReservationNotFound, http.StatusNotFound, "reservation_not_found"},
	{domain.ErrEventClosed, http.StatusConflict, "event_closed"},
	{domain.ErrCapacityExceeded, http.StatusConflict, "capacity_exceeded"},
	{domain.ErrAlreadyReserved, http.StatusConflict, "already_reserved"},
	{domain.ErrInvalidEvent, http.StatusBadRequest, "invalid_event"},
	{domain.ErrStoreUnavailable, http.StatusServiceUnavailable, "store_unavailable"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
}

func abortWith(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

// writeError maps a service error onto the JSON error envelope. Server-side
// failures are logged and reported without their internal detail.
func writeError(c *gin.Context, err error) {
	for _, e := range errorStatuses {
		if !errors.Is(err, e.err) {
			continue
		}
		message := err.Error()
		if e.status >= http.StatusInternalServerError {
			logger.FromContext(c.Request.Context(), nil).Error("request failed", zap.Error(err))
			message = http.StatusText(e.status)
		}
		abortWith(c, e.status, e.code, message)
		return
	}

	logger.FromContext(c.Request.Context(), nil).Error("unexpected error", zap.Error(err))
	abortWith(c, http.StatusInternalServerError, "internal", http.StatusText(http.StatusInternalServerError))
}

func badRequest(c *gin.Context, message string) {
	abortWith(c, http.StatusBadRequest, "bad_request", message)
}
