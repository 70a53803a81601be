package handlers

import (
	"errors"
	"net/http"

	"assist_backend/internal/logger"
	"assist_backend/internal/service"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidRequestBody = errors.New("invalid request body")
	errInvalidTaskID      = errors.New("invalid task id")
)

type apiError struct {
	Code    int
	Message string
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

// writeError maps service errors onto HTTP statuses. Anything unrecognised is logged and hidden.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		abort(c, newBadRequestError(err.Error()))
	case errors.Is(err, service.ErrDuplicateEmail):
		abort(c, newAPIError(http.StatusConflict, err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrExpiredToken):
		abort(c, newAPIError(http.StatusUnauthorized, err.Error()))
	case errors.Is(err, service.ErrForbidden):
		abort(c, newAPIError(http.StatusForbidden, err.Error()))
	case errors.Is(err, service.ErrNotFound):
		abort(c, newAPIError(http.StatusNotFound, err.Error()))
	default:
		logger.WithContext(c.Request.Context()).Error("request failed", "path", c.FullPath(), "error", err)
		abort(c, newAPIError(http.StatusInternalServerError, "internal error"))
	}
}
