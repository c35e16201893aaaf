// Package httpkit provides HTTP response and middleware utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"

	"roofleads_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error envelope for the tool API. Provider outcomes
// (geocode misses, unconfigured skip trace) are not errors and never use it;
// it covers the request surface itself: bad DTOs, unavailable features,
// failed deliveries.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// Error sends an error response with the given status code and message.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// HandleError maps a typed *apperr.Error to its HTTP status. Untyped errors
// fall back to 400 Bad Request. Returns true if an error was written.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if domainErr, ok := err.(*apperr.Error); ok {
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{
			Error:   domainErr.Message,
			Details: domainErr.Details,
		})
		return true
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	return true
}
