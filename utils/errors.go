package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard failure shape: a detail message the
// frontend can render directly.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// RespondWithError sends a standardized error response
func RespondWithError(c *gin.Context, statusCode int, detail string) {
	c.JSON(statusCode, ErrorResponse{Detail: detail})
}

// RespondWithBadRequest sends a 400 Bad Request error
func RespondWithBadRequest(c *gin.Context, detail string) {
	RespondWithError(c, http.StatusBadRequest, detail)
}

// RespondWithInternalError sends a 500 Internal Server Error
func RespondWithInternalError(c *gin.Context, detail string) {
	RespondWithError(c, http.StatusInternalServerError, detail)
}
