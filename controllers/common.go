package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"franchise-backoffice-api/config"
	"franchise-backoffice-api/services"
)

func getDB() *gorm.DB { return config.DB }

// respondServiceError maps the service error taxonomy to HTTP statuses.
// Unexpected errors are logged and surfaced as a generic failure.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, services.ErrDuplicatePayout):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
	}
}
