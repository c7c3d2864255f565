package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"franchise-backoffice-api/services"
)

func notificationService() *services.NotificationService {
	return services.NewNotificationService(getDB(), services.DefaultNotificationConfig())
}

// GetNotificationSummary returns pending/added/total counters for a role
// over the recent-booking window.
// GET /api/v1/notifications/:role/summary
func GetNotificationSummary(c *gin.Context) {
	role := strings.TrimSpace(c.Param("role"))

	summary, err := notificationService().GetSummary(role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}

// GetNotificationList returns one cursor page of a role feed.
// GET /api/v1/notifications/:role?status=&limit=&cursor=
func GetNotificationList(c *gin.Context) {
	role := strings.TrimSpace(c.Param("role"))
	status := strings.TrimSpace(c.Query("status"))

	limit := 0
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid limit"})
			return
		}
		limit = n
	}

	var cursor uint
	if v := strings.TrimSpace(c.Query("cursor")); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid cursor"})
			return
		}
		cursor = uint(n)
	}

	list, err := notificationService().GetList(role, status, limit, cursor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"items":       list.Items,
		"has_more":    list.HasMore,
		"next_cursor": list.NextCursor,
	})
}
