package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSelectorRoutes registers the on-demand run trigger.
func RegisterSelectorRoutes(r *gin.Engine, run RunFunc) {
	r.POST("/api/selector/run", func(c *gin.Context) {
		if run == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "selector not configured"})
			return
		}

		result, err := run(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	})
}
