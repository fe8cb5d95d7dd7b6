package api

import (
	"errors"
	"net/http"

	"newsbot/registry"

	"github.com/gin-gonic/gin"
)

// RegisterRegistryRoutes registers read-only registry inspection endpoints.
func RegisterRegistryRoutes(r *gin.Engine, store registry.Store) {
	g := r.Group("/api/registry")
	g.GET("/record", handleGetRecord(store))
}

// handleGetRecord looks up one candidate record by its canonical URL.
// GET /api/registry/record?url=...
func handleGetRecord(store registry.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		url := c.Query("url")
		if url == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter is required"})
			return
		}

		record, err := store.Get(c.Request.Context(), url)
		if errors.Is(err, registry.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no record for url"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, record)
	}
}
