package api

import (
	"context"

	"newsbot/registry"
	"newsbot/selector"

	"github.com/gin-gonic/gin"
)

// RunFunc executes one selection cycle on demand.
type RunFunc func(ctx context.Context) (*selector.Result, error)

// Deps holds the collaborators the API routes need.
type Deps struct {
	Registry registry.Store
	Run      RunFunc
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	RegisterHealthRoutes(r)
	RegisterRegistryRoutes(r, deps.Registry)
	RegisterSelectorRoutes(r, deps.Run)
	return r
}
