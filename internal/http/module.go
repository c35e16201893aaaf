// Package http provides HTTP server infrastructure including the Module
// interface that all domain modules implement for route registration.
package http

import (
	"github.com/gin-gonic/gin"

	"roofleads_backend/platform/logger"
)

// Module represents a bounded context that can register its HTTP routes.
// Each module encapsulates its own route setup, keeping the router
// decoupled from specific endpoints.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes on the provided router group.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared dependencies for module route registration.
type RouterContext struct {
	// Engine is the root Gin engine for modules that need engine-level access.
	Engine *gin.Engine
	// V1 is the /api/v1 route group.
	V1 *gin.RouterGroup
	// Logger is the shared structured logger.
	Logger *logger.Logger
}

// App holds the fully initialized application dependencies. Populated by
// main.go, the composition root, and handed to the router.
type App struct {
	Env          string
	CORSAllowAll bool
	CORSOrigins  []string
	Logger       *logger.Logger
	Modules      []Module
}
