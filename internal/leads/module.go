// Package leads wires the lead pipeline into the HTTP server.
package leads

import (
	apphttp "roofleads_backend/internal/http"
	"roofleads_backend/internal/leads/handler"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

func NewModule(h *handler.Handler) *Module {
	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/leads")
	group.POST("/compile", m.handler.HandleCompile)
	group.POST("/export", m.handler.HandleExport)
}

var _ apphttp.Module = (*Module)(nil)
