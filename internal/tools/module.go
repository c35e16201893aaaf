package tools

import (
	apphttp "roofleads_backend/internal/http"
)

// Module is the research tools bounded context implementing http.Module.
type Module struct {
	handler *Handler
}

func NewModule(handler *Handler) *Module {
	return &Module{handler: handler}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "tools"
}

// RegisterRoutes mounts tool routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/tools")
	group.POST("/geocode", m.handler.HandleGeocode)
	group.POST("/weather-alerts", m.handler.HandleWeatherAlerts)
	group.POST("/find-dataset", m.handler.HandleFindDataset)
	group.POST("/query-dataset", m.handler.HandleQueryDataset)
	group.POST("/bulk-properties", m.handler.HandleBulkProperties)
	group.POST("/skip-trace", m.handler.HandleSkipTrace)
	group.POST("/skip-trace/batch", m.handler.HandleBatchSkipTrace)
	group.POST("/business-search", m.handler.HandleBusinessSearch)
}

var _ apphttp.Module = (*Module)(nil)
