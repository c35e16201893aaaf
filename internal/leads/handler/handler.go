// Package handler exposes the lead pipeline over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roofleads_backend/internal/leads/service"
	"roofleads_backend/internal/leads/transport"
	"roofleads_backend/platform/httpkit"
	"roofleads_backend/platform/validator"
)

// Handler serves lead compilation and export.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) HandleCompile(c *gin.Context) {
	var req transport.CompileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	c.JSON(http.StatusOK, h.svc.Compile(c.Request.Context(), req))
}

func (h *Handler) HandleExport(c *gin.Context) {
	var req transport.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	c.JSON(http.StatusOK, h.svc.Export(c.Request.Context(), req))
}
