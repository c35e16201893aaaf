// Package tools exposes the research providers as a machine-facing tool API.
// Each endpoint is a thin, stateless wrapper: validate the request, call the
// provider, return its typed result verbatim.
package tools

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roofleads_backend/internal/providers/geocode"
	"roofleads_backend/internal/providers/opendata"
	"roofleads_backend/internal/providers/search"
	"roofleads_backend/internal/providers/skiptrace"
	"roofleads_backend/internal/providers/weather"
	"roofleads_backend/platform/httpkit"
	"roofleads_backend/platform/validator"
)

// Handler serves the tool endpoints.
type Handler struct {
	geocoder *geocode.Client
	weather  *weather.Client
	socrata  *opendata.Client
	bulk     *opendata.BulkSearcher
	tracer   *skiptrace.Service
	val      *validator.Validator

	defaultYearThreshold int
	defaultLeadCount     int
}

func NewHandler(
	geocoder *geocode.Client,
	weatherClient *weather.Client,
	socrata *opendata.Client,
	bulk *opendata.BulkSearcher,
	tracer *skiptrace.Service,
	val *validator.Validator,
	defaultYearThreshold, defaultLeadCount int,
) *Handler {
	return &Handler{
		geocoder:             geocoder,
		weather:              weatherClient,
		socrata:              socrata,
		bulk:                 bulk,
		tracer:               tracer,
		val:                  val,
		defaultYearThreshold: defaultYearThreshold,
		defaultLeadCount:     defaultLeadCount,
	}
}

type GeocodeRequest struct {
	Address string `json:"address" validate:"required,min=3"`
}

func (h *Handler) HandleGeocode(c *gin.Context) {
	var req GeocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	c.JSON(http.StatusOK, h.geocoder.Geocode(c.Request.Context(), req.Address))
}

type WeatherAlertsRequest struct {
	Area string `json:"area" validate:"required,min=2"`
}

func (h *Handler) HandleWeatherAlerts(c *gin.Context) {
	var req WeatherAlertsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	c.JSON(http.StatusOK, h.weather.ActiveAlerts(c.Request.Context(), req.Area))
}

type FindDatasetRequest struct {
	Jurisdiction string `json:"jurisdiction" validate:"required,min=2"`
	DatasetType  string `json:"dataset_type" validate:"required,oneof=building_permits assessor parcels"`
}

func (h *Handler) HandleFindDataset(c *gin.Context) {
	var req FindDatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	c.JSON(http.StatusOK, opendata.FindDataset(req.Jurisdiction, req.DatasetType))
}

type QueryDatasetRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Where    string `json:"where"`
	Order    string `json:"order"`
	Limit    int    `json:"limit" validate:"omitempty,min=1,max=1000"`
}

func (h *Handler) HandleQueryDataset(c *gin.Context) {
	var req QueryDatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	c.JSON(http.StatusOK, h.socrata.Query(c.Request.Context(), req.Endpoint, req.Where, req.Order, req.Limit))
}

func (h *Handler) HandleBulkProperties(c *gin.Context) {
	var req opendata.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.State == "" {
		req.State = "TX"
	}
	if req.YearBefore <= 0 {
		req.YearBefore = h.defaultYearThreshold
	}

	c.JSON(http.StatusOK, h.bulk.Search(c.Request.Context(), req))
}

func (h *Handler) HandleSkipTrace(c *gin.Context) {
	var req skiptrace.Address
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	c.JSON(http.StatusOK, h.tracer.Trace(c.Request.Context(), req))
}

type BatchSkipTraceRequest struct {
	Properties []skiptrace.Address `json:"properties" validate:"required,max=500,dive"`
}

func (h *Handler) HandleBatchSkipTrace(c *gin.Context) {
	var req BatchSkipTraceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	c.JSON(http.StatusOK, h.tracer.TraceBatch(c.Request.Context(), req.Properties))
}

type BusinessSearchRequest struct {
	Profession string `json:"profession" validate:"required,min=2"`
	City       string `json:"city" validate:"required,min=2"`
	State      string `json:"state" validate:"omitempty,us_state"`
	Count      int    `json:"count" validate:"omitempty,min=1,max=100"`
}

func (h *Handler) HandleBusinessSearch(c *gin.Context) {
	var req BusinessSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}
	if req.Count <= 0 {
		req.Count = h.defaultLeadCount
	}

	c.JSON(http.StatusOK, search.BuildPlan(req.Profession, req.City, req.State, req.Count))
}
