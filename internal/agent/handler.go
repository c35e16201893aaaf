package agent

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apphttp "roofleads_backend/internal/http"
	"roofleads_backend/platform/apperr"
	"roofleads_backend/platform/httpkit"
	"roofleads_backend/platform/validator"
)

// Handler serves agent queries.
type Handler struct {
	researcher *Researcher
	val        *validator.Validator
}

func NewHandler(researcher *Researcher, val *validator.Validator) *Handler {
	return &Handler{researcher: researcher, val: val}
}

type AskRequest struct {
	Query string `json:"query" validate:"required,min=3,max=4000"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

func (h *Handler) HandleAsk(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	answer, err := h.researcher.Ask(c.Request.Context(), req.Query)
	if err != nil {
		httpkit.HandleError(c, apperr.Upstream("agent run failed").WithDetails(err.Error()))
		return
	}

	c.JSON(http.StatusOK, AskResponse{Answer: answer})
}

// Module is the agent bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

func NewModule(h *Handler) *Module {
	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "agent"
}

// RegisterRoutes mounts agent routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/agent")
	group.POST("/ask", m.handler.HandleAsk)
}

var _ apphttp.Module = (*Module)(nil)
