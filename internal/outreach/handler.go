package outreach

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apphttp "roofleads_backend/internal/http"
	"roofleads_backend/internal/leads/domain"
	"roofleads_backend/platform/apperr"
	"roofleads_backend/platform/httpkit"
	"roofleads_backend/platform/logger"
	"roofleads_backend/platform/validator"
)

// Handler serves message generation and optional SMTP delivery.
type Handler struct {
	sender *SMTPSender
	val    *validator.Validator
	log    *logger.Logger
}

// NewHandler creates the outreach handler. sender may be nil when SMTP is
// not configured; delivery then returns 503 while drafting keeps working.
func NewHandler(sender *SMTPSender, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{sender: sender, val: val, log: log}
}

type MessageRequest struct {
	LeadType string   `json:"lead_type" validate:"required,oneof=middleman storm homeowner"`
	Lead     LeadData `json:"lead"`
	Context  string   `json:"context"`
}

func (h *Handler) HandleGenerateMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	c.JSON(http.StatusOK, Generate(domain.LeadType(req.LeadType), req.Lead, req.Context))
}

type SendRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required,min=1,max=200"`
	Body    string `json:"body" validate:"required,min=1"`
}

func (h *Handler) HandleSend(c *gin.Context) {
	if h.sender == nil {
		httpkit.HandleError(c, apperr.Unavailable("outreach delivery not configured"))
		return
	}

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	if err := h.sender.Send(c.Request.Context(), req.To, req.Subject, req.Body); err != nil {
		h.log.Error("outreach send failed", "error", err)
		httpkit.HandleError(c, apperr.Upstream("delivery failed").WithDetails(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Module is the outreach bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

func NewModule(h *Handler) *Module {
	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "outreach"
}

// RegisterRoutes mounts outreach routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/outreach")
	group.POST("/message", m.handler.HandleGenerateMessage)
	group.POST("/send", m.handler.HandleSend)
}

var _ apphttp.Module = (*Module)(nil)
