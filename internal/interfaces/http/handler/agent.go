package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freelance-invoice-api/internal/interfaces/http/dto"
	"freelance-invoice-api/pkg/logger"
)

// AgentHandler 链上代理动作入口（尚未接入执行）
type AgentHandler struct{}

// NewAgentHandler 创建处理器
func NewAgentHandler() *AgentHandler {
	return &AgentHandler{}
}

// TriggerAgent 记录请求并原样回显
// @Summary 触发代理动作
// @Tags Agent
// @Accept json
// @Produce json
// @Param body body dto.TriggerAgentRequest true "动作"
// @Success 200 {object} dto.TriggerAgentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /trigger-agent [post]
func (h *AgentHandler) TriggerAgent(c *gin.Context) {
	var req dto.TriggerAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	logger.Info(c.Request.Context(), "agent action requested",
		"action", req.Action,
		"invoice_id", req.InvoiceID,
		"milestone_index", req.MilestoneIndex,
	)

	c.JSON(http.StatusOK, dto.TriggerAgentResponse{
		Message:        "AgentKit integration coming soon",
		Action:         req.Action,
		InvoiceID:      req.InvoiceID,
		MilestoneIndex: req.MilestoneIndex,
	})
}
