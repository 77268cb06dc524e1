package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domain "freelance-invoice-api/internal/domain/milestone"
	"freelance-invoice-api/internal/interfaces/http/dto"
	apperrors "freelance-invoice-api/pkg/errors"
	"freelance-invoice-api/pkg/logger"
)

// MilestoneGenerator 里程碑生成能力
type MilestoneGenerator interface {
	GenerateWithTimeout(ctx context.Context, timeout time.Duration, req domain.GenerationRequest) ([]domain.Milestone, error)
}

// MilestoneHandler AI 里程碑生成
type MilestoneHandler struct {
	generator MilestoneGenerator
	timeout   time.Duration
}

// NewMilestoneHandler timeout<=0 表示不额外施加时限
func NewMilestoneHandler(generator MilestoneGenerator, timeout time.Duration) *MilestoneHandler {
	return &MilestoneHandler{generator: generator, timeout: timeout}
}

// GenerateMilestones 生成里程碑
// @Summary 生成里程碑
// @Description 根据项目描述与 USDC 总额生成合计等于总额的里程碑
// @Tags Milestones
// @Accept json
// @Produce json
// @Param body body dto.GenerateMilestonesRequest true "生成请求"
// @Success 200 {object} dto.GenerateMilestonesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.GenerationErrorResponse
// @Failure 502 {object} dto.GenerationErrorResponse
// @Failure 504 {object} dto.GenerationErrorResponse
// @Router /generate-milestones [post]
func (h *MilestoneHandler) GenerateMilestones(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateMilestonesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.ProjectDescription) == "" || req.TotalAmount == nil {
		dto.BadRequest(c, "Missing projectDescription or totalAmount")
		return
	}

	milestones, err := h.generator.GenerateWithTimeout(ctx, h.timeout, req.ToDomain())
	if err != nil {
		writeGenerationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.GenerateMilestonesResponse{Milestones: dto.FromMilestones(milestones)})
}

func writeGenerationError(c *gin.Context, err error) {
	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) {
		logger.Error(c.Request.Context(), "unexpected milestone generation error", err)
		dto.InternalError(c, "Failed to generate milestones")
		return
	}

	if genErr.Kind == domain.KindInvalidInput {
		dto.BadRequest(c, genErr.Detail)
		return
	}

	status := apperrors.New(generationErrorCode(genErr.Kind), genErr.Detail).HTTPStatus

	resp := dto.NewGenerationErrorResponse(genErr)
	resp.TraceID = c.GetString("trace_id")
	c.JSON(status, resp)
}

// generationErrorCode 错误类别到错误码
func generationErrorCode(kind domain.ErrorKind) apperrors.ErrorCode {
	switch kind {
	case domain.KindInvalidInput:
		return apperrors.CodeInvalidParam
	case domain.KindMalformedResponse:
		return apperrors.CodeLLMResponseMalformed
	case domain.KindUnexpectedShape:
		return apperrors.CodeLLMResponseShape
	case domain.KindSumMismatch:
		return apperrors.CodeMilestoneSumMismatch
	case domain.KindUpstreamFailure:
		return apperrors.CodeLLMProviderError
	case domain.KindTimeout:
		return apperrors.CodeGatewayTimeout
	default:
		return apperrors.CodeGenerationFailed
	}
}
