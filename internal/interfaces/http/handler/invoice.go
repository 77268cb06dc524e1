package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freelance-invoice-api/internal/application/invoice"
	"freelance-invoice-api/internal/interfaces/http/dto"
	"freelance-invoice-api/pkg/logger"
)

// InvoicePreparer 将草稿编码为合约调用
type InvoicePreparer interface {
	Prepare(d invoice.Draft) (*invoice.CreateInvoiceCall, error)
}

// InvoiceHandler 发票草稿
type InvoiceHandler struct {
	preparer InvoicePreparer
}

// NewInvoiceHandler 创建处理器
func NewInvoiceHandler(preparer InvoicePreparer) *InvoiceHandler {
	return &InvoiceHandler{preparer: preparer}
}

// Draft 校验里程碑并返回 createInvoice 调用参数
// @Summary 发票草稿
// @Tags Invoices
// @Accept json
// @Produce json
// @Param body body dto.InvoiceDraftRequest true "草稿"
// @Success 200 {object} dto.InvoiceDraftResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /invoices/draft [post]
func (h *InvoiceHandler) Draft(c *gin.Context) {
	var req dto.InvoiceDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	call, err := h.preparer.Prepare(req.ToDraft())
	if err != nil {
		logger.Warn(c.Request.Context(), "invoice draft rejected", "error", err.Error())
		writeAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewInvoiceDraftResponse(call))
}
