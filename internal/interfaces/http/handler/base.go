// Package handler 提供 HTTP 请求处理器
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freelance-invoice-api/internal/interfaces/http/dto"
	apperrors "freelance-invoice-api/pkg/errors"
)

// writeAppError 按 AppError 的 HTTP 状态输出错误，其余错误视为 500
func writeAppError(c *gin.Context, err error) {
	if !apperrors.IsAppError(err) {
		dto.InternalError(c, "Internal server error")
		return
	}
	appErr := apperrors.AsAppError(err)
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	message := appErr.Message
	if appErr.Detail != "" {
		message = appErr.Detail
	}
	dto.ErrorWithDetails(c, status, message, string(appErr.Code), "")
}
