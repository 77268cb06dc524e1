// Package middleware 提供 HTTP 中间件
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"freelance-invoice-api/internal/interfaces/http/dto"
	apperrors "freelance-invoice-api/pkg/errors"
	"freelance-invoice-api/pkg/logger"
)

// Recovery Panic 恢复中间件
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					fmt.Errorf("%v", rec),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				// 已写出响应头时只能中断
				if !c.Writer.Written() {
					dto.ErrorWithDetails(c, http.StatusInternalServerError, "Internal server error", string(apperrors.CodeInternalError), "")
				}
				c.Abort()
			}
		}()

		c.Next()
	}
}
