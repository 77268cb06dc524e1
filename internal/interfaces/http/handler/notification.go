package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"freelance-invoice-api/internal/application/notification"
	"freelance-invoice-api/internal/interfaces/http/dto"
)

// NotificationReceiver 通知接收
type NotificationReceiver interface {
	Receive(ctx context.Context, payload json.RawMessage) (*notification.Record, error)
}

// NotificationHandler mini app webhook
type NotificationHandler struct {
	receiver NotificationReceiver
}

// NewNotificationHandler 创建处理器
func NewNotificationHandler(receiver NotificationReceiver) *NotificationHandler {
	return &NotificationHandler{receiver: receiver}
}

// Receive 接收通知
// @Summary 接收 mini app 通知
// @Tags MiniApp
// @Accept json
// @Produce json
// @Success 200 {object} dto.NotificationResponse
// @Failure 400 {object} dto.NotificationResponse
// @Failure 500 {object} dto.NotificationResponse
// @Router /api/notification [post]
func (h *NotificationHandler) Receive(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || !dto.IsJSONObject(body) {
		c.JSON(http.StatusBadRequest, dto.NotificationResponse{
			Success: false,
			Error:   "notification body must be a JSON object",
		})
		return
	}

	rec, err := h.receiver.Receive(c.Request.Context(), json.RawMessage(body))
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NotificationResponse{
			Success: false,
			Error:   "Failed to process notification",
		})
		return
	}

	c.JSON(http.StatusOK, dto.NotificationResponse{
		Success: true,
		Message: "Notification processed successfully",
		ID:      rec.ID,
	})
}
