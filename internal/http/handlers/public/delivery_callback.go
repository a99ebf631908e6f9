package public

import (
	"errors"
	"strings"

	"github.com/adminsolds/milktea-program-sub000/internal/constants"
	"github.com/adminsolds/milktea-program-sub000/internal/http/response"
	"github.com/adminsolds/milktea-program-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// DeliveryCallbackRequest 外卖平台配送状态回调
type DeliveryCallbackRequest struct {
	OrderNo string `json:"order_no" binding:"required"`
	Event   string `json:"event" binding:"required"`
	Remark  string `json:"remark"`
}

// DeliveryCallback 接收外卖平台的配送状态回调
// 只接受 delivering / delivered 两类事件，其余一律拒绝。
func (h *Handler) DeliveryCallback(c *gin.Context) {
	var req DeliveryCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	var targetStatus int
	switch strings.ToLower(strings.TrimSpace(req.Event)) {
	case "delivering":
		targetStatus = constants.OrderStatusDelivering
	case "delivered":
		targetStatus = constants.OrderStatusDelivered
	default:
		respondError(c, response.CodeBadRequest, "不支持的回调事件", nil)
		return
	}

	order, err := h.OrderService.GetOrderByOrderNo(strings.TrimSpace(req.OrderNo))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "订单不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "处理回调失败", err)
		return
	}
	if order.OrderType != constants.OrderTypeDelivery {
		respondError(c, response.CodeConflict, "非外卖订单不接受配送回调", nil)
		return
	}

	updated, err := h.OrderService.UpdateStatus(order.ID, targetStatus, req.Remark)
	if err != nil {
		if errors.Is(err, service.ErrOrderStatusInvalid) {
			respondError(c, response.CodeConflict, "订单状态不允许该流转", nil)
			return
		}
		respondError(c, response.CodeInternal, "处理回调失败", err)
		return
	}

	requestLog(c).Infow("delivery_callback",
		"order_no", updated.OrderNo,
		"event", req.Event,
		"status", updated.Status,
	)
	response.Success(c, updated)
}
