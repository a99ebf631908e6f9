package admin

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/adminsolds/milktea-program-sub000/internal/http/response"
	"github.com/adminsolds/milktea-program-sub000/internal/models"
	"github.com/adminsolds/milktea-program-sub000/internal/repository"
	"github.com/adminsolds/milktea-program-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminListOrders 管理端订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:      page,
		PageSize:  pageSize,
		OrderNo:   strings.TrimSpace(c.Query("order_no")),
		OrderType: strings.TrimSpace(c.Query("order_type")),
		Phone:     strings.TrimSpace(c.Query("phone")),
	}
	if raw := strings.TrimSpace(c.Query("member_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.MemberID = uint(parsed)
		}
	}
	if raw := strings.TrimSpace(c.Query("store_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.StoreID = uint(parsed)
		}
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			filter.Status = &parsed
		}
	}
	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "时间参数不合法", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "时间参数不合法", err)
		return
	}
	filter.CreatedFrom = createdFrom
	filter.CreatedTo = createdTo

	orders, total, err := h.OrderService.ListOrders(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "获取订单列表失败", err)
		return
	}

	response.SuccessWithPage(c, orders, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// AdminGetOrder 管理端订单详情
func (h *Handler) AdminGetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "订单ID不合法", nil)
		return
	}

	order, err := h.OrderService.GetOrder(uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "订单不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取订单失败", err)
		return
	}

	response.Success(c, order)
}

// UpdateOrderStatusRequest 订单状态更新请求
type UpdateOrderStatusRequest struct {
	Status *int   `json:"status" binding:"required"`
	Reason string `json:"reason"`
	Force  bool   `json:"force"`
}

// AdminUpdateOrderStatus 管理端更新订单状态
// force=true 时走管理员覆写路径，可从终态改回任意状态。
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "订单ID不合法", nil)
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	var order *models.Order
	if req.Force {
		order, err = h.OrderService.AdminOverrideStatus(uint(orderID), *req.Status, req.Reason)
	} else {
		order, err = h.OrderService.UpdateStatus(uint(orderID), *req.Status, req.Reason)
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "订单不存在", nil)
		case errors.Is(err, service.ErrOrderStatusInvalid):
			respondError(c, response.CodeConflict, "订单状态不允许该流转", nil)
		default:
			respondError(c, response.CodeInternal, "更新订单状态失败", err)
		}
		return
	}

	response.Success(c, order)
}

// RefundOrderRequest 退款请求
type RefundOrderRequest struct {
	Reason string `json:"reason"`
}

// AdminRefundOrder 管理端订单退款
func (h *Handler) AdminRefundOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "订单ID不合法", nil)
		return
	}

	var req RefundOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	receipt, err := h.RefundService.Refund(uint(orderID), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "订单不存在", nil)
		case errors.Is(err, service.ErrRefundNotAllowed):
			respondError(c, response.CodeConflict, "订单当前状态不允许退款", nil)
		default:
			respondError(c, response.CodeInternal, "退款失败", err)
		}
		return
	}

	requestLog(c).Infow("order_refunded",
		"order_id", receipt.OrderID,
		"order_no", receipt.OrderNo,
		"refund_amount", receipt.RefundAmount,
	)
	response.Success(c, receipt)
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed, nil
		}
	}
	return nil, errors.New("unsupported time format: " + raw)
}
