package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/adminsolds/milktea-program-sub000/internal/http/response"
	"github.com/adminsolds/milktea-program-sub000/internal/repository"
	"github.com/adminsolds/milktea-program-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrder 下单
func (h *Handler) CreateOrder(c *gin.Context) {
	var input service.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	order, err := h.OrderService.CreateOrder(input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, response.CodeBadRequest, "请求参数不合法", nil)
		case errors.Is(err, service.ErrMemberNotFound):
			respondError(c, response.CodeNotFound, "会员不存在", nil)
		case errors.Is(err, service.ErrMemberInactive):
			respondError(c, response.CodeForbidden, "会员已被禁用", nil)
		case errors.Is(err, service.ErrCouponNotFound):
			respondError(c, response.CodeNotFound, "优惠券不存在", nil)
		case errors.Is(err, service.ErrCouponNotUsable):
			respondError(c, response.CodeBadRequest, "优惠券不可用", nil)
		case errors.Is(err, service.ErrCouponNotMatched):
			respondError(c, response.CodeBadRequest, "优惠券不适用于本单", nil)
		case errors.Is(err, service.ErrCouponMinNotReach):
			respondError(c, response.CodeBadRequest, "未达到优惠券使用门槛", nil)
		case errors.Is(err, service.ErrInsufficientBalance):
			respondError(c, response.CodeInsufficientBalance, "余额不足", nil)
		default:
			respondError(c, response.CodeInternal, "下单失败", err)
		}
		return
	}

	response.Success(c, order)
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
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

// GetOrderByNo 按订单号查询订单
func (h *Handler) GetOrderByNo(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "订单号不合法", nil)
		return
	}

	order, err := h.OrderService.GetOrderByOrderNo(orderNo)
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

// ListOrders 订单列表（按会员或手机号查询）
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var memberID uint
	if raw := strings.TrimSpace(c.Query("member_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			memberID = uint(parsed)
		}
	}
	phone := strings.TrimSpace(c.Query("phone"))
	if memberID == 0 && phone == "" {
		respondError(c, response.CodeBadRequest, "需指定会员ID或手机号", nil)
		return
	}

	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		MemberID: memberID,
		Phone:    phone,
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			filter.Status = &parsed
		}
	}

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
