package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/adminsolds/milktea-program-sub000/internal/constants"
	"github.com/adminsolds/milktea-program-sub000/internal/http/response"
	"github.com/adminsolds/milktea-program-sub000/internal/models"
	"github.com/adminsolds/milktea-program-sub000/internal/repository"
	"github.com/adminsolds/milktea-program-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminListMembers 管理端会员列表
func (h *Handler) AdminListMembers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.MemberListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		LevelID:  strings.TrimSpace(c.Query("level")),
	}
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			filter.IsActive = &parsed
		}
	}

	members, total, err := h.MemberService.ListMembers(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "获取会员列表失败", err)
		return
	}

	response.SuccessWithPage(c, members, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// AdminGetMember 管理端会员详情
func (h *Handler) AdminGetMember(c *gin.Context) {
	memberID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || memberID == 0 {
		respondError(c, response.CodeBadRequest, "会员ID不合法", nil)
		return
	}

	detail, err := h.MemberService.GetMember(uint(memberID))
	if err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			respondError(c, response.CodeNotFound, "会员不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取会员信息失败", err)
		return
	}

	response.Success(c, detail)
}

// RechargeRequest 会员储值请求
type RechargeRequest struct {
	Amount models.Money `json:"amount" binding:"required"`
	Bonus  models.Money `json:"bonus"`
	Remark string       `json:"remark"`
}

// AdminRechargeMember 管理端会员储值
func (h *Handler) AdminRechargeMember(c *gin.Context) {
	memberID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || memberID == 0 {
		respondError(c, response.CodeBadRequest, "会员ID不合法", nil)
		return
	}

	var req RechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	receipt, err := h.RechargeService.Recharge(service.RechargeInput{
		MemberID: uint(memberID),
		Amount:   req.Amount,
		Bonus:    req.Bonus,
		Remark:   req.Remark,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMemberNotFound):
			respondError(c, response.CodeNotFound, "会员不存在", nil)
		case errors.Is(err, service.ErrInvalidAmount):
			respondError(c, response.CodeBadRequest, "储值金额不合法", nil)
		default:
			respondError(c, response.CodeInternal, "储值失败", err)
		}
		return
	}

	requestLog(c).Infow("member_recharged",
		"member_id", receipt.MemberID,
		"amount", receipt.Amount,
		"bonus", receipt.Bonus,
		"new_balance", receipt.NewBalance,
	)
	response.Success(c, receipt)
}

// AdjustBalanceRequest 余额调整请求
type AdjustBalanceRequest struct {
	Amount models.Money `json:"amount" binding:"required"`
	Remark string       `json:"remark" binding:"required"`
}

// AdminAdjustBalance 管理端余额调整
// adjust 流水不受余额下限约束，可将余额调为负数。
func (h *Handler) AdminAdjustBalance(c *gin.Context) {
	memberID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || memberID == 0 {
		respondError(c, response.CodeBadRequest, "会员ID不合法", nil)
		return
	}

	var req AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	sourceID := adminID
	record, err := h.LedgerService.Append(service.LedgerAppendInput{
		MemberID:    uint(memberID),
		Kind:        constants.BalanceKindAdjust,
		Amount:      req.Amount,
		SourceType:  constants.BalanceSourceAdmin,
		SourceID:    &sourceID,
		Description: req.Remark,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMemberNotFound):
			respondError(c, response.CodeNotFound, "会员不存在", nil)
		case errors.Is(err, service.ErrInvalidAmount):
			respondError(c, response.CodeBadRequest, "调整金额不合法", nil)
		default:
			respondError(c, response.CodeInternal, "余额调整失败", err)
		}
		return
	}

	requestLog(c).Infow("member_balance_adjusted",
		"member_id", record.MemberID,
		"amount", record.Amount,
		"balance_after", record.BalanceAfter,
		"admin_id", adminID,
	)
	response.Success(c, record)
}

// SetGrowthRequest 成长值设置请求
type SetGrowthRequest struct {
	GrowthValue *int `json:"growth_value" binding:"required"`
}

// AdminSetMemberGrowth 管理端设置会员成长值
// 写入后立即按等级表重评等级，允许降级。
func (h *Handler) AdminSetMemberGrowth(c *gin.Context) {
	memberID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || memberID == 0 {
		respondError(c, response.CodeBadRequest, "会员ID不合法", nil)
		return
	}

	var req SetGrowthRequest
	if err := c.ShouldBindJSON(&req); err != nil || *req.GrowthValue < 0 {
		respondError(c, response.CodeBadRequest, "成长值不合法", err)
		return
	}

	member, err := h.MemberService.AdminSetGrowthValue(uint(memberID), *req.GrowthValue)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMemberNotFound):
			respondError(c, response.CodeNotFound, "会员不存在", nil)
		case errors.Is(err, service.ErrMemberLevelNotConfigured):
			respondError(c, response.CodeInternal, "会员等级未配置", err)
		default:
			respondError(c, response.CodeInternal, "设置成长值失败", err)
		}
		return
	}

	response.Success(c, member)
}
