package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/adminsolds/milktea-program-sub000/internal/http/response"
	"github.com/adminsolds/milktea-program-sub000/internal/models"
	"github.com/adminsolds/milktea-program-sub000/internal/repository"
	"github.com/adminsolds/milktea-program-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminListBalanceRecords 管理端余额流水列表
func (h *Handler) AdminListBalanceRecords(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.BalanceRecordListFilter{
		Page:       page,
		PageSize:   pageSize,
		Kind:       strings.TrimSpace(c.Query("kind")),
		SourceType: strings.TrimSpace(c.Query("source_type")),
	}
	if raw := strings.TrimSpace(c.Query("member_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.MemberID = uint(parsed)
		}
	}
	if raw := strings.TrimSpace(c.Query("source_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.SourceID = uint(parsed)
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

	records, total, err := h.LedgerService.ListRecords(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "获取余额流水失败", err)
		return
	}

	response.SuccessWithPage(c, records, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// BalanceReplayResult 余额回放结果
type BalanceReplayResult struct {
	MemberID       uint         `json:"member_id"`
	StoredBalance  models.Money `json:"stored_balance"`
	ReplayedAmount models.Money `json:"replayed_amount"`
	Consistent     bool         `json:"consistent"`
}

// AdminReplayMemberBalance 按流水回放会员余额并与当前值比对
// 用于审计排障：两者不一致说明底账被绕过写入。
func (h *Handler) AdminReplayMemberBalance(c *gin.Context) {
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
		respondError(c, response.CodeInternal, "余额回放失败", err)
		return
	}

	replayed, err := h.LedgerService.ReplayBalance(uint(memberID))
	if err != nil {
		respondError(c, response.CodeInternal, "余额回放失败", err)
		return
	}

	result := BalanceReplayResult{
		MemberID:       uint(memberID),
		StoredBalance:  detail.Member.Balance,
		ReplayedAmount: replayed,
		Consistent:     detail.Member.Balance.Equal(replayed.Decimal),
	}
	if !result.Consistent {
		requestLog(c).Warnw("balance_replay_mismatch",
			"member_id", result.MemberID,
			"stored", result.StoredBalance,
			"replayed", result.ReplayedAmount,
		)
	}
	response.Success(c, result)
}
