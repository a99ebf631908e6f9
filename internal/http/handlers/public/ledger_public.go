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

// GetMemberProfile 会员信息（含余额、积分、等级）
func (h *Handler) GetMemberProfile(c *gin.Context) {
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

// ListMemberBalanceRecords 会员余额流水
func (h *Handler) ListMemberBalanceRecords(c *gin.Context) {
	memberID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || memberID == 0 {
		respondError(c, response.CodeBadRequest, "会员ID不合法", nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	records, total, err := h.LedgerService.ListRecords(repository.BalanceRecordListFilter{
		Page:     page,
		PageSize: pageSize,
		MemberID: uint(memberID),
		Kind:     strings.TrimSpace(c.Query("kind")),
	})
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
