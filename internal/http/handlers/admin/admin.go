package admin

import (
	"errors"
	"time"

	"github.com/adminsolds/milktea-program-sub000/internal/http/response"
	"github.com/adminsolds/milktea-program-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string                 `json:"token"`
	User      map[string]interface{} `json:"user"`
	ExpiresAt string                 `json:"expires_at"`
}

// AdminLogin 管理员登录
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	admin, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordIncorrect):
			respondError(c, response.CodeUnauthorized, "账号或密码错误", nil)
		case errors.Is(err, service.ErrAdminDisabled):
			respondError(c, response.CodeForbidden, "账号已被禁用", nil)
		default:
			respondError(c, response.CodeInternal, "登录失败", err)
		}
		return
	}

	response.Success(c, LoginResponse{
		Token: token,
		User: map[string]interface{}{
			"id":       admin.ID,
			"username": admin.Username,
			"nickname": admin.Nickname,
		},
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// AdminProfile 当前登录管理员信息
func (h *Handler) AdminProfile(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	admin, err := h.AdminRepo.GetByID(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "获取管理员信息失败", err)
		return
	}
	if admin == nil {
		respondError(c, response.CodeNotFound, "管理员不存在", nil)
		return
	}

	response.Success(c, admin)
}

// UpdatePasswordRequest 修改密码请求
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// UpdateAdminPassword 修改管理员密码
func (h *Handler) UpdateAdminPassword(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	admin, err := h.AdminRepo.GetByID(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "修改密码失败", err)
		return
	}
	if admin == nil {
		respondError(c, response.CodeNotFound, "管理员不存在", nil)
		return
	}
	if err := h.AuthService.VerifyPassword(admin.PasswordHash, req.OldPassword); err != nil {
		respondError(c, response.CodeBadRequest, "原密码不正确", nil)
		return
	}

	hash, err := h.AuthService.HashPassword(req.NewPassword)
	if err != nil {
		respondError(c, response.CodeInternal, "修改密码失败", err)
		return
	}
	admin.PasswordHash = hash
	if err := h.AdminRepo.Update(admin); err != nil {
		respondError(c, response.CodeInternal, "修改密码失败", err)
		return
	}

	requestLog(c).Infow("admin_password_updated", "admin_id", adminID)
	response.SuccessWithMsg(c, "密码已更新", nil)
}
