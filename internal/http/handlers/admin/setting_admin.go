package admin

import (
	"strings"

	"github.com/adminsolds/milktea-program-sub000/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AdminGetSetting 获取系统配置
func (h *Handler) AdminGetSetting(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		respondError(c, response.CodeBadRequest, "配置键不合法", nil)
		return
	}

	value, err := h.SettingService.GetByKey(key)
	if err != nil {
		respondError(c, response.CodeInternal, "获取配置失败", err)
		return
	}
	if value == nil {
		respondError(c, response.CodeNotFound, "配置不存在", nil)
		return
	}

	response.Success(c, gin.H{"key": key, "value": value})
}

// AdminUpdateSetting 更新系统配置
func (h *Handler) AdminUpdateSetting(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		respondError(c, response.CodeBadRequest, "配置键不合法", nil)
		return
	}

	var value map[string]interface{}
	if err := c.ShouldBindJSON(&value); err != nil || len(value) == 0 {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	updated, err := h.SettingService.Update(key, value)
	if err != nil {
		respondError(c, response.CodeInternal, "更新配置失败", err)
		return
	}

	requestLog(c).Infow("setting_updated", "key", key)
	response.Success(c, gin.H{"key": key, "value": updated})
}
