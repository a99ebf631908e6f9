package public

import "github.com/adminsolds/milktea-program-sub000/internal/provider"

// Handler 小程序/POS 公开接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建公开接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
