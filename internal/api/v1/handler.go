package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/Matt-Debate/Renee-Supplier-Data/internal/config"
)

// Handler V1 API 处理器
type Handler struct {
	cfg       *config.AppConfig
	downloads *downloadStore
}

// NewHandler 创建 V1 API 处理器
func NewHandler(cfg *config.AppConfig) *Handler {
	return &Handler{
		cfg:       cfg,
		downloads: newDownloadStore(),
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 配置管理
	router.GET("/config", h.GetConfig)
	router.PATCH("/config", h.UpdateConfig)

	// 转换（SSE 进度 + 一次性下载）
	router.POST("/transform", h.Transform)
	router.GET("/transform/download/:token", h.Download)
}
