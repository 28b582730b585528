package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Matt-Debate/Renee-Supplier-Data/internal/config"
)

// GetConfig 查询转换默认选项
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"templatePath":    h.cfg.Transform.TemplatePath,
		"defectExclusion": h.cfg.Transform.DefectExclusion,
		"filldown":        h.cfg.Transform.Filldown,
		"diffReport":      h.cfg.Transform.DiffReport,
	})
}

// UpdateConfigRequest 配置更新请求（缺省字段不改）
type UpdateConfigRequest struct {
	TemplatePath    *string `json:"templatePath"`
	DefectExclusion *bool   `json:"defectExclusion"`
	Filldown        *bool   `json:"filldown"`
	DiffReport      *bool   `json:"diffReport"`
}

// UpdateConfig 更新转换默认选项并持久化到 config.toml
// PATCH /api/config
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求体"})
		return
	}

	if req.TemplatePath != nil {
		h.cfg.Transform.TemplatePath = *req.TemplatePath
	}
	if req.DefectExclusion != nil {
		h.cfg.Transform.DefectExclusion = *req.DefectExclusion
	}
	if req.Filldown != nil {
		h.cfg.Transform.Filldown = *req.Filldown
	}
	if req.DiffReport != nil {
		h.cfg.Transform.DiffReport = *req.DiffReport
	}

	if err := config.SaveConfig(h.cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存配置失败"})
		return
	}

	h.GetConfig(c)
}
