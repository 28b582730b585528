package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Matt-Debate/Renee-Supplier-Data/internal/config"
)

// Version 应用版本
const Version = "1.2.0"

// GetStatus 系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":        Version,
		"templatePath":   h.cfg.Transform.TemplatePath,
		"templateExists": config.TemplateExists(h.cfg),
		"defaults": gin.H{
			"defectExclusion": h.cfg.Transform.DefectExclusion,
			"filldown":        h.cfg.Transform.Filldown,
			"diffReport":      h.cfg.Transform.DiffReport,
		},
	})
}
