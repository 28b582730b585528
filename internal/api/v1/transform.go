package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Matt-Debate/Renee-Supplier-Data/internal/model"
	"github.com/Matt-Debate/Renee-Supplier-Data/internal/transform"
)

type transformProgressEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Transform 上传 A 表并执行转换（SSE 进度 + 完成后提供下载地址）
// POST /api/transform
// 表单字段：file 必填（A 表）；template 选填（覆盖默认 B 模板）；
// defectExclusion / filldown / diffReport 选填（缺省取配置默认值）。
func (h *Handler) Transform(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的表单数据"})
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}
	uploadedFile := files[0]

	runTag := uuid.New().String()
	tempDir := os.TempDir()

	pathA := filepath.Join(tempDir, fmt.Sprintf("renee_a_%s.xlsx", runTag))
	if err := c.SaveUploadedFile(uploadedFile, pathA); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
		return
	}
	defer os.Remove(pathA)

	// 模板：请求带了就用请求的，否则用配置里的固定模板
	pathB := h.cfg.Transform.TemplatePath
	if tmpl := form.File["template"]; len(tmpl) > 0 {
		pathB = filepath.Join(tempDir, fmt.Sprintf("renee_b_%s.xlsx", runTag))
		if err := c.SaveUploadedFile(tmpl[0], pathB); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "保存模板失败"})
			return
		}
		defer os.Remove(pathB)
	}
	if pathB == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未配置 B 模板，且请求未上传模板"})
		return
	}
	if _, err := os.Stat(pathB); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "B 模板不存在: " + pathB})
		return
	}

	opts := model.TransformOptions{
		DefectExclusion: postFormBool(c, "defectExclusion", h.cfg.Transform.DefectExclusion),
		Filldown:        postFormBool(c, "filldown", h.cfg.Transform.Filldown),
		DiffReport:      postFormBool(c, "diffReport", h.cfg.Transform.DiffReport),
	}

	outPath := filepath.Join(tempDir, fmt.Sprintf("renee_out_%s.xlsx", runTag))
	diffPath := ""
	if opts.DiffReport {
		diffPath = filepath.Join(tempDir, fmt.Sprintf("renee_diff_%s.csv", runTag))
	}

	// SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	send := func(event transformProgressEvent) {
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	send(transformProgressEvent{
		Type:      "start",
		Message:   "开始转换",
		Data:      map[string]any{"filename": uploadedFile.Filename},
		Timestamp: time.Now(),
	})

	lastPercent := -1
	result, err := transform.Run(transform.Options{
		PathA:       pathA,
		PathB:       pathB,
		OutPath:     outPath,
		DiffCSVPath: diffPath,
		Transform:   opts,
		Progress: func(p transform.ProgressEvent) {
			if p.Percent == lastPercent {
				return
			}
			lastPercent = p.Percent
			send(transformProgressEvent{
				Type:      "progress",
				Message:   p.Stage,
				Data:      map[string]any{"percent": p.Percent},
				Timestamp: time.Now(),
			})
		},
	})
	if err != nil {
		send(transformProgressEvent{
			Type:      "error",
			Message:   "转换失败: " + err.Error(),
			Data:      map[string]any{},
			Timestamp: time.Now(),
		})
		_ = os.Remove(outPath)
		return
	}

	const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	data := map[string]any{
		"percent":     100,
		"keyCount":    result.KeyCount,
		"downloadUrl": "/api/transform/download/" + h.downloads.put(outPath, outputFilename(time.Now()), xlsxMIME, 10*time.Minute),
	}
	if result.DiffCSVPath != "" {
		data["diffUrl"] = "/api/transform/download/" + h.downloads.put(result.DiffCSVPath, "diff_report.csv", "text/csv", 10*time.Minute)
	}

	send(transformProgressEvent{
		Type:      "done",
		Message:   "转换完成",
		Data:      data,
		Timestamp: time.Now(),
	})
}

// Download 下载转换产物（一次性）
// GET /api/transform/download/:token
func (h *Handler) Download(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 token"})
		return
	}

	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		h.downloads.delete(token)
		c.JSON(http.StatusNotFound, gin.H{"error": "转换产物不存在"})
		return
	}

	c.Header("Content-Disposition", buildContentDisposition(item.filename))
	c.Header("Content-Type", item.contentType)
	c.File(item.filePath)

	h.downloads.delete(token)
	_ = os.Remove(item.filePath)
}

// outputFilename 生成文件名 Stick_List_YYYY-MM-DD.xlsx，日期取纽约时区（历史约定）
func outputFilename(now time.Time) string {
	loc, err := time.LoadLocation("America/New_York")
	if err == nil {
		now = now.In(loc)
	}
	return fmt.Sprintf("Stick_List_%s.xlsx", now.Format("2006-01-02"))
}

func buildContentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}

func postFormBool(c *gin.Context, field string, def bool) bool {
	v := c.PostForm(field)
	if v == "" {
		return def
	}
	return v == "true" || v == "1"
}
