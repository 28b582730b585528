package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/Matt-Debate/Renee-Supplier-Data/internal/api/v1"
	"github.com/Matt-Debate/Renee-Supplier-Data/internal/config"
)

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	v1     *v1.Handler
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router: gin.Default(),
		v1:     v1.NewHandler(cfg),
	}

	s.setupRoutes()

	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// V1 API 路由
	api := s.router.Group("/api")
	{
		s.v1.RegisterRoutes(api)
	}

	// 上传页（极简，单文件即可完成整个流程）
	s.router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
	})
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

const indexHTML = `<!DOCTYPE html>
<html lang="zh">
<head>
<meta charset="utf-8">
<title>Renee Supplier Data Transformer</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 3rem auto; }
label { display: block; margin: .5rem 0; }
#log { white-space: pre-wrap; background: #f5f5f5; padding: 1rem; margin-top: 1rem; }
</style>
</head>
<body>
<h1>Renee Supplier Data Transformer</h1>
<p>上传供应商 A 表（.xlsx），生成固定 Renee(B) 格式的库存清单。</p>
<form id="f">
  <label>A 表：<input type="file" name="file" accept=".xlsx" required></label>
  <label>B 模板（可选，留空用默认模板）：<input type="file" name="template" accept=".xlsx"></label>
  <label><input type="checkbox" name="defectExclusion" checked> 剔除含中文/非 ASCII 标注（如“瑕疵”）的数量</label>
  <label><input type="checkbox" name="filldown" checked> 补齐 B 模板空白的 型号/款式/刀头</label>
  <label><input type="checkbox" name="diffReport"> 生成对比 CSV</label>
  <button type="submit">转换</button>
</form>
<div id="log"></div>
<script>
const f = document.getElementById('f'), log = document.getElementById('log');
f.addEventListener('submit', async (e) => {
  e.preventDefault();
  log.textContent = '';
  const fd = new FormData();
  fd.append('file', f.file.files[0]);
  if (f.template.files[0]) fd.append('template', f.template.files[0]);
  for (const name of ['defectExclusion', 'filldown', 'diffReport'])
    fd.append(name, f[name].checked ? 'true' : 'false');
  const resp = await fetch('/api/transform', { method: 'POST', body: fd });
  const reader = resp.body.getReader();
  const dec = new TextDecoder();
  let buf = '';
  for (;;) {
    const { done, value } = await reader.read();
    if (done) break;
    buf += dec.decode(value, { stream: true });
    let i;
    while ((i = buf.indexOf('\n\n')) >= 0) {
      const line = buf.slice(0, i); buf = buf.slice(i + 2);
      if (!line.startsWith('data: ')) continue;
      const ev = JSON.parse(line.slice(6));
      log.textContent += ev.message + '\n';
      if (ev.type === 'done') {
        window.location = ev.data.downloadUrl;
        if (ev.data.diffUrl) setTimeout(() => window.open(ev.data.diffUrl), 1000);
      }
    }
  }
});
</script>
</body>
</html>
`
