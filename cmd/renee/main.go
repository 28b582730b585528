package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Matt-Debate/Renee-Supplier-Data/internal/config"
	"github.com/Matt-Debate/Renee-Supplier-Data/internal/model"
	"github.com/Matt-Debate/Renee-Supplier-Data/internal/server"
	"github.com/Matt-Debate/Renee-Supplier-Data/internal/transform"
	"github.com/Matt-Debate/Renee-Supplier-Data/internal/util"
)

var (
	pathA   = flag.String("a", "", "供应商 A 表路径（给出后按命令行一次性转换，不启动服务）")
	pathB   = flag.String("b", "", "B 模板路径（缺省用配置里的 template_path）")
	outPath = flag.String("out", "", "生成文件输出路径（命令行模式必填）")

	noDefectExclusion = flag.Bool("no-defect-exclusion", false, "不剔除含非 ASCII 标注（如“瑕疵”）的数量")
	noFilldown        = flag.Bool("no-filldown", false, "不补齐 B 模板空白的 型号/款式/刀头")
	diffCSV           = flag.String("diff-csv", "", "对比报告 CSV 输出路径（可选）")

	port    = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	devMode = flag.Bool("dev", false, "开发模式")
)

func main() {
	flag.Parse()

	// 加载配置
	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}

	// 命令行一次性转换
	if *pathA != "" {
		runOnce(cfg)
		return
	}

	runServer(cfg)
}

// runOnce 命令行模式：转换一次即退出
func runOnce(cfg *config.AppConfig) {
	if *outPath == "" {
		log.Fatal("命令行模式必须指定 -out")
	}

	templatePath := *pathB
	if templatePath == "" {
		templatePath = cfg.Transform.TemplatePath
	}

	opts := model.TransformOptions{
		DefectExclusion: !*noDefectExclusion && cfg.Transform.DefectExclusion,
		Filldown:        !*noFilldown && cfg.Transform.Filldown,
		DiffReport:      *diffCSV != "",
	}

	result, err := transform.Run(transform.Options{
		PathA:       *pathA,
		PathB:       templatePath,
		OutPath:     *outPath,
		DiffCSVPath: *diffCSV,
		Transform:   opts,
		Progress: func(p transform.ProgressEvent) {
			fmt.Printf("[%3d%%] %s\n", p.Percent, p.Stage)
		},
	})
	if err != nil {
		log.Fatalf("转换失败: %v", err)
	}

	fmt.Printf("已生成: %s（%d 个规格键）\n", result.OutPath, result.KeyCount)
	if result.DiffCSVPath != "" {
		fmt.Printf("对比报告: %s\n", result.DiffCSVPath)
	}
}

// runServer 服务模式：本地起 Web 页面上传转换
func runServer(cfg *config.AppConfig) {
	fmt.Println("==========================================")
	fmt.Println("  Renee Supplier Data Transformer")
	fmt.Println("==========================================")

	if !config.TemplateExists(cfg) {
		log.Printf("警告: 未找到 B 模板 %s，转换时需在页面上传模板", cfg.Transform.TemplatePath)
	}

	// 确保数据目录存在
	if dataDir, err := config.EnsureDataDir(cfg); err != nil {
		log.Printf("创建数据目录失败: %v", err)
	} else {
		fmt.Printf("数据目录: %s\n", dataDir)
	}

	srv := server.NewServer(cfg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	// 启动服务器
	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 打开浏览器
	if !cfg.Server.DevMode {
		fmt.Printf("正在打开浏览器: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Printf("开发模式: 请访问 %s\n", url)
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n服务已停止")
}
