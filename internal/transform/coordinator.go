package transform

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/Matt-Debate/Renee-Supplier-Data/internal/model"
	"github.com/Matt-Debate/Renee-Supplier-Data/internal/service/excel"
)

// ProgressEvent 转换进度事件
type ProgressEvent struct {
	Stage   string
	Percent int
}

// Options 一次转换的全部输入。
// PathA 为供应商 A 表，PathB 为 B 模板，OutPath 为生成文件位置；
// DiffCSVPath 非空且选项开启时产出对比报告。
type Options struct {
	PathA       string
	PathB       string
	OutPath     string
	DiffCSVPath string
	Transform   model.TransformOptions
	Progress    func(ProgressEvent)
}

// Result 转换结果
type Result struct {
	RunID       string
	OutPath     string
	DiffCSVPath string
	KeyCount    int
}

// Run 执行一次完整转换：读 A 聚合 -> 回写 B 模板 -> 保存 -> 可选对比报告。
// 单元格级脏数据在下层一律退化为空白；这里只会因文件读写失败而报错。
func Run(opts Options) (*Result, error) {
	runID := uuid.New().String()
	progress := opts.Progress
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	progress(ProgressEvent{Stage: "读取 A 表", Percent: 5})
	wbA, err := excelize.OpenFile(opts.PathA)
	if err != nil {
		return nil, fmt.Errorf("open sheet A: %w", err)
	}
	defer wbA.Close()

	progress(ProgressEvent{Stage: "聚合库存", Percent: 25})
	agg := excel.NewAggregator(model.DefaultBlocks(), opts.Transform)
	inv, err := agg.BuildInventory(wbA, excel.ActiveSheet(wbA))
	if err != nil {
		return nil, err
	}

	progress(ProgressEvent{Stage: "读取 B 模板", Percent: 45})
	wbB, err := excelize.OpenFile(opts.PathB)
	if err != nil {
		return nil, fmt.Errorf("open template B: %w", err)
	}
	defer wbB.Close()

	progress(ProgressEvent{Stage: "回写模板", Percent: 65})
	rec := excel.NewReconciler(wbB, excel.ActiveSheet(wbB), opts.Transform)
	if err := rec.Apply(inv); err != nil {
		return nil, err
	}

	progress(ProgressEvent{Stage: "保存结果", Percent: 85})
	if err := wbB.SaveAs(opts.OutPath); err != nil {
		return nil, fmt.Errorf("save output: %w", err)
	}

	result := &Result{
		RunID:    runID,
		OutPath:  opts.OutPath,
		KeyCount: len(inv),
	}

	if opts.Transform.DiffReport && opts.DiffCSVPath != "" {
		progress(ProgressEvent{Stage: "生成对比报告", Percent: 95})
		if err := writeDiffReport(opts.PathB, opts.OutPath, opts.DiffCSVPath); err != nil {
			return nil, err
		}
		result.DiffCSVPath = opts.DiffCSVPath
	}

	progress(ProgressEvent{Stage: "完成", Percent: 100})
	return result, nil
}

// writeDiffReport 重新打开原模板与生成文件做逐格对比
func writeDiffReport(origPath, genPath, csvPath string) error {
	orig, err := excelize.OpenFile(origPath)
	if err != nil {
		return fmt.Errorf("open template B: %w", err)
	}
	defer orig.Close()

	gen, err := excelize.OpenFile(genPath)
	if err != nil {
		return fmt.Errorf("open generated output: %w", err)
	}
	defer gen.Close()

	diffs, err := excel.BuildDiff(orig, gen, excel.ActiveSheet(orig), excel.ActiveSheet(gen))
	if err != nil {
		return err
	}
	return excel.WriteDiffCSV(csvPath, diffs)
}
