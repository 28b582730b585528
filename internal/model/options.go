package model

// TransformOptions 单次转换的运行选项
type TransformOptions struct {
	// DefectExclusion 为 true 时，数量单元格只要含非 ASCII 字符（常见为“瑕疵”标注）
	// 即整格剔除，不参与合计。
	DefectExclusion bool
	// Filldown 为 true 时，B 模板中空白的 型号/款式/刀头 按上一行补齐并写回单元格。
	Filldown bool
	// DiffReport 为 true 时，额外产出原模板与生成结果的逐格对比 CSV。
	DiffReport bool
}

// DefaultTransformOptions 默认选项（与历史脚本一致：剔除瑕疵、补齐模板、不出对比报告）
func DefaultTransformOptions() TransformOptions {
	return TransformOptions{
		DefectExclusion: true,
		Filldown:        true,
		DiffReport:      false,
	}
}
