package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Matt-Debate/Renee-Supplier-Data/internal/model"
)

// Aggregator 从 A 表的三个球杆块抽取行数据，按规范键聚合左右手数量。
// 各块独立扫描，补齐状态互不串块。
type Aggregator struct {
	blocks []model.Block
	opts   model.TransformOptions
}

// NewAggregator 创建聚合器
func NewAggregator(blocks []model.Block, opts model.TransformOptions) *Aggregator {
	return &Aggregator{blocks: blocks, opts: opts}
}

// scanState 块内扫描的补齐状态：最近一次出现的型号/刀头。
// 显式随行传递，避免跨块污染。
type scanState struct {
	currentModel string
	currentBlade string
}

// blockRow 一行在单个块内的原始取值
type blockRow struct {
	model string
	blade string
	flex  string
	left  string
	right string
}

// sideSums 单个键的累加中间态
type sideSums struct {
	left  int
	right int
}

// BuildInventory 扫描整张 A 表并返回 键 -> 左右手合计。
// 行内型号/刀头/硬度任一缺失即跳过该行（不是错误）；
// 合计恰为 0 的一侧按“无数据”输出（与历史脚本一致）。
func (a *Aggregator) BuildInventory(wb *excelize.File, sheet string) (model.Inventory, error) {
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	maxRow := len(rows)

	merged := LoadMergedRegions(wb, sheet)
	sums := make(map[model.CanonicalKey]*sideSums)

	for _, blk := range a.blocks {
		st := scanState{}
		for r := model.SourceFirstDataRow; r <= maxRow; r++ {
			row := blockRow{
				model: merged.Value(wb, sheet, r, blk.ModelCol),
				blade: merged.Value(wb, sheet, r, blk.BladeCol),
				flex:  cellValue(wb, sheet, r, blk.FlexCol),
				left:  cellValue(wb, sheet, r, blk.LeftCol),
				right: cellValue(wb, sheet, r, blk.RightCol),
			}
			st = a.accumulateRow(st, row, sums)
		}
	}

	return finalizeInventory(sums), nil
}

// accumulateRow 处理一行：更新补齐状态并把数量累加到对应键上
func (a *Aggregator) accumulateRow(st scanState, row blockRow, sums map[model.CanonicalKey]*sideSums) scanState {
	modelHere := NormalizeText(row.model)
	bladeHere := NormalizeBlade(row.blade)

	if modelHere != "" {
		st.currentModel = modelHere
	}
	if bladeHere != "" {
		st.currentBlade = bladeHere
	}

	effModel := modelHere
	if effModel == "" {
		effModel = st.currentModel
	}
	effBlade := bladeHere
	if effBlade == "" {
		effBlade = st.currentBlade
	}

	base, style := SplitModelAndStyle(effModel)
	style = NormalizeStyle(style)
	flex, hasFlex := ParseFlex(row.flex)

	if base == "" || effBlade == "" || !hasFlex {
		return st
	}

	key := model.CanonicalKey{Model: base, Style: style, Blade: effBlade, Flex: flex}
	s := sums[key]
	if s == nil {
		s = &sideSums{}
		sums[key] = s
	}

	if l, ok := ParseQuantity(row.left, a.opts.DefectExclusion); ok {
		s.left += l
	}
	if r, ok := ParseQuantity(row.right, a.opts.DefectExclusion); ok {
		s.right += r
	}

	return st
}

// finalizeInventory 合计为 0 的一侧折叠为空白
func finalizeInventory(sums map[model.CanonicalKey]*sideSums) model.Inventory {
	inv := make(model.Inventory, len(sums))
	for k, s := range sums {
		t := model.InventoryTotal{}
		if s.left > 0 {
			t.Left = s.left
			t.HasLeft = true
		}
		if s.right > 0 {
			t.Right = s.right
			t.HasRight = true
		}
		inv[k] = t
	}
	return inv
}
