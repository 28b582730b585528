package excel

import (
	"github.com/xuri/excelize/v2"
)

// MergedRegions 某工作表全部合并区域的矩形索引。
// A 表的型号/刀头经常纵向合并，取值必须落到区域左上角。
type MergedRegions struct {
	regions []mergedRegion
}

type mergedRegion struct {
	minCol, minRow, maxCol, maxRow int
}

// LoadMergedRegions 读取工作表的合并区域列表
func LoadMergedRegions(wb *excelize.File, sheet string) *MergedRegions {
	out := &MergedRegions{}

	merges, err := wb.GetMergeCells(sheet)
	if err != nil {
		return out
	}

	for _, m := range merges {
		startCol, startRow, err1 := parseAxis(m.GetStartAxis())
		endCol, endRow, err2 := parseAxis(m.GetEndAxis())
		if err1 != nil || err2 != nil {
			continue
		}
		out.regions = append(out.regions, mergedRegion{
			minCol: startCol,
			minRow: startRow,
			maxCol: endCol,
			maxRow: endRow,
		})
	}

	return out
}

// Resolve 若 (row, col) 落在某个合并区域内，返回该区域左上角坐标；
// 否则原样返回。
func (m *MergedRegions) Resolve(row, col int) (int, int) {
	for _, rg := range m.regions {
		if row >= rg.minRow && row <= rg.maxRow && col >= rg.minCol && col <= rg.maxCol {
			return rg.minRow, rg.minCol
		}
	}
	return row, col
}

// Value 合并感知取值：区域内取左上角的值，否则取单元格自身的值
func (m *MergedRegions) Value(wb *excelize.File, sheet string, row, col int) string {
	r, c := m.Resolve(row, col)
	return cellValue(wb, sheet, r, c)
}

func parseAxis(axis string) (col int, row int, err error) {
	colName, row, err := excelize.SplitCellName(axis)
	if err != nil {
		return 0, 0, err
	}
	col, err = excelize.ColumnNameToNumber(colName)
	if err != nil {
		return 0, 0, err
	}
	return col, row, nil
}

// cellValue 按坐标取值；读错误按空白处理（脏数据退化策略）
func cellValue(wb *excelize.File, sheet string, row, col int) string {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	v, _ := wb.GetCellValue(sheet, axis)
	return v
}
