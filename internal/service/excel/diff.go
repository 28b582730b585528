package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// DiffEntry 原模板与生成结果之间的一处单元格差异
type DiffEntry struct {
	Row       int
	Col       string
	Original  string
	Generated string
}

var diffColumns = []struct {
	col  int
	name string
}{
	{colModel, "Model"},
	{colStyle, "Style/Color"},
	{colBlade, "Blade"},
	{colFlex, "Flex"},
	{colLeft, "Left"},
	{colRight, "Right"},
}

// BuildDiff 逐格对比两份模板网格的六个关键列。
// 行范围按原模板的最后非空行；两侧都是空白视为相等。
func BuildDiff(orig, gen *excelize.File, origSheet, genSheet string) ([]DiffEntry, error) {
	rows, err := orig.GetRows(origSheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", origSheet, err)
	}

	last := len(rows)
	for last > templateHeaderRow && allBlankAcross(orig, origSheet, last) {
		last--
	}

	diffs := make([]DiffEntry, 0)
	for r := templateHeaderRow; r <= last; r++ {
		for _, c := range diffColumns {
			o := NormalizeText(cellValue(orig, origSheet, r, c.col))
			g := NormalizeText(cellValue(gen, genSheet, r, c.col))
			if o == "" && g == "" {
				continue
			}
			if o != g {
				diffs = append(diffs, DiffEntry{Row: r, Col: c.name, Original: o, Generated: g})
			}
		}
	}
	return diffs, nil
}

// WriteDiffCSV 把差异列表写成 CSV 报告
func WriteDiffCSV(path string, diffs []DiffEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create diff report: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"row", "col", "orig_B", "generated"}); err != nil {
		return err
	}
	for _, d := range diffs {
		if err := w.Write([]string{strconv.Itoa(d.Row), d.Col, d.Original, d.Generated}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func allBlankAcross(wb *excelize.File, sheet string, row int) bool {
	for col := colModel; col <= colRight; col++ {
		if NormalizeText(cellValue(wb, sheet, row, col)) != "" {
			return false
		}
	}
	return true
}
