package excel_test

import (
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Matt-Debate/Renee-Supplier-Data/internal/model"
	"github.com/Matt-Debate/Renee-Supplier-Data/internal/service/excel"
)

func newAggregator(defectExclusion bool) *excel.Aggregator {
	opts := model.DefaultTransformOptions()
	opts.DefectExclusion = defectExclusion
	return excel.NewAggregator(model.DefaultBlocks(), opts)
}

func buildSourceWorkbook(t *testing.T) *excelize.File {
	t.Helper()

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(wb.GetActiveSheetIndex())

	// 第 4 行表头（内容不参与解析，仅还原 A 表版式）
	for _, h := range []struct {
		axis string
		v    string
	}{
		{"B4", "型号"}, {"C4", "刀头"}, {"D4", "硬度"}, {"E4", "左"}, {"F4", "右"},
	} {
		if err := wb.SetCellValue(sheet, h.axis, h.v); err != nil {
			t.Fatalf("SetCellValue %s failed: %v", h.axis, err)
		}
	}
	return wb
}

func mustSet(t *testing.T, wb *excelize.File, axis string, v interface{}) {
	t.Helper()
	sheet := wb.GetSheetName(wb.GetActiveSheetIndex())
	if err := wb.SetCellValue(sheet, axis, v); err != nil {
		t.Fatalf("SetCellValue %s failed: %v", axis, err)
	}
}

func TestBuildInventory_MergedCellsAndFilldown(t *testing.T) {
	t.Parallel()

	wb := buildSourceWorkbook(t)
	sheet := wb.GetSheetName(wb.GetActiveSheetIndex())

	// 第 5 行：完整行；第 6 行：型号/刀头与上一行纵向合并
	mustSet(t, wb, "B5", "FT8 Pro (RED)")
	mustSet(t, wb, "C5", "L92")
	mustSet(t, wb, "D5", "85")
	mustSet(t, wb, "E5", 10)
	mustSet(t, wb, "D6", "85")
	mustSet(t, wb, "E6", 5)
	mustSet(t, wb, "F6", 3)
	if err := wb.MergeCell(sheet, "B5", "B6"); err != nil {
		t.Fatalf("MergeCell failed: %v", err)
	}
	if err := wb.MergeCell(sheet, "C5", "C6"); err != nil {
		t.Fatalf("MergeCell failed: %v", err)
	}

	inv, err := newAggregator(true).BuildInventory(wb, sheet)
	if err != nil {
		t.Fatalf("BuildInventory failed: %v", err)
	}

	key := model.CanonicalKey{Model: "FT8 Pro", Style: "RED", Blade: "L92", Flex: 85}
	tot, ok := inv[key]
	if !ok {
		t.Fatalf("key %v not found, inv=%v", key, inv)
	}
	if !tot.HasLeft || tot.Left != 15 {
		t.Fatalf("Left=(%d,%v), want (15,true)", tot.Left, tot.HasLeft)
	}
	if !tot.HasRight || tot.Right != 3 {
		t.Fatalf("Right=(%d,%v), want (3,true)", tot.Right, tot.HasRight)
	}
}

func TestBuildInventory_FilldownDoesNotCrossBlocks(t *testing.T) {
	t.Parallel()

	wb := buildSourceWorkbook(t)
	sheet := wb.GetSheetName(wb.GetActiveSheetIndex())

	// 块 1 给出型号/刀头；块 2 同一行只有硬度和数量，没有自己的型号。
	// 块 2 的行不能继承块 1 的标签，必须被跳过。
	mustSet(t, wb, "B5", "FT8 Pro")
	mustSet(t, wb, "C5", "L92")
	mustSet(t, wb, "D5", "85")
	mustSet(t, wb, "E5", 2)
	mustSet(t, wb, "J5", "75")
	mustSet(t, wb, "K5", 9)

	inv, err := newAggregator(true).BuildInventory(wb, sheet)
	if err != nil {
		t.Fatalf("BuildInventory failed: %v", err)
	}

	if len(inv) != 1 {
		t.Fatalf("len(inv)=%d, want 1 (块 2 的不完整行应被跳过), inv=%v", len(inv), inv)
	}
}

func TestBuildInventory_OrderIndependence(t *testing.T) {
	t.Parallel()

	// 同样的行集合，分别排在块 1 / 块 3、行序颠倒，聚合结果必须一致
	build := func(swap bool) model.Inventory {
		wb := buildSourceWorkbook(t)
		sheet := wb.GetSheetName(wb.GetActiveSheetIndex())

		rows := []struct {
			model, blade, flex string
			left, right        int
		}{
			{"FT6", "L91", "75", 4, 1},
			{"FT6", "L91", "75", 6, 2},
			{"FT8 Pro (RED)", "L92", "85", 1, 1},
		}
		if swap {
			rows[0], rows[1] = rows[1], rows[0]
		}

		for i, row := range rows {
			r := 5 + i
			cols := []int{2, 3, 4, 5, 6} // 块 1
			if swap {
				cols = []int{14, 15, 16, 17, 18} // 块 3
			}
			set := func(col int, v interface{}) {
				axis, _ := excelize.CoordinatesToCellName(col, r)
				mustSet(t, wb, axis, v)
			}
			set(cols[0], row.model)
			set(cols[1], row.blade)
			set(cols[2], row.flex)
			set(cols[3], row.left)
			set(cols[4], row.right)
		}

		inv, err := newAggregator(true).BuildInventory(wb, sheet)
		if err != nil {
			t.Fatalf("BuildInventory failed: %v", err)
		}
		return inv
	}

	a := build(false)
	b := build(true)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("聚合结果与行序/块位置相关:\n a=%v\n b=%v", a, b)
	}
}

func TestBuildInventory_ZeroCollapsesToBlank(t *testing.T) {
	t.Parallel()

	wb := buildSourceWorkbook(t)
	sheet := wb.GetSheetName(wb.GetActiveSheetIndex())

	mustSet(t, wb, "B5", "FT6")
	mustSet(t, wb, "C5", "L91")
	mustSet(t, wb, "D5", "75")
	mustSet(t, wb, "E5", 0)
	mustSet(t, wb, "F5", 2)

	inv, err := newAggregator(true).BuildInventory(wb, sheet)
	if err != nil {
		t.Fatalf("BuildInventory failed: %v", err)
	}

	key := model.CanonicalKey{Model: "FT6", Style: "", Blade: "L91", Flex: 75}
	tot, ok := inv[key]
	if !ok {
		t.Fatalf("key not found: %v", inv)
	}
	if tot.HasLeft {
		t.Fatalf("合计为 0 的一侧应折叠为空白, got Left=%d", tot.Left)
	}
	if !tot.HasRight || tot.Right != 2 {
		t.Fatalf("Right=(%d,%v), want (2,true)", tot.Right, tot.HasRight)
	}
}

func TestBuildInventory_DefectExclusion(t *testing.T) {
	t.Parallel()

	build := func(defectExclusion bool) model.Inventory {
		wb := buildSourceWorkbook(t)
		sheet := wb.GetSheetName(wb.GetActiveSheetIndex())

		mustSet(t, wb, "B5", "FT6")
		mustSet(t, wb, "C5", "L91")
		mustSet(t, wb, "D5", "75")
		mustSet(t, wb, "E5", "3瑕疵")
		mustSet(t, wb, "F5", 4)

		inv, err := newAggregator(defectExclusion).BuildInventory(wb, sheet)
		if err != nil {
			t.Fatalf("BuildInventory failed: %v", err)
		}
		return inv
	}

	key := model.CanonicalKey{Model: "FT6", Style: "", Blade: "L91", Flex: 75}

	withExclusion := build(true)[key]
	if withExclusion.HasLeft {
		t.Fatalf("开启剔除时瑕疵数量不应计入, got Left=%d", withExclusion.Left)
	}
	if !withExclusion.HasRight || withExclusion.Right != 4 {
		t.Fatalf("Right=(%d,%v), want (4,true)", withExclusion.Right, withExclusion.HasRight)
	}

	withoutExclusion := build(false)[key]
	if !withoutExclusion.HasLeft || withoutExclusion.Left != 3 {
		t.Fatalf("关闭剔除时应取数字, got Left=(%d,%v)", withoutExclusion.Left, withoutExclusion.HasLeft)
	}
}

func TestBuildInventory_IncompleteRowsSkipped(t *testing.T) {
	t.Parallel()

	wb := buildSourceWorkbook(t)
	sheet := wb.GetSheetName(wb.GetActiveSheetIndex())

	// 硬度缺失 / 全空行 / 只有数量的行都不产生键
	mustSet(t, wb, "B5", "FT6")
	mustSet(t, wb, "C5", "L91")
	mustSet(t, wb, "E5", 7)
	mustSet(t, wb, "E7", 9)

	inv, err := newAggregator(true).BuildInventory(wb, sheet)
	if err != nil {
		t.Fatalf("BuildInventory failed: %v", err)
	}
	if len(inv) != 0 {
		t.Fatalf("不完整行不应产生键, inv=%v", inv)
	}
}
