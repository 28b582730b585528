package transform_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Matt-Debate/Renee-Supplier-Data/internal/model"
	"github.com/Matt-Debate/Renee-Supplier-Data/internal/transform"
)

func writeSourceFile(t *testing.T, dir string) string {
	t.Helper()

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(wb.GetActiveSheetIndex())

	set := func(axis string, v interface{}) {
		if err := wb.SetCellValue(sheet, axis, v); err != nil {
			t.Fatalf("SetCellValue %s failed: %v", axis, err)
		}
	}
	set("B4", "型号")
	set("B5", "FT8 Pro (RED)")
	set("C5", "L92")
	set("D5", 85)
	set("E5", 10)
	set("D6", 85)
	set("E6", 5)
	set("F6", 3)
	if err := wb.MergeCell(sheet, "B5", "B6"); err != nil {
		t.Fatalf("MergeCell failed: %v", err)
	}
	if err := wb.MergeCell(sheet, "C5", "C6"); err != nil {
		t.Fatalf("MergeCell failed: %v", err)
	}

	path := filepath.Join(dir, "Renee(A).xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	return path
}

func writeTemplateFile(t *testing.T, dir string) string {
	t.Helper()

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(wb.GetActiveSheetIndex())

	set := func(axis string, v interface{}) {
		if err := wb.SetCellValue(sheet, axis, v); err != nil {
			t.Fatalf("SetCellValue %s failed: %v", axis, err)
		}
	}
	set("B1", "Model")
	set("C1", "Blade")
	set("D1", "Flex")
	set("E1", "Left")
	set("F1", "Right")
	set("B2", "FT8 Pro (RED)")
	set("C2", "L92")
	set("D2", 85)
	set("E2", 99) // 残留旧数量，必须被覆盖

	path := filepath.Join(dir, "Renee(B).xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	return path
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "generated.xlsx")
	diffPath := filepath.Join(dir, "diff_report.csv")

	opts := model.DefaultTransformOptions()
	opts.DiffReport = true

	stages := 0
	result, err := transform.Run(transform.Options{
		PathA:       writeSourceFile(t, dir),
		PathB:       writeTemplateFile(t, dir),
		OutPath:     outPath,
		DiffCSVPath: diffPath,
		Transform:   opts,
		Progress:    func(transform.ProgressEvent) { stages++ },
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.RunID == "" {
		t.Fatalf("RunID should not be empty")
	}
	if result.KeyCount != 1 {
		t.Fatalf("KeyCount=%d, want 1", result.KeyCount)
	}
	if stages == 0 {
		t.Fatalf("progress callback never fired")
	}

	gen, err := excelize.OpenFile(outPath)
	if err != nil {
		t.Fatalf("open generated: %v", err)
	}
	defer gen.Close()
	sheet := gen.GetSheetName(gen.GetActiveSheetIndex())

	check := func(axis, want string) {
		t.Helper()
		got, err := gen.GetCellValue(sheet, axis)
		if err != nil {
			t.Fatalf("GetCellValue %s: %v", axis, err)
		}
		if got != want {
			t.Fatalf("%s=%q, want %q", axis, got, want)
		}
	}
	check("C1", "Style/Color")
	check("B2", "FT8 Pro")
	check("C2", "RED")
	check("F2", "15")
	check("G2", "3")

	if _, err := os.Stat(diffPath); err != nil {
		t.Fatalf("diff report missing: %v", err)
	}
	if result.DiffCSVPath != diffPath {
		t.Fatalf("DiffCSVPath=%q, want %q", result.DiffCSVPath, diffPath)
	}
}

func TestRun_MissingSourceFails(t *testing.T) {
	dir := t.TempDir()

	_, err := transform.Run(transform.Options{
		PathA:     filepath.Join(dir, "nope.xlsx"),
		PathB:     writeTemplateFile(t, dir),
		OutPath:   filepath.Join(dir, "out.xlsx"),
		Transform: model.DefaultTransformOptions(),
	})
	if err == nil {
		t.Fatalf("expected error for missing source file")
	}
}
