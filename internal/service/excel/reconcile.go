package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Matt-Debate/Renee-Supplier-Data/internal/model"
)

// B 模板固定版式（保证款式列存在之后）：
// B=型号 C=款式/颜色 D=刀头 E=硬度 F=左手 G=右手，表头第 1 行，数据从第 2 行起。
const (
	templateHeaderRow    = 1
	templateFirstDataRow = 2

	colModel = 2
	colStyle = 3
	colBlade = 4
	colFlex  = 5
	colLeft  = 6
	colRight = 7
)

const styleColumnHeader = "Style/Color"

// Reconciler 把聚合结果写回 B 模板：先保证款式列、整列清空旧数量，
// 再逐行解析规范键并填入合计。模板样式原样保留。
type Reconciler struct {
	wb    *excelize.File
	sheet string
	opts  model.TransformOptions
}

// NewReconciler 创建模板回写器
func NewReconciler(wb *excelize.File, sheet string, opts model.TransformOptions) *Reconciler {
	return &Reconciler{wb: wb, sheet: sheet, opts: opts}
}

// templateScanState 模板扫描的补齐状态。
// 与 A 表扫描不同，款式参与补齐，且换型号时空白款式要先复位，
// 防止上一个型号的款式“渗透”到无关的新型号（style bleed）。
type templateScanState struct {
	currentModel string
	currentStyle string
	currentBlade string
}

// Apply 执行完整回写流程
func (rc *Reconciler) Apply(inv model.Inventory) error {
	if err := rc.EnsureStyleColumn(); err != nil {
		return err
	}

	last, err := rc.lastPopulatedRow()
	if err != nil {
		return err
	}

	// 清空必须在任何写入之前完成：模板里残留的旧数量不允许泄漏到结果里。
	rc.clearQuantities(last)

	st := templateScanState{}
	for r := templateFirstDataRow; r <= last; r++ {
		st = rc.reconcileRow(st, r, inv)
	}
	return nil
}

// EnsureStyleColumn 保证型号列之后紧跟“款式/颜色”列。
// 老模板缺这一列时就地插入，并把型号列的样式与列宽带过去；
// 以表头文字判断，重复执行不会插第二列。
func (rc *Reconciler) EnsureStyleColumn() error {
	header := strings.ToLower(NormalizeText(cellValue(rc.wb, rc.sheet, templateHeaderRow, colStyle)))
	if strings.Contains(header, "style") || strings.Contains(header, "color") {
		return nil
	}

	styleColName, err := excelize.ColumnNumberToName(colStyle)
	if err != nil {
		return err
	}
	if err := rc.wb.InsertCols(rc.sheet, styleColName, 1); err != nil {
		return fmt.Errorf("insert style column: %w", err)
	}
	if err := rc.setCell(templateHeaderRow, colStyle, styleColumnHeader); err != nil {
		return err
	}

	modelColName, err := excelize.ColumnNumberToName(colModel)
	if err != nil {
		return err
	}
	if w, err := rc.wb.GetColWidth(rc.sheet, modelColName); err == nil {
		_ = rc.wb.SetColWidth(rc.sheet, styleColName, styleColName, w)
	}

	last, err := rc.lastPopulatedRow()
	if err != nil {
		return err
	}
	for r := templateHeaderRow; r <= last; r++ {
		src, _ := excelize.CoordinatesToCellName(colModel, r)
		dst, _ := excelize.CoordinatesToCellName(colStyle, r)
		sid, err := rc.wb.GetCellStyle(rc.sheet, src)
		if err != nil || sid == 0 {
			continue
		}
		_ = rc.wb.SetCellStyle(rc.sheet, dst, dst, sid)
	}
	return nil
}

// lastPopulatedRow 自底向上找最后一个六列中任一非空的行
func (rc *Reconciler) lastPopulatedRow() (int, error) {
	rows, err := rc.wb.GetRows(rc.sheet)
	if err != nil {
		return 0, fmt.Errorf("read sheet %q: %w", rc.sheet, err)
	}

	last := len(rows)
	for last > templateHeaderRow && rc.rowAllBlank(last) {
		last--
	}
	return last, nil
}

func (rc *Reconciler) rowAllBlank(row int) bool {
	for col := colModel; col <= colRight; col++ {
		if NormalizeText(cellValue(rc.wb, rc.sheet, row, col)) != "" {
			return false
		}
	}
	return true
}

// clearQuantities 无条件清空全部左/右手数量
func (rc *Reconciler) clearQuantities(last int) {
	for r := templateFirstDataRow; r <= last; r++ {
		_ = rc.setCell(r, colLeft, nil)
		_ = rc.setCell(r, colRight, nil)
	}
}

// reconcileRow 处理模板的一行：解析键、维护补齐状态、回填数量
func (rc *Reconciler) reconcileRow(st templateScanState, r int, inv model.Inventory) templateScanState {
	rawModel := cellValue(rc.wb, rc.sheet, r, colModel)
	rawStyle := cellValue(rc.wb, rc.sheet, r, colStyle)
	rawBlade := cellValue(rc.wb, rc.sheet, r, colBlade)
	rawFlex := cellValue(rc.wb, rc.sheet, r, colFlex)

	baseHere, styleFromModel := SplitModelAndStyle(rawModel)
	styleFromModel = NormalizeStyle(styleFromModel)

	styleHere := NormalizeStyle(rawStyle)
	if styleHere == "" {
		styleHere = styleFromModel
	}
	bladeHere := NormalizeBlade(rawBlade)

	// 老模板把款式写在型号括号里：拆出来后把型号单元格改写为纯型号
	if styleFromModel != "" && baseHere != "" {
		_ = rc.setCell(r, colModel, baseHere)
	}

	// 换型号且本行不带款式：先把款式复位，再走补齐
	if baseHere != "" && baseHere != st.currentModel && styleHere == "" {
		st.currentStyle = ""
	}

	if baseHere != "" {
		st.currentModel = baseHere
	}
	if styleHere != "" {
		st.currentStyle = styleHere
	}
	if bladeHere != "" {
		st.currentBlade = bladeHere
	}

	effModel := baseHere
	effStyle := styleHere
	effBlade := bladeHere
	if rc.opts.Filldown {
		if effModel == "" {
			effModel = st.currentModel
		}
		if effStyle == "" {
			effStyle = st.currentStyle
		}
		if effBlade == "" {
			effBlade = st.currentBlade
		}

		// 把补齐出来的值写回空白单元格，模板可见地补全
		if NormalizeText(rawModel) == "" && effModel != "" {
			_ = rc.setCell(r, colModel, effModel)
		}
		if NormalizeText(rawStyle) == "" && effStyle != "" {
			_ = rc.setCell(r, colStyle, effStyle)
		}
		if NormalizeText(rawBlade) == "" && effBlade != "" {
			_ = rc.setCell(r, colBlade, effBlade)
		}
	}

	flex, hasFlex := ParseFlex(rawFlex)
	if effModel == "" || effBlade == "" || !hasFlex {
		// 键不完整：左右手保持清空后的空白
		return st
	}

	key := model.CanonicalKey{Model: effModel, Style: effStyle, Blade: effBlade, Flex: flex}
	if tot, ok := inv[key]; ok {
		if tot.HasLeft {
			_ = rc.setCell(r, colLeft, tot.Left)
		}
		if tot.HasRight {
			_ = rc.setCell(r, colRight, tot.Right)
		}
	}
	return st
}

func (rc *Reconciler) setCell(row, col int, v interface{}) error {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return rc.wb.SetCellValue(rc.sheet, axis, v)
}
