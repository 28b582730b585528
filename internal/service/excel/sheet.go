package excel

import "github.com/xuri/excelize/v2"

// ActiveSheet 返回工作簿的活动工作表名。
// A 表与 B 模板都按单表工作簿处理，整个流程只看这一张表。
func ActiveSheet(wb *excelize.File) string {
	return wb.GetSheetName(wb.GetActiveSheetIndex())
}
