package model

import (
	"fmt"
	"strings"
)

// CanonicalKey 库存匹配的规范键：A 表与 B 模板之间全部按此键对齐。
// Model 为去掉括号款式后的基础型号；Style 为空串表示“无款式”；
// Blade 已大写；Flex 为整数硬度。
type CanonicalKey struct {
	Model string
	Style string
	Blade string
	Flex  int
}

// String 用于日志/调试输出
func (k CanonicalKey) String() string {
	sb := strings.Builder{}
	sb.WriteString(k.Model)
	if k.Style != "" {
		sb.WriteString("(" + k.Style + ")")
	}
	sb.WriteString("|")
	sb.WriteString(k.Blade)
	sb.WriteString("|")
	sb.WriteString(fmt.Sprintf("%d", k.Flex))
	return sb.String()
}

// InventoryTotal 某个键的左/右手数量合计。
// HasLeft/HasRight 为 false 表示该侧无数据（输出为空白而不是 0）。
type InventoryTotal struct {
	Left     int
	Right    int
	HasLeft  bool
	HasRight bool
}

// Inventory 键 -> 合计 的聚合结果
type Inventory map[CanonicalKey]InventoryTotal
