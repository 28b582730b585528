package excel

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// 单元格值规范化：所有函数对脏数据一律退化为“无值”，绝不报错。
// excelize 读出的单元格一律是字符串，数值语义通过 strconv 探测。

var (
	reDigitRun      = regexp.MustCompile(`[0-9]+`)
	reTrailingParen = regexp.MustCompile(`\(([^()]*)\)\s*$`)

	fullwidthParens = strings.NewReplacer("（", "(", "）", ")")
)

// NormalizeText 去首尾空白；空串表示无值
func NormalizeText(v string) string {
	return strings.TrimSpace(v)
}

// NormalizeBlade 刀头编码：去空白后统一大写
func NormalizeBlade(v string) string {
	return strings.ToUpper(NormalizeText(v))
}

// NormalizeStyle 款式/颜色：与刀头同样处理
func NormalizeStyle(v string) string {
	return strings.ToUpper(NormalizeText(v))
}

// SplitModelAndStyle 拆分型号尾部的括号款式。
// 全角括号先归一为半角；仅匹配字符串末尾的一组括号。
// 括号内容为空时视为无款式；括号前的文本为空时退回整串作为型号，
// 保证非空输入不会拆出空型号。
//
//	"FT8 Pro (RED)"          -> ("FT8 Pro", "RED")
//	"FT6（red,black.blue）"   -> ("FT6", "red,black.blue")
//	"Plain Model"            -> ("Plain Model", "")
func SplitModelAndStyle(raw string) (base string, style string) {
	s := NormalizeText(fullwidthParens.Replace(raw))
	if s == "" {
		return "", ""
	}

	loc := reTrailingParen.FindStringSubmatchIndex(s)
	if loc == nil {
		return s, ""
	}

	style = strings.TrimSpace(s[loc[2]:loc[3]])
	base = strings.TrimSpace(s[:loc[0]])
	if base == "" || style == "" {
		// 整串只有括号时括号内容不当款式看
		if base == "" {
			base = s
		}
		return base, ""
	}
	return base, style
}

// ParseFlex 硬度解析：数值四舍五入取整，字符串取第一段连续数字
func ParseFlex(v string) (int, bool) {
	s := strings.TrimSpace(v)
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return int(math.Round(f)), true
	}
	m := reDigitRun.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseQuantity 数量解析。
// 数值：与整数差在 1e-9 内则四舍五入，否则向零截断。
// 字符串：开启瑕疵剔除时，含任何非 ASCII 字符（如“瑕疵”标注）整格剔除；
// 否则取第一段连续数字。
func ParseQuantity(v string, defectExclusion bool) (int, bool) {
	s := strings.TrimSpace(v)
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		if math.Abs(f-math.Round(f)) < 1e-9 {
			return int(math.Round(f)), true
		}
		return int(f), true
	}
	if defectExclusion && hasNonASCII(s) {
		return 0, false
	}
	m := reDigitRun.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

func hasNonASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return true
		}
	}
	return false
}
