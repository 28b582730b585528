package model

// Block A 表中一个“球杆块”的固定列偏移（1 基）。
// 每块 5 列：型号、刀头、硬度、左手数量、右手数量。
type Block struct {
	ModelCol int
	BladeCol int
	FlexCol  int
	LeftCol  int
	RightCol int
}

// A 表固定版式：表头在第 4 行，数据从第 5 行开始。
const (
	SourceHeaderRow    = 4
	SourceFirstDataRow = 5
)

// DefaultBlocks A 表的三个球杆块（B-F、H-L、N-R）
func DefaultBlocks() []Block {
	return []Block{
		{ModelCol: 2, BladeCol: 3, FlexCol: 4, LeftCol: 5, RightCol: 6},
		{ModelCol: 8, BladeCol: 9, FlexCol: 10, LeftCol: 11, RightCol: 12},
		{ModelCol: 14, BladeCol: 15, FlexCol: 16, LeftCol: 17, RightCol: 18},
	}
}
