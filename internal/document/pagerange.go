package document

import "fmt"

// PageRange 页面提取请求
// 表示从Start到End的页面范围（包含两端）和输出文件的基础名
// 页面编号从1开始
type PageRange struct {
	Start int    // 起始页
	End   int    // 结束页
	Name  string // 输出文件基础名
}

// SkipReason 页面范围被跳过的原因
type SkipReason int

const (
	// SkipNone 范围有效，不跳过
	SkipNone SkipReason = iota
	// SkipNonPositive 加上偏移量后页码小于1
	SkipNonPositive
	// SkipBeyondTotal 加上偏移量后超出PDF总页数
	SkipBeyondTotal
	// SkipInverted 加上偏移量后起始页大于结束页
	SkipInverted
)

// String 返回跳过原因的描述
func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "valid"
	case SkipNonPositive:
		return "page numbers must start from 1"
	case SkipBeyondTotal:
		return "range exceeds total page count"
	case SkipInverted:
		return "start page is greater than end page"
	default:
		return "unknown"
	}
}

// Effective 返回应用偏移量后的实际页面范围
func (r PageRange) Effective(offset int) (int, int) {
	return r.Start + offset, r.End + offset
}

// Validate 检查应用偏移量后的范围是否落在源文档内
// 检查顺序：非正页码、超出总页数、起止倒置
func (r PageRange) Validate(offset, totalPages int) SkipReason {
	start, end := r.Effective(offset)

	if start < 1 || end < 1 {
		return SkipNonPositive
	}
	if start > totalPages || end > totalPages {
		return SkipBeyondTotal
	}
	if start > end {
		return SkipInverted
	}
	return SkipNone
}

// PageCount 返回范围包含的页数，偏移量不影响页数
func (r PageRange) PageCount() int {
	return r.End - r.Start + 1
}

// String 返回范围的可读表示
func (r PageRange) String() string {
	return fmt.Sprintf("%d-%d (%s)", r.Start, r.End, r.Name)
}
