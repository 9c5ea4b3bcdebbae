package helper

import (
	"github.com/shopspring/decimal"
)

var (
	ZeroDecimal = decimal.Zero
)

// TrimDecimal 金额统一四舍五入到2位小数输出
func TrimDecimal(val decimal.Decimal) string {
	return val.StringFixed(2)
}

// ParseAmount 解析金额字符串，非法或负数时返回第二个值 false
func ParseAmount(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}
