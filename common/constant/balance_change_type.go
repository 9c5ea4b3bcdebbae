package constant

// 钱包账变类型
const (
	TxTypePurchase = "PURCHASE" // 买票扣款，金额为负
	TxTypePrize    = "PRIZE"    // 中奖入账，金额为正
	TxTypeDeposit  = "DEPOSIT"  // 充值入账
)

// 账变类型描述映射
var TxTypeDesc = map[string]string{
	TxTypePurchase: "购票支出",
	TxTypePrize:    "兑奖收入",
	TxTypeDeposit:  "充值",
}

// GetTxTypeDesc 获取账变类型描述
func GetTxTypeDesc(txType string) string {
	if desc, exists := TxTypeDesc[txType]; exists {
		return desc
	}
	return "未知类型"
}

// IsValidTxType 验证账变类型是否有效
func IsValidTxType(txType string) bool {
	_, exists := TxTypeDesc[txType]
	return exists
}

// IsIncomeType 判断是否为收入类型
func IsIncomeType(txType string) bool {
	return txType == TxTypePrize || txType == TxTypeDeposit
}

// IsExpenseType 判断是否为支出类型
func IsExpenseType(txType string) bool {
	return txType == TxTypePurchase
}
