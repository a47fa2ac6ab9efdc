package consts

const (
	// RequestId 请求id名称
	RequestId = "request_id"

	DateLayout = "2006-01-02"
	TimeLayout = "2006-01-02 15:04:05"

	// 成交方向
	SideBuy  = "BUY"
	SideSell = "SELL"

	// 对账结果默认返回条数上限
	ReconcileLimitDefault = 50

	// 未匹配到买入价时盈亏列的占位符
	ProfitUnknown = "-"
)
