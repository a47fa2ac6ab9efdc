package ecode

// 业务错误码表，0表示成功
const (
	Success = 0

	// 通用错误
	InternalErr    = 10001 // 服务内部错误
	ParamBindErr   = 10002 // 请求参数解析失败
	NotFoundErr    = 10003 // 资源不存在
	RequireAuthErr = 10401

	// 业务错误
	ThresholdOrderErr = 20001 // 阈值配置低值不小于高值
	FetchPriceErr     = 20002 // 行情抓取失败
	StorageErr        = 20003 // 存储层读写失败
	ReconcileErr      = 20004 // 成交对账失败
)

var messages = map[int]string{
	Success:           "OK",
	InternalErr:       "internal server error",
	ParamBindErr:      "invalid request parameters",
	NotFoundErr:       "resource not found",
	RequireAuthErr:    "authentication required",
	ThresholdOrderErr: "threshold_low must be less than threshold_high",
	FetchPriceErr:     "failed to fetch price from upstream",
	StorageErr:        "storage operation failed",
	ReconcileErr:      "trade reconciliation failed",
}

// Message 返回错误码对应的默认提示
func Message(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[InternalErr]
}
