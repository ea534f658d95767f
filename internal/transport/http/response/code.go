package response

// 业务码（直接基于 HTTP 语义），HTTP 状态统一 200
const (
	CodeOK          = 0
	CodeBadRequest  = 400
	CodeNotFound    = 404
	CodeTooLarge    = 413
	CodeServerError = 500
	CodeBusy        = 503
	CodeTimeout     = 504
)

// CodeMsgMap 用于集中管理 code - msg
var CodeMsgMap = map[int]string{
	CodeOK:          "OK",
	CodeBadRequest:  "Bad Request",
	CodeNotFound:    "Not Found",
	CodeTooLarge:    "Request Entity Too Large",
	CodeServerError: "Internal Server Error",
	CodeBusy:        "Service Unavailable",
	CodeTimeout:     "Gateway Timeout",
}
