package worker

// 统一的 WebSocket 消息协议（通过 Redis Pub/Sub 转发给在线的后台会话）。
// 注意：这里的字段名与前端解析保持一致。
type ContentUpdateMessage struct {
	Status        string `json:"status"`
	Collection    string `json:"collection"`
	CorrelationID string `json:"correlation_id"`
	ErrorCode     int    `json:"error_code"`
	ErrorMessage  string `json:"error_message,omitempty"`
}
