package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeRevalidate = "portfolio:revalidate"
)

// RevalidatePayload 描述一次快照重建请求。
// Collection 记录触发重建的集合名，仅用于日志与前端事件。
type RevalidatePayload struct {
	Collection    string `json:"collection"`
	CorrelationID string `json:"correlation_id"`
}

// NewRevalidateTask 构造一个门户快照重建任务。
func NewRevalidateTask(collection, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(RevalidatePayload{
		Collection:    collection,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRevalidate, payload), nil
}
