package queue

import (
	"encoding/json"

	"github.com/unihub-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskNewsRefresh 新闻源抓取任务
	TaskNewsRefresh = constants.TaskNewsRefresh
	// TaskAuthPurgeExpired 过期注册数据清理任务
	TaskAuthPurgeExpired = constants.TaskAuthPurgeExpired
)

// NewsRefreshPayload 新闻抓取任务载荷，空 Source 表示抓取全部源
type NewsRefreshPayload struct {
	Source string `json:"source"`
}

// AuthPurgeExpiredPayload 过期数据清理任务载荷
type AuthPurgeExpiredPayload struct {
	OlderThanHours int `json:"older_than_hours"`
}

// NewNewsRefreshTask 创建新闻抓取任务
func NewNewsRefreshTask(payload NewsRefreshPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNewsRefresh, body), nil
}

// NewAuthPurgeExpiredTask 创建过期数据清理任务
func NewAuthPurgeExpiredTask(payload AuthPurgeExpiredPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuthPurgeExpired, body), nil
}
