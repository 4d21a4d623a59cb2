package events

import "time"

// SyncCompletedEvent 语料同步完成事件
type SyncCompletedEvent struct {
	// RunID 同步运行 ID
	RunID string
	// NewUnits 新入库的内容单元数
	NewUnits int
	// FailedUnits 处理失败的内容单元数
	FailedUnits int
	// EventTime 事件发生时间
	EventTime time.Time
}

// Type 实现 Event 接口
func (e *SyncCompletedEvent) Type() EventType {
	return SyncCompleted
}

// Timestamp 实现 Event 接口
func (e *SyncCompletedEvent) Timestamp() time.Time {
	return e.EventTime
}
