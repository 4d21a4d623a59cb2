package events

import "time"

// CorpusFileEvent 语料 CSV 文件变更事件
// 当语料根目录下的 *.csv 文件发生变更时触发
type CorpusFileEvent struct {
	// EventType 事件类型（created/modified/deleted）
	EventType EventType
	// Category 类目（文件所在子目录名）
	Category string
	// FilePath 文件完整路径
	FilePath string
	// ModTime 文件最后修改时间
	ModTime time.Time
	// EventTime 事件发生时间
	EventTime time.Time
}

// Type 实现 Event 接口
func (e *CorpusFileEvent) Type() EventType {
	return e.EventType
}

// Timestamp 实现 Event 接口
func (e *CorpusFileEvent) Timestamp() time.Time {
	return e.EventTime
}
