// Package events 定义领域事件类型和接口
// 用于系统内部的事件驱动通信
package events

import "time"

// EventType 事件类型标识
type EventType string

// 语料文件相关事件类型
const (
	// CorpusFileCreated 语料文件创建事件
	CorpusFileCreated EventType = "corpus.file.created"
	// CorpusFileModified 语料文件修改事件
	CorpusFileModified EventType = "corpus.file.modified"
	// CorpusFileDeleted 语料文件删除事件
	CorpusFileDeleted EventType = "corpus.file.deleted"
)

// 同步相关事件类型
const (
	// SyncCompleted 一次语料同步完成事件
	SyncCompleted EventType = "sync.completed"
)

// Event 领域事件接口
// 所有事件类型都必须实现此接口
type Event interface {
	// Type 返回事件类型
	Type() EventType
	// Timestamp 返回事件发生时间
	Timestamp() time.Time
}
