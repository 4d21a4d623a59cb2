package chat

import "time"

// QAPair 一组问答
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Session 单个用户的会话状态
// history 最多保留 windowSize 组最近的问答，超出后从最早一组开始淘汰
// 并发控制由 SessionStore 负责，Session 自身不加锁
type Session struct {
	UserID       string
	CreatedAt    time.Time
	LastActiveAt time.Time

	windowSize int
	history    []QAPair
}

// NewSession 创建空会话
func NewSession(userID string, windowSize int) *Session {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	now := time.Now()
	return &Session{
		UserID:       userID,
		CreatedAt:    now,
		LastActiveAt: now,
		windowSize:   windowSize,
		history:      make([]QAPair, 0, windowSize),
	}
}

// DefaultWindowSize 默认保留的问答组数
const DefaultWindowSize = 5

// Append 追加一组问答，必要时按 FIFO 淘汰最早的
func (s *Session) Append(question, answer string) {
	s.history = append(s.history, QAPair{Question: question, Answer: answer})
	for len(s.history) > s.windowSize {
		s.history = s.history[1:]
	}
	s.LastActiveAt = time.Now()
}

// History 返回历史副本，调用方修改不影响会话
func (s *Session) History() []QAPair {
	out := make([]QAPair, len(s.history))
	copy(out, s.history)
	return out
}

// Len 当前历史长度
func (s *Session) Len() int {
	return len(s.history)
}

// Clear 清空历史，会话本身保持存活
func (s *Session) Clear() {
	s.history = s.history[:0]
	s.LastActiveAt = time.Now()
}

// WindowSize 历史窗口上限
func (s *Session) WindowSize() int {
	return s.windowSize
}
