package chat

import (
	"sync"

	domainChat "github.com/bookchat/backend/internal/domain/chat"
)

// SessionStore 按 user_id 维护会话的并发安全存储
// Session 自身不加锁，所有读写都经过这里的粗粒度读写锁
type SessionStore struct {
	mu         sync.RWMutex
	sessions   map[string]*domainChat.Session
	windowSize int
}

// NewSessionStore 创建会话存储
func NewSessionStore(windowSize int) *SessionStore {
	return &SessionStore{
		sessions:   make(map[string]*domainChat.Session),
		windowSize: windowSize,
	}
}

// getOrCreate 必须在持写锁时调用
func (s *SessionStore) getOrCreate(userID string) *domainChat.Session {
	session, ok := s.sessions[userID]
	if !ok {
		session = domainChat.NewSession(userID, s.windowSize)
		s.sessions[userID] = session
	}
	return session
}

// Snapshot 获取用户会话的历史副本，会话不存在时创建
// 并发调用同一 user_id 只会创建一个会话，恰有一个调用方观察到 created=true
func (s *SessionStore) Snapshot(userID string) (history []domainChat.QAPair, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		session = domainChat.NewSession(userID, s.windowSize)
		s.sessions[userID] = session
	}
	return session.History(), !ok
}

// History 获取已有会话的历史副本，不创建新会话
func (s *SessionStore) History(userID string) ([]domainChat.QAPair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[userID]
	if !ok {
		return nil, false
	}
	return session.History(), true
}

// Append 向用户会话追加一组问答，会话不存在时创建
func (s *SessionStore) Append(userID, question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreate(userID).Append(question, answer)
}

// Clear 清空用户会话历史，会话保持存活
// 返回会话是否存在
func (s *SessionStore) Clear(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		return false
	}
	session.Clear()
	return true
}

// Delete 移除用户会话
// 返回是否存在过
func (s *SessionStore) Delete(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[userID]
	delete(s.sessions, userID)
	return ok
}

// ActiveUserIDs 当前存在会话的用户列表
func (s *SessionStore) ActiveUserIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Len 当前会话数
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
