package session

import (
	"context"
	"sync"
	"time"
)

type memorySession struct {
	samples   map[uint][]uint
	flashes   []string
	expiresAt time.Time
}

// MemoryStore 进程内会话存储，重启丢失且不跨实例共享，仅用于本地和单机部署
type MemoryStore struct {
	TTL time.Duration
	Now func() time.Time

	mu       sync.Mutex
	sessions map[string]*memorySession
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		TTL:      ttl,
		Now:      time.Now,
		sessions: make(map[string]*memorySession),
	}
}

// get 返回未过期的会话，过期的顺手删除；调用方需持有 mu
func (s *MemoryStore) get(sessionID string, create bool) *memorySession {
	now := s.Now()
	sess, ok := s.sessions[sessionID]
	if ok && now.After(sess.expiresAt) {
		delete(s.sessions, sessionID)
		ok = false
	}
	if !ok {
		if !create {
			return nil
		}
		sess = &memorySession{samples: make(map[uint][]uint)}
		s.sessions[sessionID] = sess
	}
	if create {
		sess.expiresAt = now.Add(s.TTL)
	}
	return sess
}

func (s *MemoryStore) SaveSample(_ context.Context, sessionID string, attemptID uint, questionIDs []uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]uint, len(questionIDs))
	copy(ids, questionIDs)
	s.get(sessionID, true).samples[attemptID] = ids
	return nil
}

func (s *MemoryStore) LoadSample(_ context.Context, sessionID string, attemptID uint) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(sessionID, false)
	if sess == nil {
		return nil, ErrNoSample
	}
	ids, ok := sess.samples[attemptID]
	if !ok {
		return nil, ErrNoSample
	}
	out := make([]uint, len(ids))
	copy(out, ids)
	return out, nil
}

func (s *MemoryStore) ClearSample(_ context.Context, sessionID string, attemptID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess := s.get(sessionID, false); sess != nil {
		delete(sess.samples, attemptID)
	}
	return nil
}

func (s *MemoryStore) AddFlash(_ context.Context, sessionID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(sessionID, true)
	sess.flashes = append(sess.flashes, message)
	return nil
}

func (s *MemoryStore) PopFlashes(_ context.Context, sessionID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(sessionID, false)
	if sess == nil {
		return nil, nil
	}
	flashes := sess.flashes
	sess.flashes = nil
	return flashes, nil
}

// Purge 清理过期会话
func (s *MemoryStore) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
