package session

import (
	"sync"

	"voicebot/internal/domain"
)

type settings struct {
	mode     domain.Mode
	language string
}

// MemoryStore is the in-process session repository. State lives for the
// process lifetime; entries are created on first write, never on read.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[domain.UserID]settings
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[domain.UserID]settings)}
}

func (s *MemoryStore) Mode(user domain.UserID) domain.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.users[user]; ok && st.mode != "" {
		return st.mode
	}
	return domain.DefaultMode
}

func (s *MemoryStore) SetMode(user domain.UserID, mode domain.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.users[user]
	st.mode = mode
	s.users[user] = st
}

func (s *MemoryStore) Language(user domain.UserID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.users[user]; ok && st.language != "" {
		return st.language
	}
	return domain.LanguageAuto
}

func (s *MemoryStore) SetLanguage(user domain.UserID, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.users[user]
	st.language = code
	s.users[user] = st
}
