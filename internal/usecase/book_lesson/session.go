package book_lesson

import "sync"

// sessionStore потокобезопасное хранилище диалогов в памяти.
// Перезапуск процесса сбрасывает незавершённые диалоги, леджеры при этом
// не затрагиваются.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		sessions: make(map[int64]*Session),
	}
}

func (s *sessionStore) get(userID int64) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	return session, ok
}

func (s *sessionStore) put(userID int64, session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[userID] = session
}

func (s *sessionStore) delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
}
