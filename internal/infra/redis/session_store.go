package redis

import (
	"context"
	"sync"
	"time"

	"live-quiz-service/internal/app"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Live session objects stay in a local in-memory map so the in-process
//     phase machine and broadcast logic keep working unchanged.
//   - Redis marks session liveness and holds the playerId -> sessionId index,
//     so an operator can inspect running sessions and a future multi-instance
//     setup can route players.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
	players  map[string]string
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
		players:  make(map[string]string),
	}
}

func (s *SessionStore) Put(session *app.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.sessionKey(session.ID()), "1", s.ttl).Err()
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	return session, ok
}

func (s *SessionStore) ByPlayer(playerID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessionID, ok := s.players[playerID]
	if !ok {
		return nil, false
	}
	session, ok := s.sessions[sessionID]
	return session, ok
}

func (s *SessionStore) BindPlayer(playerID, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[playerID] = sessionID
	_ = s.client.Set(context.Background(), s.playerKey(playerID), sessionID, s.ttl).Err()
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	keys := []string{s.sessionKey(sessionID)}
	for playerID, sid := range s.players {
		if sid == sessionID {
			delete(s.players, playerID)
			keys = append(keys, s.playerKey(playerID))
		}
	}
	_ = s.client.Del(context.Background(), keys...).Err()
}

func (s *SessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.sessions)+len(s.players))
	for sessionID := range s.sessions {
		keys = append(keys, s.sessionKey(sessionID))
	}
	for playerID := range s.players {
		keys = append(keys, s.playerKey(playerID))
	}
	s.sessions = make(map[string]*app.Session)
	s.players = make(map[string]string)
	if len(keys) > 0 {
		_ = s.client.Del(context.Background(), keys...).Err()
	}
}

func (s *SessionStore) sessionKey(sessionID string) string {
	return "live:session:" + sessionID
}

func (s *SessionStore) playerKey(playerID string) string {
	return "live:player:" + playerID
}
