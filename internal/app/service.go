package app

import (
	"context"
	"time"

	"live-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// SessionRepository abstracts how live sessions are stored (in-memory, Redis, etc).
// It also indexes playerId -> sessionId so answer submissions can resolve the
// owning session.
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	ByPlayer(playerID string) (*Session, bool)
	BindPlayer(playerID, sessionID string)
	Delete(sessionID string)
	Clear()
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// Timing holds the scheduler delays: Countdown before a question opens, and
// TimeUnit, the real duration of one question time-limit unit.
type Timing struct {
	Countdown time.Duration
	TimeUnit  time.Duration
}

// DefaultTiming is a 3s pre-question countdown with 1s time units.
func DefaultTiming() Timing {
	return Timing{Countdown: 3 * time.Second, TimeUnit: time.Second}
}

func (t Timing) withDefaults() Timing {
	d := DefaultTiming()
	if t.Countdown <= 0 {
		t.Countdown = d.Countdown
	}
	if t.TimeUnit <= 0 {
		t.TimeUnit = d.TimeUnit
	}
	return t
}

// LiveQuizService contains the live session use cases: starting sessions,
// organizer actions, player join/answer/chat, and results.
type LiveQuizService struct {
	sessions  SessionRepository
	quizzes   QuizRepository
	scheduler *TransitionScheduler
	timing    Timing
	clock     func() time.Time
}

func NewLiveQuizService(store SessionRepository, quizzes QuizRepository, scheduler *TransitionScheduler, timing Timing) *LiveQuizService {
	return &LiveQuizService{
		sessions:  store,
		quizzes:   quizzes,
		scheduler: scheduler,
		timing:    timing.withDefaults(),
		clock:     time.Now,
	}
}

// StartSession snapshots the quiz and creates a session in the lobby phase.
// The returned id identifies the session for every later call.
func (s *LiveQuizService) StartSession(ctx context.Context, quizID string, autoStartThreshold int) (string, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return "", err
	}

	session := newSessionWithClock(uuid.New().String(), quizID, quiz.Questions, autoStartThreshold, s.clock)
	s.sessions.Put(session)
	return session.id, nil
}

// SessionState returns the current client-safe view of a session.
func (s *LiveQuizService) SessionState(sessionID string) (domain.SessionState, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	session.mu.RLock()
	defer session.mu.RUnlock()
	return session.stateLocked(), nil
}

// Subscribe returns a channel that receives state updates for a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *LiveQuizService) Subscribe(sessionID string) (<-chan domain.SessionState, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// PostChat appends a message to the session's chat log on behalf of a player.
func (s *LiveQuizService) PostChat(playerID, text string) error {
	session, ok := s.sessions.ByPlayer(playerID)
	if !ok {
		return domain.ErrPlayerNotFound
	}
	if isBlank(text) {
		return domain.ErrEmptyChatMessage
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	player := session.playerByID(playerID)
	if player == nil {
		return domain.ErrPlayerNotFound
	}
	session.chat = append(session.chat, domain.ChatMessage{
		PlayerName: player.Name,
		Text:       text,
		SentAt:     s.clock(),
	})
	session.broadcastLocked()
	return nil
}

// Reset cancels every outstanding timer and clears all sessions, in that
// order, so no fired callback can revive cleared state.
func (s *LiveQuizService) Reset() {
	s.scheduler.CancelAll()
	s.sessions.Clear()
}
