package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"live-quiz-service/internal/domain"
)

// stubStore is a minimal in-package SessionRepository so engine tests do not
// depend on the infra packages.
type stubStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	players  map[string]string
}

func newStubStore() *stubStore {
	return &stubStore{
		sessions: make(map[string]*Session),
		players:  make(map[string]string),
	}
}

func (s *stubStore) Put(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.id] = session
}

func (s *stubStore) Get(sessionID string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	return session, ok
}

func (s *stubStore) ByPlayer(playerID string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessionID, ok := s.players[playerID]
	if !ok {
		return nil, false
	}
	session, ok := s.sessions[sessionID]
	return session, ok
}

func (s *stubStore) BindPlayer(playerID, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[playerID] = sessionID
}

func (s *stubStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *stubStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*Session)
	s.players = make(map[string]string)
}

type stubQuizzes map[string]domain.Quiz

func (q stubQuizzes) GetQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	quiz, ok := q[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

func testQuiz() domain.Quiz {
	return domain.Quiz{
		ID: "quiz-1",
		Questions: []domain.Question{
			{
				ID:     "q1",
				Prompt: "Pick A",
				Options: []domain.AnswerOption{
					{ID: "a", Text: "A", Correct: true},
					{ID: "b", Text: "B", Correct: false},
					{ID: "c", Text: "C", Correct: false},
				},
				TimeLimit: 2,
				Points:    10,
			},
			{
				ID:     "q2",
				Prompt: "Pick A and C",
				Options: []domain.AnswerOption{
					{ID: "a", Text: "A", Correct: true},
					{ID: "b", Text: "B", Correct: false},
					{ID: "c", Text: "C", Correct: true},
				},
				TimeLimit: 2,
				Points:    6,
			},
			{
				ID:     "q3",
				Prompt: "Pick B",
				Options: []domain.AnswerOption{
					{ID: "a", Text: "A", Correct: false},
					{ID: "b", Text: "B", Correct: true},
				},
				TimeLimit: 2,
				Points:    4,
			},
		},
	}
}

// slowTiming keeps armed timers from firing inside a test.
func slowTiming() Timing {
	return Timing{Countdown: time.Hour, TimeUnit: time.Hour}
}

// fastTiming makes deferred transitions observable within a few sleeps.
func fastTiming() Timing {
	return Timing{Countdown: 10 * time.Millisecond, TimeUnit: 10 * time.Millisecond}
}

func newTestEngine(t *testing.T, timing Timing) (*LiveQuizService, *TransitionScheduler, string) {
	t.Helper()
	scheduler := NewTransitionScheduler()
	t.Cleanup(scheduler.CancelAll)
	service := NewLiveQuizService(newStubStore(), stubQuizzes{"quiz-1": testQuiz()}, scheduler, timing)
	sessionID, err := service.StartSession(context.Background(), "quiz-1", 0)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	return service, scheduler, sessionID
}

func mustJoin(t *testing.T, service *LiveQuizService, sessionID, name string) string {
	t.Helper()
	playerID, err := service.Join(sessionID, name)
	if err != nil {
		t.Fatalf("join %q: %v", name, err)
	}
	return playerID
}

// openFirstQuestion drives LOBBY -> QUESTION_OPEN without waiting on timers.
func openFirstQuestion(t *testing.T, service *LiveQuizService, sessionID string) {
	t.Helper()
	if err := service.ApplyOrganizerAction(sessionID, domain.ActionNextQuestion); err != nil {
		t.Fatalf("next question: %v", err)
	}
	if err := service.ApplyOrganizerAction(sessionID, domain.ActionSkipCountdown); err != nil {
		t.Fatalf("skip countdown: %v", err)
	}
}

func setPhase(service *LiveQuizService, sessionID string, phase domain.Phase, position int) {
	session, _ := service.sessions.Get(sessionID)
	session.mu.Lock()
	session.phase = phase
	session.current = position
	session.mu.Unlock()
}

func currentPhase(t *testing.T, service *LiveQuizService, sessionID string) domain.Phase {
	t.Helper()
	session, ok := service.sessions.Get(sessionID)
	if !ok {
		t.Fatalf("session %s missing", sessionID)
	}
	return session.Phase()
}

func waitForPhase(t *testing.T, service *LiveQuizService, sessionID string, want domain.Phase) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if currentPhase(t, service, sessionID) == want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("phase never reached %s, stuck at %s", want, currentPhase(t, service, sessionID))
}
