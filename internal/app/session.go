package app

import (
	"sync"
	"time"

	"live-quiz-service/internal/domain"
)

// Session is the in-memory record of one live quiz run. It owns an immutable
// snapshot of the quiz taken at start time; later edits to the stored quiz
// never reach a running session. All mutation happens under mu, one callback
// at a time.
type Session struct {
	id        string
	quizID    string
	questions []domain.Question
	autoStart int
	createdAt time.Time
	now       func() time.Time

	mu               sync.RWMutex
	phase            domain.Phase
	current          int // 1-based question position, 0 in the lobby
	questionOpenedAt time.Time
	players          []*domain.Player // join order
	answers          map[int]map[string]*answerRecord
	chat             []domain.ChatMessage
	subscribers      map[chan domain.SessionState]struct{}
}

// answerRecord is a player's live submission for one question. A resubmission
// overwrites it; awarded tracks the points granted so a rescore can revert them.
type answerRecord struct {
	optionIDs map[string]struct{}
	elapsedMS int64
	correct   bool
	awarded   int
}

// NewSession is exported for infrastructure layers and tests that need to
// seed sessions directly.
func NewSession(id, quizID string, questions []domain.Question, autoStart int) *Session {
	return newSessionWithClock(id, quizID, questions, autoStart, time.Now)
}

// newSessionWithClock allows deterministic timestamps in tests.
func newSessionWithClock(id, quizID string, questions []domain.Question, autoStart int, now func() time.Time) *Session {
	return &Session{
		id:          id,
		quizID:      quizID,
		questions:   snapshotQuestions(questions),
		autoStart:   autoStart,
		createdAt:   now(),
		now:         now,
		phase:       domain.PhaseLobby,
		answers:     make(map[int]map[string]*answerRecord),
		subscribers: make(map[chan domain.SessionState]struct{}),
	}
}

// snapshotQuestions deep-copies quiz content so the session is isolated from
// cache refreshes and quiz edits.
func snapshotQuestions(questions []domain.Question) []domain.Question {
	copied := make([]domain.Question, len(questions))
	for i, q := range questions {
		copied[i] = q
		copied[i].Options = make([]domain.AnswerOption, len(q.Options))
		copy(copied[i].Options, q.Options)
	}
	return copied
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Phase returns the current phase.
func (s *Session) Phase() domain.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

func (s *Session) playerByID(playerID string) *domain.Player {
	for _, p := range s.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

func (s *Session) playerByName(name string) *domain.Player {
	for _, p := range s.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (s *Session) recordsFor(position int) map[string]*answerRecord {
	records, ok := s.answers[position]
	if !ok {
		records = make(map[string]*answerRecord)
		s.answers[position] = records
	}
	return records
}

func (s *Session) subscribe() (<-chan domain.SessionState, func()) {
	ch := make(chan domain.SessionState, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.stateLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() domain.SessionState {
	state := s.stateLocked()
	for ch := range s.subscribers {
		select {
		case ch <- state:
		default:
			// Drop the stale update so a slow client never blocks the session.
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
	return state
}

func (s *Session) stateLocked() domain.SessionState {
	names := make([]string, len(s.players))
	for i, p := range s.players {
		names[i] = p.Name
	}
	chat := make([]domain.ChatMessage, len(s.chat))
	copy(chat, s.chat)
	return domain.SessionState{
		SessionID:       s.id,
		Phase:           s.phase,
		CurrentQuestion: s.current,
		PlayerNames:     names,
		Questions:       questionViews(s.questions),
		Chat:            chat,
	}
}

// questionViews strips correctness flags before content leaves the core.
func questionViews(questions []domain.Question) []domain.QuestionView {
	views := make([]domain.QuestionView, len(questions))
	for i, q := range questions {
		options := make([]domain.OptionView, len(q.Options))
		for j, opt := range q.Options {
			options[j] = domain.OptionView{ID: opt.ID, Text: opt.Text}
		}
		views[i] = domain.QuestionView{
			ID:        q.ID,
			Prompt:    q.Prompt,
			Options:   options,
			TimeLimit: questionTimeLimit(q),
			Points:    questionPoints(q),
		}
	}
	return views
}

func questionPoints(q domain.Question) int {
	if q.Points > 0 {
		return q.Points
	}
	return 1
}

func questionTimeLimit(q domain.Question) int {
	if q.TimeLimit > 0 {
		return q.TimeLimit
	}
	return 30
}
