package app

import (
	"time"

	"live-quiz-service/internal/domain"
)

// ApplyOrganizerAction validates the action against the transition table and
// applies it. Invalid (phase, action) pairs fail with ErrInvalidAction and
// leave the session untouched.
func (s *LiveQuizService) ApplyOrganizerAction(sessionID string, action domain.Action) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if !action.ValidFrom(session.phase) {
		return domain.ErrInvalidAction
	}

	switch action {
	case domain.ActionNextQuestion:
		return s.advanceToCountdownLocked(session)
	case domain.ActionSkipCountdown:
		s.scheduler.Cancel(session.id)
		s.openQuestionLocked(session)
	case domain.ActionGoToAnswer:
		s.scheduler.Cancel(session.id)
		session.phase = domain.PhaseAnswerShow
		session.broadcastLocked()
	case domain.ActionGoToFinalResults:
		session.phase = domain.PhaseFinalResults
		for _, p := range session.players {
			p.Pointer = 0
		}
		session.broadcastLocked()
	case domain.ActionEnd:
		s.scheduler.Cancel(session.id)
		session.phase = domain.PhaseEnd
		session.broadcastLocked()
	}
	return nil
}

// advanceToCountdownLocked moves the session to the next question's countdown
// and arms the auto-open timer. Shared by NEXT_QUESTION and lobby auto-start.
func (s *LiveQuizService) advanceToCountdownLocked(session *Session) error {
	if session.current >= len(session.questions) {
		return domain.ErrInvalidAction
	}
	session.current++
	session.phase = domain.PhaseQuestionCountdown
	session.broadcastLocked()

	position := session.current
	s.scheduler.Arm(session.id, s.timing.Countdown, func() {
		s.fireQuestionOpen(session.id, position)
	})
	return nil
}

// openQuestionLocked enters QUESTION_OPEN: records the open timestamp that
// anchors answer-time measurement, advances every present player's question
// pointer, and arms the auto-close timer for the question's time budget.
func (s *LiveQuizService) openQuestionLocked(session *Session) {
	session.phase = domain.PhaseQuestionOpen
	session.questionOpenedAt = s.clock()
	for _, p := range session.players {
		p.Pointer++
	}
	session.broadcastLocked()

	position := session.current
	question := session.questions[position-1]
	budget := time.Duration(questionTimeLimit(question)) * s.timing.TimeUnit
	s.scheduler.Arm(session.id, budget, func() {
		s.fireQuestionClose(session.id, position)
	})
}

// fireQuestionOpen is the countdown-elapsed transition. It re-reads the
// session at fire time; if the session already moved on, the fire is stale
// and deliberately does nothing.
func (s *LiveQuizService) fireQuestionOpen(sessionID string, position int) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.phase != domain.PhaseQuestionCountdown || session.current != position {
		return
	}
	s.openQuestionLocked(session)
}

// fireQuestionClose is the question-timeout transition, with the same
// staleness rule as fireQuestionOpen.
func (s *LiveQuizService) fireQuestionClose(sessionID string, position int) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.phase != domain.PhaseQuestionOpen || session.current != position {
		return
	}
	session.phase = domain.PhaseQuestionClose
	session.broadcastLocked()
}
