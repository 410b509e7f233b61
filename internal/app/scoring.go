package app

import (
	"math"

	"live-quiz-service/internal/domain"
)

// SubmitAnswer records a player's submission for the currently open question
// and updates their score. A resubmission overwrites the earlier one and
// re-scores from scratch, so only the final submission counts.
func (s *LiveQuizService) SubmitAnswer(playerID string, position int, answerIDs []string) error {
	session, ok := s.sessions.ByPlayer(playerID)
	if !ok {
		return domain.ErrPlayerNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	player := session.playerByID(playerID)
	if player == nil {
		return domain.ErrPlayerNotFound
	}
	if session.phase != domain.PhaseQuestionOpen {
		return domain.ErrSessionNotOpen
	}
	if position < 1 || position > len(session.questions) {
		return domain.ErrInvalidQuestionPosition
	}
	if position != session.current {
		return domain.ErrWrongQuestion
	}

	question := session.questions[position-1]
	options := make(map[string]struct{}, len(question.Options))
	for _, opt := range question.Options {
		options[opt.ID] = struct{}{}
	}

	chosen := make(map[string]struct{}, len(answerIDs))
	for _, id := range answerIDs {
		if _, ok := options[id]; !ok {
			return domain.ErrInvalidAnswerID
		}
		if _, dup := chosen[id]; dup {
			return domain.ErrDuplicateAnswerIDs
		}
		chosen[id] = struct{}{}
	}
	if len(chosen) == 0 {
		return domain.ErrEmptyAnswer
	}

	record := &answerRecord{
		optionIDs: chosen,
		elapsedMS: s.clock().Sub(session.questionOpenedAt).Milliseconds(),
		correct:   setsEqual(chosen, question.CorrectOptionIDs()),
	}

	records := session.recordsFor(position)
	previousAward := 0
	if prev, ok := records[playerID]; ok {
		previousAward = prev.awarded
	}
	records[playerID] = record

	if record.correct {
		// The points split by the number of exactly-correct submissions
		// recorded at this moment, including this one. Players who answer
		// later see a bigger denominator; that arrival-order sensitivity is
		// intentional.
		correctSoFar := 0
		for _, r := range records {
			if r.correct {
				correctSoFar++
			}
		}
		record.awarded = int(math.Round(float64(questionPoints(question)) / float64(correctSoFar)))
	}

	player.Score += record.awarded - previousAward
	session.broadcastLocked()
	return nil
}

func setsEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}
