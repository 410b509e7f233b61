package app

import (
	"math"
	"sort"

	"live-quiz-service/internal/domain"
)

// Results builds the ranked leaderboard and per-question statistics. It is a
// pure read, valid only once the session reached FINAL_RESULTS, and returns
// the same output on repeated calls while the phase holds.
func (s *LiveQuizService) Results(sessionID string) (domain.SessionResults, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionResults{}, domain.ErrSessionNotFound
	}

	session.mu.RLock()
	defer session.mu.RUnlock()

	if session.phase != domain.PhaseFinalResults {
		return domain.SessionResults{}, domain.ErrSessionNotInFinalResults
	}

	ranked := make([]domain.RankedPlayer, len(session.players))
	for i, p := range session.players {
		ranked[i] = domain.RankedPlayer{Name: p.Name, Score: p.Score}
	}
	// Stable sort keeps join order on ties.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	stats := make([]domain.QuestionStats, len(session.questions))
	for i, question := range session.questions {
		stats[i] = session.questionStatsLocked(i+1, question)
	}

	return domain.SessionResults{
		SessionID: session.id,
		Ranked:    ranked,
		Questions: stats,
	}, nil
}

func (s *Session) questionStatsLocked(position int, question domain.Question) domain.QuestionStats {
	records := s.answers[position]

	correctNames := make([]string, 0, len(records))
	var elapsedTotal int64
	for playerID, record := range records {
		elapsedTotal += record.elapsedMS
		if record.correct {
			if player := s.playerByID(playerID); player != nil {
				correctNames = append(correctNames, player.Name)
			}
		}
	}
	sort.Strings(correctNames)

	average := 0
	if len(records) > 0 {
		average = int(math.Round(float64(elapsedTotal) / float64(len(records))))
	}
	percent := 0
	if len(s.players) > 0 {
		percent = int(math.Round(100 * float64(len(correctNames)) / float64(len(s.players))))
	}

	return domain.QuestionStats{
		QuestionID:        question.ID,
		PlayersCorrect:    correctNames,
		AverageAnswerTime: average,
		PercentCorrect:    percent,
	}
}
