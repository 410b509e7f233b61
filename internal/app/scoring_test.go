package app

import (
	"testing"

	"live-quiz-service/internal/domain"
)

func TestSubmitAnswerUnknownPlayer(t *testing.T) {
	service, _, _ := newTestEngine(t, slowTiming())
	if err := service.SubmitAnswer("ghost", 1, []string{"a"}); err != domain.ErrPlayerNotFound {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestSubmitAnswerValidation(t *testing.T) {
	service, _, sessionID := newTestEngine(t, slowTiming())
	playerID := mustJoin(t, service, sessionID, "Alice")

	// Session still in lobby: answers are not accepted yet.
	if err := service.SubmitAnswer(playerID, 1, []string{"a"}); err != domain.ErrSessionNotOpen {
		t.Fatalf("expected ErrSessionNotOpen in lobby, got %v", err)
	}

	openFirstQuestion(t, service, sessionID)

	cases := []struct {
		name     string
		position int
		answers  []string
		want     error
	}{
		{"position zero", 0, []string{"a"}, domain.ErrInvalidQuestionPosition},
		{"position past end", 4, []string{"a"}, domain.ErrInvalidQuestionPosition},
		{"not current question", 2, []string{"a"}, domain.ErrWrongQuestion},
		{"unknown option", 1, []string{"z"}, domain.ErrInvalidAnswerID},
		{"duplicate options", 1, []string{"a", "a"}, domain.ErrDuplicateAnswerIDs},
		{"no options", 1, nil, domain.ErrEmptyAnswer},
	}
	for _, tc := range cases {
		if err := service.SubmitAnswer(playerID, tc.position, tc.answers); err != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestScoreSplitsAcrossCorrectSubmitters(t *testing.T) {
	service, _, sessionID := newTestEngine(t, slowTiming())
	alice := mustJoin(t, service, sessionID, "Alice")
	bob := mustJoin(t, service, sessionID, "Bob")
	carol := mustJoin(t, service, sessionID, "Carol")
	openFirstQuestion(t, service, sessionID)

	// q1 is worth 10 points, correct set {a}.
	if err := service.SubmitAnswer(alice, 1, []string{"a"}); err != nil {
		t.Fatalf("alice submit: %v", err)
	}
	if got := playerScore(t, service, sessionID, "Alice"); got != 10 {
		t.Fatalf("first correct submitter should take all 10, got %d", got)
	}

	if err := service.SubmitAnswer(bob, 1, []string{"a"}); err != nil {
		t.Fatalf("bob submit: %v", err)
	}
	if got := playerScore(t, service, sessionID, "Bob"); got != 5 {
		t.Fatalf("second correct submitter should get round(10/2)=5, got %d", got)
	}
	// Alice's earlier award is not retroactively rebalanced.
	if got := playerScore(t, service, sessionID, "Alice"); got != 10 {
		t.Fatalf("alice's award changed to %d", got)
	}

	// An incorrect submission earns zero and affects nobody.
	if err := service.SubmitAnswer(carol, 1, []string{"b"}); err != nil {
		t.Fatalf("carol submit: %v", err)
	}
	if got := playerScore(t, service, sessionID, "Carol"); got != 0 {
		t.Fatalf("incorrect answer scored %d", got)
	}
	if playerScore(t, service, sessionID, "Alice") != 10 || playerScore(t, service, sessionID, "Bob") != 5 {
		t.Fatalf("incorrect submission disturbed other scores")
	}
}

func TestExactSetCorrectness(t *testing.T) {
	service, _, sessionID := newTestEngine(t, slowTiming())
	alice := mustJoin(t, service, sessionID, "Alice")

	// Walk to q2, correct set {a, c}, worth 6 points.
	openFirstQuestion(t, service, sessionID)
	if err := service.ApplyOrganizerAction(sessionID, domain.ActionGoToAnswer); err != nil {
		t.Fatalf("go to answer: %v", err)
	}
	if err := service.ApplyOrganizerAction(sessionID, domain.ActionNextQuestion); err != nil {
		t.Fatalf("next question: %v", err)
	}
	if err := service.ApplyOrganizerAction(sessionID, domain.ActionSkipCountdown); err != nil {
		t.Fatalf("skip countdown: %v", err)
	}

	// Subset and superset are both wrong; only the exact set scores.
	if err := service.SubmitAnswer(alice, 2, []string{"a"}); err != nil {
		t.Fatalf("subset submit: %v", err)
	}
	if got := playerScore(t, service, sessionID, "Alice"); got != 0 {
		t.Fatalf("subset scored %d", got)
	}
	if err := service.SubmitAnswer(alice, 2, []string{"a", "b", "c"}); err != nil {
		t.Fatalf("superset submit: %v", err)
	}
	if got := playerScore(t, service, sessionID, "Alice"); got != 0 {
		t.Fatalf("superset scored %d", got)
	}
	if err := service.SubmitAnswer(alice, 2, []string{"c", "a"}); err != nil {
		t.Fatalf("exact submit: %v", err)
	}
	if got := playerScore(t, service, sessionID, "Alice"); got != 6 {
		t.Fatalf("exact set should score 6, got %d", got)
	}
}

func TestResubmissionCountsOnlyFinalAnswer(t *testing.T) {
	service, _, sessionID := newTestEngine(t, slowTiming())
	alice := mustJoin(t, service, sessionID, "Alice")
	openFirstQuestion(t, service, sessionID)

	if err := service.SubmitAnswer(alice, 1, []string{"a"}); err != nil {
		t.Fatalf("correct submit: %v", err)
	}
	if got := playerScore(t, service, sessionID, "Alice"); got != 10 {
		t.Fatalf("expected 10 after correct answer, got %d", got)
	}

	// Changing the answer to a wrong one reverts the earlier award.
	if err := service.SubmitAnswer(alice, 1, []string{"b"}); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if got := playerScore(t, service, sessionID, "Alice"); got != 0 {
		t.Fatalf("expected 0 after wrong resubmission, got %d", got)
	}

	// And flipping back scores against the current correct-submitter count.
	if err := service.SubmitAnswer(alice, 1, []string{"a"}); err != nil {
		t.Fatalf("second resubmit: %v", err)
	}
	if got := playerScore(t, service, sessionID, "Alice"); got != 10 {
		t.Fatalf("expected 10 after correcting again, got %d", got)
	}
}

func playerScore(t *testing.T, service *LiveQuizService, sessionID, name string) int {
	t.Helper()
	session, ok := service.sessions.Get(sessionID)
	if !ok {
		t.Fatalf("session %s missing", sessionID)
	}
	session.mu.RLock()
	defer session.mu.RUnlock()
	player := session.playerByName(name)
	if player == nil {
		t.Fatalf("player %s missing", name)
	}
	return player.Score
}
