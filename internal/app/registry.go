package app

import (
	"math/rand"
	"regexp"
	"strings"

	"live-quiz-service/internal/domain"
	"github.com/google/uuid"
)

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)

// Join admits a player into a session's lobby and returns the new player id.
// A blank name gets a generated one. Reaching the auto-start threshold
// advances the session to the first question's countdown in the same call.
func (s *LiveQuizService) Join(sessionID, requestedName string) (string, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return "", domain.ErrSessionNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.phase != domain.PhaseLobby {
		return "", domain.ErrSessionNotInLobby
	}

	name := requestedName
	if isBlank(name) {
		name = generateName()
		for session.playerByName(name) != nil {
			name = generateName()
		}
	} else {
		if !namePattern.MatchString(name) {
			return "", domain.ErrInvalidName
		}
		if session.playerByName(name) != nil {
			return "", domain.ErrNameTaken
		}
	}

	player := &domain.Player{ID: uuid.New().String(), Name: name}
	session.players = append(session.players, player)
	s.sessions.BindPlayer(player.ID, session.id)
	session.broadcastLocked()

	if session.autoStart > 0 && len(session.players) == session.autoStart {
		// Same path as a NEXT_QUESTION action, timer included.
		_ = s.advanceToCountdownLocked(session)
	}
	return player.ID, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// generateName builds a guest name: 5 distinct random lowercase letters
// followed by 3 distinct random digits.
func generateName() string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	const digits = "0123456789"

	var b strings.Builder
	for _, i := range rand.Perm(len(letters))[:5] {
		b.WriteByte(letters[i])
	}
	for _, i := range rand.Perm(len(digits))[:3] {
		b.WriteByte(digits[i])
	}
	return b.String()
}
