package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a session id does not resolve to a live session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrPlayerNotFound is returned when a player id does not belong to any session.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")

	// ErrInvalidAction is returned for an unknown action or one issued from a
	// phase that forbids it.
	ErrInvalidAction = errors.New("invalid action for current phase")
	// ErrSessionNotInLobby is returned when a player tries to join after the session left the lobby.
	ErrSessionNotInLobby = errors.New("session is not in lobby")
	// ErrSessionNotOpen is returned when an answer arrives outside QUESTION_OPEN.
	ErrSessionNotOpen = errors.New("session is not accepting answers")
	// ErrSessionNotInFinalResults is returned when results are requested before FINAL_RESULTS.
	ErrSessionNotInFinalResults = errors.New("session is not in final results")
	// ErrWrongQuestion is returned when an answer targets a question other than the current one.
	ErrWrongQuestion = errors.New("answer is for a different question")

	// ErrInvalidName is returned for names with characters outside letters, digits, and space.
	ErrInvalidName = errors.New("invalid player name")
	// ErrNameTaken is returned when the requested name is already used in the session.
	ErrNameTaken = errors.New("player name already taken")

	// ErrInvalidQuestionPosition is returned for positions outside the snapshot's range.
	ErrInvalidQuestionPosition = errors.New("question position out of range")
	// ErrInvalidAnswerID is returned when a submitted id is not an option of the question.
	ErrInvalidAnswerID = errors.New("answer id is not an option of this question")
	// ErrDuplicateAnswerIDs is returned when the submitted ids contain repeats.
	ErrDuplicateAnswerIDs = errors.New("duplicate answer ids")
	// ErrEmptyAnswer is returned when a submission carries no answer ids.
	ErrEmptyAnswer = errors.New("empty answer")

	// ErrEmptyChatMessage is returned for blank chat messages.
	ErrEmptyChatMessage = errors.New("empty chat message")
)
