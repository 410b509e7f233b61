package domain

import "time"

// AnswerOption represents a possible answer for a question.
type AnswerOption struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question models a question with one or more correct options.
type Question struct {
	ID        string         `json:"id"`
	Prompt    string         `json:"prompt"`
	Options   []AnswerOption `json:"options"`
	TimeLimit int            `json:"timeLimit"` // time units before auto-close; defaults to 30 if zero
	Points    int            `json:"points"`    // defaults to 1 if zero
}

// CorrectOptionIDs returns the set of option ids flagged correct.
func (q Question) CorrectOptionIDs() map[string]struct{} {
	correct := make(map[string]struct{})
	for _, opt := range q.Options {
		if opt.Correct {
			correct[opt.ID] = struct{}{}
		}
	}
	return correct
}

// Quiz is a collection of questions as stored by the quiz-management side.
type Quiz struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// Player is a participant in a live session. Pointer tracks the question the
// player is currently on (1-based, 0 in the lobby and after final results).
type Player struct {
	ID      string
	Name    string
	Score   int
	Pointer int
}

// ChatMessage is one entry in a session's chat log.
type ChatMessage struct {
	PlayerName string    `json:"playerName"`
	Text       string    `json:"text"`
	SentAt     time.Time `json:"sentAt"`
}

// QuestionView is the client-safe shape of a question: correctness flags are
// stripped so players cannot read answers mid-game.
type QuestionView struct {
	ID        string       `json:"id"`
	Prompt    string       `json:"prompt"`
	Options   []OptionView `json:"options"`
	TimeLimit int          `json:"timeLimit"`
	Points    int          `json:"points"`
}

// OptionView is an answer option without its correctness flag.
type OptionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SessionState is a snapshot of a live session for clients.
type SessionState struct {
	SessionID       string         `json:"sessionId"`
	Phase           Phase          `json:"phase"`
	CurrentQuestion int            `json:"currentQuestion"`
	PlayerNames     []string       `json:"playerNames"`
	Questions       []QuestionView `json:"questions"`
	Chat            []ChatMessage  `json:"chat"`
}

// RankedPlayer is one leaderboard row in the final results.
type RankedPlayer struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// QuestionStats summarizes one question's outcomes across the session.
type QuestionStats struct {
	QuestionID        string   `json:"questionId"`
	PlayersCorrect    []string `json:"playersCorrect"`
	AverageAnswerTime int      `json:"averageAnswerTime"` // mean elapsed ms, rounded
	PercentCorrect    int      `json:"percentCorrect"`
}

// SessionResults is the final leaderboard plus per-question statistics.
type SessionResults struct {
	SessionID string          `json:"sessionId"`
	Ranked    []RankedPlayer  `json:"rankedPlayers"`
	Questions []QuestionStats `json:"questionStats"`
}
