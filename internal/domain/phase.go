package domain

// Phase is one state of the live session state machine.
type Phase string

const (
	PhaseLobby             Phase = "LOBBY"
	PhaseQuestionCountdown Phase = "QUESTION_COUNTDOWN"
	PhaseQuestionOpen      Phase = "QUESTION_OPEN"
	PhaseQuestionClose     Phase = "QUESTION_CLOSE"
	PhaseAnswerShow        Phase = "ANSWER_SHOW"
	PhaseFinalResults      Phase = "FINAL_RESULTS"
	PhaseEnd               Phase = "END"
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// Action is an organizer-issued command that drives a session through its phases.
type Action string

const (
	ActionNextQuestion     Action = "NEXT_QUESTION"
	ActionSkipCountdown    Action = "SKIP_COUNTDOWN"
	ActionGoToAnswer       Action = "GO_TO_ANSWER"
	ActionGoToFinalResults Action = "GO_TO_FINAL_RESULTS"
	ActionEnd              Action = "END"
)

// actionSources lists the phases each action may be issued from. Timer-fired
// transitions (countdown elapsed, question timeout) are not actions and do
// not appear here.
var actionSources = map[Action][]Phase{
	ActionNextQuestion:     {PhaseLobby, PhaseAnswerShow, PhaseQuestionClose},
	ActionSkipCountdown:    {PhaseQuestionCountdown},
	ActionGoToAnswer:       {PhaseQuestionOpen, PhaseQuestionClose},
	ActionGoToFinalResults: {PhaseQuestionClose, PhaseAnswerShow},
	ActionEnd:              {PhaseLobby, PhaseQuestionCountdown, PhaseQuestionOpen, PhaseQuestionClose, PhaseAnswerShow, PhaseFinalResults},
}

// ValidFrom reports whether the action may be issued while the session is in
// the given phase. Unknown actions are valid from nowhere.
func (a Action) ValidFrom(p Phase) bool {
	for _, from := range actionSources[a] {
		if from == p {
			return true
		}
	}
	return false
}
