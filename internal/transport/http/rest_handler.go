package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
)

// RestHandler exposes the organizer-facing endpoints: starting a session,
// driving it through its phases, and reading state and results.
type RestHandler struct {
	service *app.LiveQuizService
}

func NewRestHandler(service *app.LiveQuizService) *RestHandler {
	return &RestHandler{service: service}
}

// Register mounts the organizer routes on the mux.
func (h *RestHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /sessions", h.startSession)
	mux.HandleFunc("POST /sessions/{id}/actions", h.applyAction)
	mux.HandleFunc("GET /sessions/{id}", h.sessionState)
	mux.HandleFunc("GET /sessions/{id}/results", h.results)
}

type startSessionRequest struct {
	QuizID             string `json:"quizId"`
	AutoStartThreshold int    `json:"autoStartThreshold"`
}

type startSessionResponse struct {
	SessionID string `json:"sessionId"`
}

type actionRequest struct {
	Action string `json:"action"`
}

func (h *RestHandler) startSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QuizID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sessionID, err := h.service.StartSession(r.Context(), req.QuizID, req.AutoStartThreshold)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, startSessionResponse{SessionID: sessionID})
}

func (h *RestHandler) applyAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.service.ApplyOrganizerAction(r.PathValue("id"), domain.Action(req.Action)); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RestHandler) sessionState(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.SessionState(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *RestHandler) results(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Results(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// writeDomainError maps the core's tagged errors onto HTTP statuses:
// not-found 404, state and admission conflicts 409, bad input 400.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrPlayerNotFound),
		errors.Is(err, domain.ErrQuizNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAction),
		errors.Is(err, domain.ErrSessionNotInLobby),
		errors.Is(err, domain.ErrSessionNotOpen),
		errors.Is(err, domain.ErrSessionNotInFinalResults),
		errors.Is(err, domain.ErrWrongQuestion),
		errors.Is(err, domain.ErrNameTaken):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidQuestionPosition),
		errors.Is(err, domain.ErrInvalidAnswerID),
		errors.Is(err, domain.ErrDuplicateAnswerIDs),
		errors.Is(err, domain.ErrEmptyAnswer),
		errors.Is(err, domain.ErrEmptyChatMessage):
		status = http.StatusBadRequest
	}
	writeError(w, status, err.Error())
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorPayload{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}
