package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	answererrors "stackit/contexts/knowledge-exchange/answer-service/domain/errors"
	answerhttp "stackit/contexts/knowledge-exchange/answer-service/transport/http"
)

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	caller, err := s.authenticate(r)
	if err != nil {
		writeAnswerError(w, http.StatusUnauthorized, "unauthenticated", "valid bearer token required")
		return
	}

	var req answerhttp.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAnswerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.answers.Handler.SubmitAnswerHandler(r.Context(), caller.UserID, req)
	if err != nil {
		writeAnswerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListAnswers(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("question_id")
	resp, err := s.answers.Handler.ListAnswersHandler(r.Context(), questionID)
	if err != nil {
		writeAnswerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoteAnswer(w http.ResponseWriter, r *http.Request) {
	caller, err := s.authenticate(r)
	if err != nil {
		writeAnswerError(w, http.StatusUnauthorized, "unauthenticated", "valid bearer token required")
		return
	}

	var req answerhttp.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAnswerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	answerID := r.PathValue("answer_id")
	resp, err := s.answers.Handler.VoteAnswerHandler(r.Context(), answerID, caller.UserID, req)
	if err != nil {
		writeAnswerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAcceptAnswer(w http.ResponseWriter, r *http.Request) {
	caller, err := s.authenticate(r)
	if err != nil {
		writeAnswerError(w, http.StatusUnauthorized, "unauthenticated", "valid bearer token required")
		return
	}

	answerID := r.PathValue("answer_id")
	resp, err := s.answers.Handler.AcceptAnswerHandler(r.Context(), answerID, caller.UserID)
	if err != nil {
		writeAnswerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAnswerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, answererrors.ErrInvalidAnswerInput),
		errors.Is(err, answererrors.ErrInvalidVoteInput):
		writeAnswerError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, answererrors.ErrAnswerNotFound),
		errors.Is(err, answererrors.ErrQuestionNotFound),
		errors.Is(err, answererrors.ErrUserNotFound):
		writeAnswerError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, answererrors.ErrForbidden):
		writeAnswerError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, answererrors.ErrConflict):
		writeAnswerError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeAnswerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAnswerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, answerhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
