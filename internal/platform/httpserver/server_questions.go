package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	questionerrors "stackit/contexts/knowledge-exchange/question-service/domain/errors"
	questionhttp "stackit/contexts/knowledge-exchange/question-service/transport/http"
	"stackit/internal/platform/identity"
)

func (s *Server) handleAskQuestion(w http.ResponseWriter, r *http.Request) {
	caller, err := s.authenticate(r)
	if err != nil {
		writeQuestionError(w, http.StatusUnauthorized, "unauthenticated", "valid bearer token required")
		return
	}

	var req questionhttp.AskQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeQuestionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.questions.Handler.AskQuestionHandler(r.Context(), caller.UserID, req)
	if err != nil {
		writeQuestionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	resp, err := s.questions.Handler.ListQuestionsHandler(r.Context())
	if err != nil {
		writeQuestionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("question_id")
	resp, err := s.questions.Handler.GetQuestionHandler(r.Context(), questionID)
	if err != nil {
		writeQuestionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoteQuestion(w http.ResponseWriter, r *http.Request) {
	caller, err := s.authenticate(r)
	if err != nil {
		writeQuestionError(w, http.StatusUnauthorized, "unauthenticated", "valid bearer token required")
		return
	}

	var req questionhttp.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeQuestionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	questionID := r.PathValue("question_id")
	resp, err := s.questions.Handler.VoteQuestionHandler(r.Context(), questionID, caller.UserID, req)
	if err != nil {
		writeQuestionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	caller, err := s.authenticate(r)
	if err != nil {
		writeQuestionError(w, http.StatusUnauthorized, "unauthenticated", "valid bearer token required")
		return
	}
	if !caller.IsAdmin() {
		writeQuestionError(w, http.StatusForbidden, "forbidden", "admin role required")
		return
	}

	questionID := r.PathValue("question_id")
	if err := s.questions.Handler.DeleteQuestionHandler(r.Context(), questionID, caller.UserID, caller.Role); err != nil {
		writeQuestionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Question rejected and deleted"})
}

func writeQuestionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, questionerrors.ErrInvalidQuestionInput),
		errors.Is(err, questionerrors.ErrInvalidVoteInput):
		writeQuestionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, questionerrors.ErrQuestionNotFound),
		errors.Is(err, questionerrors.ErrUserNotFound):
		writeQuestionError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, questionerrors.ErrForbidden):
		writeQuestionError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, questionerrors.ErrConflict):
		writeQuestionError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, identity.ErrUnauthenticated):
		writeQuestionError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	default:
		writeQuestionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeQuestionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, questionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
