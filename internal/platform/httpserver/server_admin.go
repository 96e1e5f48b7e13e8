package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	adminerrors "stackit/contexts/internal-ops/admin-service/domain/errors"
	adminhttp "stackit/contexts/internal-ops/admin-service/transport/http"
)

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	caller, err := s.authenticate(r)
	if err != nil {
		writeAdminError(w, http.StatusUnauthorized, "unauthenticated", "valid bearer token required")
		return
	}
	if !caller.IsAdmin() {
		writeAdminError(w, http.StatusForbidden, "forbidden", "admin role required")
		return
	}

	resp, err := s.admin.Handler.ReportsHandler(r.Context())
	if err != nil {
		writeAdminDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAuditLogs(w http.ResponseWriter, r *http.Request) {
	caller, err := s.authenticate(r)
	if err != nil {
		writeAdminError(w, http.StatusUnauthorized, "unauthenticated", "valid bearer token required")
		return
	}
	if !caller.IsAdmin() {
		writeAdminError(w, http.StatusForbidden, "forbidden", "admin role required")
		return
	}

	limit := 0
	if limitRaw := r.URL.Query().Get("limit"); limitRaw != "" {
		parsed, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeAdminError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}

	resp, err := s.admin.Handler.ListAuditLogsHandler(r.Context(), limit)
	if err != nil {
		writeAdminDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBanUser(w http.ResponseWriter, r *http.Request) {
	caller, err := s.authenticate(r)
	if err != nil {
		writeAdminError(w, http.StatusUnauthorized, "unauthenticated", "valid bearer token required")
		return
	}
	if !caller.IsAdmin() {
		writeAdminError(w, http.StatusForbidden, "forbidden", "admin role required")
		return
	}

	userID := r.PathValue("user_id")
	resp, err := s.admin.Handler.BanUserHandler(r.Context(), caller.UserID, userID)
	if err != nil {
		writeAdminDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAdminDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, adminerrors.ErrInvalidInput):
		writeAdminError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, adminerrors.ErrUserNotFound):
		writeAdminError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, adminerrors.ErrForbidden):
		writeAdminError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeAdminError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAdminError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, adminhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
