package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	notificationerrors "stackit/contexts/engagement/notification-service/domain/errors"
	notificationhttp "stackit/contexts/engagement/notification-service/transport/http"
)

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	caller, err := s.authenticate(r)
	if err != nil {
		writeNotificationError(w, http.StatusUnauthorized, "unauthenticated", "valid bearer token required")
		return
	}

	resp, err := s.notifications.Handler.ListNotificationsHandler(r.Context(), caller.UserID)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	caller, err := s.authenticate(r)
	if err != nil {
		writeNotificationError(w, http.StatusUnauthorized, "unauthenticated", "valid bearer token required")
		return
	}

	notificationID := r.PathValue("notification_id")
	resp, err := s.notifications.Handler.MarkReadHandler(r.Context(), notificationID, caller.UserID)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBroadcast(w http.ResponseWriter, r *http.Request) {
	caller, err := s.authenticate(r)
	if err != nil {
		writeNotificationError(w, http.StatusUnauthorized, "unauthenticated", "valid bearer token required")
		return
	}
	if !caller.IsAdmin() {
		writeNotificationError(w, http.StatusForbidden, "forbidden", "admin role required")
		return
	}

	var req notificationhttp.BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeNotificationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.notifications.Handler.BroadcastHandler(r.Context(), req)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeNotificationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, notificationerrors.ErrInvalidNotificationInput):
		writeNotificationError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, notificationerrors.ErrNotificationNotFound),
		errors.Is(err, notificationerrors.ErrUserNotFound):
		writeNotificationError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, notificationerrors.ErrForbidden):
		writeNotificationError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, notificationerrors.ErrConflict):
		writeNotificationError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeNotificationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeNotificationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, notificationhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
