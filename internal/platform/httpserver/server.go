package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	notificationservice "stackit/contexts/engagement/notification-service"
	answerservice "stackit/contexts/knowledge-exchange/answer-service"
	questionservice "stackit/contexts/knowledge-exchange/question-service"
	adminservice "stackit/contexts/internal-ops/admin-service"
	"stackit/internal/platform/identity"
	"stackit/internal/platform/realtime"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux           *http.ServeMux
	logger        *slog.Logger
	addr          string
	questions     questionservice.Module
	answers       answerservice.Module
	notifications notificationservice.Module
	admin         adminservice.Module
	identity      *identity.Resolver
	live          *realtime.Registry
}

func New(
	questions questionservice.Module,
	answers answerservice.Module,
	notifications notificationservice.Module,
	admin adminservice.Module,
	resolver *identity.Resolver,
	live *realtime.Registry,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		questions:     questions,
		answers:       answers,
		notifications: notifications,
		admin:         admin,
		identity:      resolver,
		live:          live,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routed mux for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/questions", s.handleAskQuestion)
	s.mux.HandleFunc("GET /api/questions", s.handleListQuestions)
	s.mux.HandleFunc("GET /api/questions/{question_id}", s.handleGetQuestion)
	s.mux.HandleFunc("POST /api/questions/{question_id}/vote", s.handleVoteQuestion)
	s.mux.HandleFunc("DELETE /api/questions/{question_id}", s.handleDeleteQuestion)

	s.mux.HandleFunc("POST /api/answers", s.handleSubmitAnswer)
	s.mux.HandleFunc("GET /api/questions/{question_id}/answers", s.handleListAnswers)
	s.mux.HandleFunc("POST /api/answers/{answer_id}/vote", s.handleVoteAnswer)
	s.mux.HandleFunc("POST /api/answers/{answer_id}/accept", s.handleAcceptAnswer)

	s.mux.HandleFunc("GET /api/notifications", s.handleListNotifications)
	s.mux.HandleFunc("POST /api/notifications/{notification_id}/read", s.handleMarkNotificationRead)
	s.mux.HandleFunc("POST /api/broadcast", s.handleBroadcast)

	s.mux.HandleFunc("GET /api/reports", s.handleReports)
	s.mux.HandleFunc("GET /api/admin/audit", s.handleListAuditLogs)
	s.mux.HandleFunc("POST /api/users/{user_id}/ban", s.handleBanUser)

	s.mux.HandleFunc("GET /ws", s.handleLiveSubscribe)
}

// authenticate resolves the caller from the Authorization header or, for
// websocket clients that cannot set headers, the token query parameter.
func (s *Server) authenticate(r *http.Request) (identity.Identity, error) {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	if after, ok := strings.CutPrefix(token, "Bearer "); ok {
		token = after
	}
	if token == "" {
		token = strings.TrimSpace(r.URL.Query().Get("token"))
	}
	return s.identity.Resolve(token)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
