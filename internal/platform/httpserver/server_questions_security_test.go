package httpserver

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	notificationservice "stackit/contexts/engagement/notification-service"
	answerservice "stackit/contexts/knowledge-exchange/answer-service"
	questionservice "stackit/contexts/knowledge-exchange/question-service"
	adminservice "stackit/contexts/internal-ops/admin-service"
	"stackit/internal/platform/identity"
	"stackit/internal/platform/realtime"
)

const testSigningSecret = "test-signing-secret"

func newTestServer() *Server {
	registry := realtime.NewRegistry(slog.Default())
	return New(
		questionservice.NewInMemoryModule(nil, slog.Default()),
		answerservice.NewInMemoryModule(nil, nil, slog.Default()),
		notificationservice.NewInMemoryModule(registry, slog.Default()),
		adminservice.NewInMemoryModule(slog.Default()),
		identity.NewResolver(testSigningSecret),
		registry,
		slog.Default(),
		":0",
	)
}

func bearerToken(t *testing.T, userID string, role string) string {
	t.Helper()
	token, err := identity.NewResolver(testSigningSecret).IssueToken(
		identity.Identity{UserID: userID, Role: role},
		time.Hour,
	)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + token
}

func TestAskQuestionRequiresAuthorization(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"title":"How do channels close?","description":"details","tags":["go"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/questions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAskQuestionRejectsGarbledToken(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"title":"How do channels close?","description":"details","tags":["go"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/questions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAskQuestionCreatedWithValidToken(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"title":"How do channels close?","description":"details","tags":["go","channels"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/questions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, "user-1", identity.RoleUser))

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		QuestionID string `json:"question_id"`
		OwnerID    string `json:"owner_id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.QuestionID == "" || resp.OwnerID != "user-1" {
		t.Fatalf("unexpected response: %s", rr.Body.String())
	}
}

func TestVoteQuestionRejectsMalformedBody(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/questions/question-1/vote", bytes.NewReader([]byte(`{"vote":`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, "user-1", identity.RoleUser))

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestDeleteQuestionRequiresAdminRole(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodDelete, "/api/questions/question-1", nil)
	req.Header.Set("Authorization", bearerToken(t, "user-1", identity.RoleUser))

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestDeleteQuestionUnknownIDReturnsNotFound(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodDelete, "/api/questions/question-404", nil)
	req.Header.Set("Authorization", bearerToken(t, "admin-1", identity.RoleAdmin))

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}
