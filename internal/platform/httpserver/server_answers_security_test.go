package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	answerports "stackit/contexts/knowledge-exchange/answer-service/ports"
	"stackit/internal/platform/identity"
)

func seedAnswerThread(server *Server) {
	server.answers.Store.SetQuestion(answerports.QuestionRef{
		QuestionID: "question-1",
		OwnerID:    "owner-1",
		Title:      "How do channels close?",
	})
	server.answers.Store.SetUser(answerports.UserRef{UserID: "owner-1", Username: "alice", Role: identity.RoleUser})
	server.answers.Store.SetUser(answerports.UserRef{UserID: "user-2", Username: "bob", Role: identity.RoleUser})
}

func TestSubmitAnswerRequiresAuthorization(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"question_id":"question-1","content":"close with sync.Once"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/answers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSubmitAnswerCreatedWithValidToken(t *testing.T) {
	server := newTestServer()
	seedAnswerThread(server)

	body := []byte(`{"question_id":"question-1","content":"close with sync.Once"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/answers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, "user-2", identity.RoleUser))

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAcceptAnswerForbiddenForNonOwner(t *testing.T) {
	server := newTestServer()
	seedAnswerThread(server)

	body := []byte(`{"question_id":"question-1","content":"candidate"}`)
	submit := httptest.NewRequest(http.MethodPost, "/api/answers", bytes.NewReader(body))
	submit.Header.Set("Content-Type", "application/json")
	submit.Header.Set("Authorization", bearerToken(t, "user-2", identity.RoleUser))
	submitted := httptest.NewRecorder()
	server.mux.ServeHTTP(submitted, submit)
	if submitted.Code != http.StatusCreated {
		t.Fatalf("seed answer failed: %d body=%s", submitted.Code, submitted.Body.String())
	}
	var created struct {
		AnswerID string `json:"answer_id"`
	}
	if err := json.Unmarshal(submitted.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created answer: %v", err)
	}

	accept := httptest.NewRequest(http.MethodPost, "/api/answers/"+created.AnswerID+"/accept", nil)
	accept.Header.Set("Authorization", bearerToken(t, "user-2", identity.RoleUser))
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, accept)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}

	ownerAccept := httptest.NewRequest(http.MethodPost, "/api/answers/"+created.AnswerID+"/accept", nil)
	ownerAccept.Header.Set("Authorization", bearerToken(t, "owner-1", identity.RoleUser))
	ownerRR := httptest.NewRecorder()
	server.mux.ServeHTTP(ownerRR, ownerAccept)
	if ownerRR.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", ownerRR.Code, ownerRR.Body.String())
	}
}

func TestVoteAnswerUnknownIDReturnsNotFound(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/answers/answer-404/vote", bytes.NewReader([]byte(`{"vote":"up"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, "user-1", identity.RoleUser))

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}
