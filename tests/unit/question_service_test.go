package unit

import (
	"context"
	"errors"
	"testing"

	questionservice "stackit/contexts/knowledge-exchange/question-service"
	domainerrors "stackit/contexts/knowledge-exchange/question-service/domain/errors"
	"stackit/contexts/knowledge-exchange/question-service/ports"
	httptransport "stackit/contexts/knowledge-exchange/question-service/transport/http"
)

func TestQuestionAskListAndView(t *testing.T) {
	module := questionservice.NewInMemoryModule(nil, nil)
	module.Store.SetUser(ports.UserRef{UserID: "user-1", Username: "alice", Role: "user"})

	first, err := module.Handler.AskQuestionHandler(context.Background(), "user-1", httptransport.AskQuestionRequest{
		Title: "How do goroutines leak?",
		Body:  "I see goroutine counts grow.",
		Tags:  []string{"go", "Go", "concurrency"},
	})
	if err != nil {
		t.Fatalf("ask question failed: %v", err)
	}
	if len(first.Tags) != 2 {
		t.Fatalf("expected duplicate tags collapsed, got %v", first.Tags)
	}

	second, err := module.Handler.AskQuestionHandler(context.Background(), "user-1", httptransport.AskQuestionRequest{
		Title: "What is an outbox?",
		Body:  "Looking for the pattern.",
	})
	if err != nil {
		t.Fatalf("ask second question failed: %v", err)
	}

	list, err := module.Handler.ListQuestionsHandler(context.Background())
	if err != nil {
		t.Fatalf("list questions failed: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(list.Items))
	}

	got, err := module.Handler.GetQuestionHandler(context.Background(), second.QuestionID)
	if err != nil {
		t.Fatalf("get question failed: %v", err)
	}
	if got.Views != 1 {
		t.Fatalf("expected view count 1 after fetch, got %d", got.Views)
	}
	again, err := module.Handler.GetQuestionHandler(context.Background(), second.QuestionID)
	if err != nil {
		t.Fatalf("second get failed: %v", err)
	}
	if again.Views != 2 {
		t.Fatalf("expected view count 2, got %d", again.Views)
	}
}

func TestQuestionAskValidation(t *testing.T) {
	module := questionservice.NewInMemoryModule(nil, nil)

	_, err := module.Handler.AskQuestionHandler(context.Background(), "user-1", httptransport.AskQuestionRequest{
		Title: "   ",
		Body:  "body",
	})
	if !errors.Is(err, domainerrors.ErrInvalidQuestionInput) {
		t.Fatalf("expected invalid input for blank title, got %v", err)
	}

	_, err = module.Handler.AskQuestionHandler(context.Background(), "user-1", httptransport.AskQuestionRequest{
		Title: "title",
		Body:  "",
	})
	if !errors.Is(err, domainerrors.ErrInvalidQuestionInput) {
		t.Fatalf("expected invalid input for blank body, got %v", err)
	}
}

func TestQuestionVoteToggleSequence(t *testing.T) {
	module := questionservice.NewInMemoryModule(nil, nil)
	asked, err := module.Handler.AskQuestionHandler(context.Background(), "owner-1", httptransport.AskQuestionRequest{
		Title: "Toggle semantics",
		Body:  "up, down, down",
	})
	if err != nil {
		t.Fatalf("ask question failed: %v", err)
	}

	up, err := module.Handler.VoteQuestionHandler(context.Background(), asked.QuestionID, "voter-1", httptransport.VoteRequest{Vote: "up"})
	if err != nil {
		t.Fatalf("upvote failed: %v", err)
	}
	if up.Score != 1 || up.Upvotes != 1 || up.Downvotes != 0 {
		t.Fatalf("expected score 1 after upvote, got score=%d up=%d down=%d", up.Score, up.Upvotes, up.Downvotes)
	}

	down, err := module.Handler.VoteQuestionHandler(context.Background(), asked.QuestionID, "voter-1", httptransport.VoteRequest{Vote: "down"})
	if err != nil {
		t.Fatalf("flip to downvote failed: %v", err)
	}
	if down.Score != -1 || down.Upvotes != 0 || down.Downvotes != 1 {
		t.Fatalf("expected score -1 after flip, got score=%d up=%d down=%d", down.Score, down.Upvotes, down.Downvotes)
	}

	repeat, err := module.Handler.VoteQuestionHandler(context.Background(), asked.QuestionID, "voter-1", httptransport.VoteRequest{Vote: "down"})
	if err != nil {
		t.Fatalf("repeat downvote failed: %v", err)
	}
	if repeat.Score != -1 || repeat.Downvotes != 1 {
		t.Fatalf("expected repeat downvote no-op, got score=%d down=%d", repeat.Score, repeat.Downvotes)
	}
}

func TestQuestionVoteRejectsUnknownDirection(t *testing.T) {
	module := questionservice.NewInMemoryModule(nil, nil)
	asked, err := module.Handler.AskQuestionHandler(context.Background(), "owner-1", httptransport.AskQuestionRequest{
		Title: "Direction parsing",
		Body:  "body",
	})
	if err != nil {
		t.Fatalf("ask question failed: %v", err)
	}

	_, err = module.Handler.VoteQuestionHandler(context.Background(), asked.QuestionID, "voter-1", httptransport.VoteRequest{Vote: "sideways"})
	if !errors.Is(err, domainerrors.ErrInvalidVoteInput) {
		t.Fatalf("expected invalid vote input, got %v", err)
	}
}

func TestQuestionDeleteRequiresAdminRole(t *testing.T) {
	module := questionservice.NewInMemoryModule(nil, nil)
	asked, err := module.Handler.AskQuestionHandler(context.Background(), "owner-1", httptransport.AskQuestionRequest{
		Title: "Delete me",
		Body:  "body",
	})
	if err != nil {
		t.Fatalf("ask question failed: %v", err)
	}

	if err := module.Handler.DeleteQuestionHandler(context.Background(), asked.QuestionID, "owner-1", "user"); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for non-admin, got %v", err)
	}
	if err := module.Handler.DeleteQuestionHandler(context.Background(), asked.QuestionID, "admin-1", "admin"); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if _, err := module.Handler.GetQuestionHandler(context.Background(), asked.QuestionID); !errors.Is(err, domainerrors.ErrQuestionNotFound) {
		t.Fatalf("expected question gone, got %v", err)
	}
}

func TestQuestionPostedEventLandsInOutbox(t *testing.T) {
	module := questionservice.NewInMemoryModule(nil, nil)
	module.Store.SetUser(ports.UserRef{UserID: "user-1", Username: "alice", Role: "user"})

	if _, err := module.Handler.AskQuestionHandler(context.Background(), "user-1", httptransport.AskQuestionRequest{
		Title: "Outbox check",
		Body:  "body",
	}); err != nil {
		t.Fatalf("ask question failed: %v", err)
	}

	pending, err := module.Store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending outbox failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending outbox row, got %d", len(pending))
	}
	if pending[0].EventType != "question.posted" {
		t.Fatalf("expected question.posted event, got %s", pending[0].EventType)
	}
}
