package unit

import (
	"context"
	"errors"
	"testing"

	answerservice "stackit/contexts/knowledge-exchange/answer-service"
	domainerrors "stackit/contexts/knowledge-exchange/answer-service/domain/errors"
	"stackit/contexts/knowledge-exchange/answer-service/ports"
	httptransport "stackit/contexts/knowledge-exchange/answer-service/transport/http"
)

type recordingNotifier struct {
	submitted []ports.AnswerSubmittedNote
	accepted  []ports.AnswerAcceptedNote
}

func (n *recordingNotifier) AnswerSubmitted(_ context.Context, note ports.AnswerSubmittedNote) error {
	n.submitted = append(n.submitted, note)
	return nil
}

func (n *recordingNotifier) AnswerAccepted(_ context.Context, note ports.AnswerAcceptedNote) error {
	n.accepted = append(n.accepted, note)
	return nil
}

func newAnswerFixture(t *testing.T) (answerservice.Module, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	module := answerservice.NewInMemoryModule(nil, notifier, nil)
	module.Store.SetQuestion(ports.QuestionRef{
		QuestionID: "question-1",
		OwnerID:    "owner-1",
		Title:      "How do goroutines leak?",
	})
	module.Store.SetUser(ports.UserRef{UserID: "owner-1", Username: "alice", Role: "user"})
	module.Store.SetUser(ports.UserRef{UserID: "user-2", Username: "bob", Role: "user"})
	return module, notifier
}

func TestAnswerSubmitNotifiesQuestionOwner(t *testing.T) {
	module, notifier := newAnswerFixture(t)

	resp, err := module.Handler.SubmitAnswerHandler(context.Background(), "user-2", httptransport.SubmitAnswerRequest{
		QuestionID: "question-1",
		Body:       "Use pprof and look for blocked sends.",
	})
	if err != nil {
		t.Fatalf("submit answer failed: %v", err)
	}
	if resp.QuestionID != "question-1" {
		t.Fatalf("expected answer bound to question-1, got %s", resp.QuestionID)
	}
	if len(notifier.submitted) != 1 {
		t.Fatalf("expected 1 submitted note, got %d", len(notifier.submitted))
	}
	note := notifier.submitted[0]
	if note.QuestionOwnerID != "owner-1" || note.AnswererName != "bob" || note.QuestionTitle != "How do goroutines leak?" {
		t.Fatalf("unexpected note: %+v", note)
	}
}

func TestAnswerSelfSubmitSkipsNotification(t *testing.T) {
	module, notifier := newAnswerFixture(t)

	if _, err := module.Handler.SubmitAnswerHandler(context.Background(), "owner-1", httptransport.SubmitAnswerRequest{
		QuestionID: "question-1",
		Body:       "Answering my own question.",
	}); err != nil {
		t.Fatalf("self submit failed: %v", err)
	}
	if len(notifier.submitted) != 0 {
		t.Fatalf("expected no note for self answer, got %d", len(notifier.submitted))
	}
}

func TestAnswerSubmitUnknownQuestionFails(t *testing.T) {
	module, _ := newAnswerFixture(t)

	_, err := module.Handler.SubmitAnswerHandler(context.Background(), "user-2", httptransport.SubmitAnswerRequest{
		QuestionID: "question-404",
		Body:       "body",
	})
	if !errors.Is(err, domainerrors.ErrQuestionNotFound) {
		t.Fatalf("expected question not found, got %v", err)
	}
}

func TestAnswerListOldestFirst(t *testing.T) {
	module, _ := newAnswerFixture(t)

	first, err := module.Handler.SubmitAnswerHandler(context.Background(), "user-2", httptransport.SubmitAnswerRequest{
		QuestionID: "question-1",
		Body:       "first",
	})
	if err != nil {
		t.Fatalf("submit first failed: %v", err)
	}
	if _, err := module.Handler.SubmitAnswerHandler(context.Background(), "owner-1", httptransport.SubmitAnswerRequest{
		QuestionID: "question-1",
		Body:       "second",
	}); err != nil {
		t.Fatalf("submit second failed: %v", err)
	}

	list, err := module.Handler.ListAnswersHandler(context.Background(), "question-1")
	if err != nil {
		t.Fatalf("list answers failed: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(list.Items))
	}
	if list.Items[0].AnswerID != first.AnswerID && list.Items[0].Body != "first" {
		t.Fatalf("expected submission order, got %+v", list.Items)
	}
}

func TestAnswerVoteToggle(t *testing.T) {
	module, _ := newAnswerFixture(t)
	submitted, err := module.Handler.SubmitAnswerHandler(context.Background(), "user-2", httptransport.SubmitAnswerRequest{
		QuestionID: "question-1",
		Body:       "vote on me",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	up, err := module.Handler.VoteAnswerHandler(context.Background(), submitted.AnswerID, "voter-1", httptransport.VoteRequest{Vote: "up"})
	if err != nil {
		t.Fatalf("upvote failed: %v", err)
	}
	if up.Score != 1 {
		t.Fatalf("expected score 1, got %d", up.Score)
	}
	flip, err := module.Handler.VoteAnswerHandler(context.Background(), submitted.AnswerID, "voter-1", httptransport.VoteRequest{Vote: "down"})
	if err != nil {
		t.Fatalf("flip failed: %v", err)
	}
	if flip.Score != -1 || flip.Upvotes != 0 {
		t.Fatalf("expected flip to score -1, got score=%d up=%d", flip.Score, flip.Upvotes)
	}
}

func TestAnswerAcceptOwnerOnlyAndSingleAccepted(t *testing.T) {
	module, notifier := newAnswerFixture(t)

	first, err := module.Handler.SubmitAnswerHandler(context.Background(), "user-2", httptransport.SubmitAnswerRequest{
		QuestionID: "question-1",
		Body:       "first candidate",
	})
	if err != nil {
		t.Fatalf("submit first failed: %v", err)
	}
	second, err := module.Handler.SubmitAnswerHandler(context.Background(), "user-2", httptransport.SubmitAnswerRequest{
		QuestionID: "question-1",
		Body:       "second candidate",
	})
	if err != nil {
		t.Fatalf("submit second failed: %v", err)
	}

	if _, err := module.Handler.AcceptAnswerHandler(context.Background(), first.AnswerID, "user-2"); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for non-owner acceptance, got %v", err)
	}

	accepted, err := module.Handler.AcceptAnswerHandler(context.Background(), first.AnswerID, "owner-1")
	if err != nil {
		t.Fatalf("accept first failed: %v", err)
	}
	if !accepted.Accepted {
		t.Fatalf("expected first answer accepted")
	}

	switched, err := module.Handler.AcceptAnswerHandler(context.Background(), second.AnswerID, "owner-1")
	if err != nil {
		t.Fatalf("accept second failed: %v", err)
	}
	if !switched.Accepted {
		t.Fatalf("expected second answer accepted")
	}

	list, err := module.Handler.ListAnswersHandler(context.Background(), "question-1")
	if err != nil {
		t.Fatalf("list answers failed: %v", err)
	}
	acceptedCount := 0
	for _, item := range list.Items {
		if item.Accepted {
			acceptedCount++
			if item.AnswerID != second.AnswerID {
				t.Fatalf("expected only second answer accepted, got %s", item.AnswerID)
			}
		}
	}
	if acceptedCount != 1 {
		t.Fatalf("expected exactly one accepted answer, got %d", acceptedCount)
	}

	if len(notifier.accepted) != 2 {
		t.Fatalf("expected acceptance note per accept, got %d", len(notifier.accepted))
	}
	if notifier.accepted[0].AnswerOwnerID != "user-2" || notifier.accepted[0].AccepterName != "alice" {
		t.Fatalf("unexpected acceptance note: %+v", notifier.accepted[0])
	}
}

func TestAnswerReAcceptReNotifies(t *testing.T) {
	module, notifier := newAnswerFixture(t)
	submitted, err := module.Handler.SubmitAnswerHandler(context.Background(), "user-2", httptransport.SubmitAnswerRequest{
		QuestionID: "question-1",
		Body:       "accept me twice",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if _, err := module.Handler.AcceptAnswerHandler(context.Background(), submitted.AnswerID, "owner-1"); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}
	if _, err := module.Handler.AcceptAnswerHandler(context.Background(), submitted.AnswerID, "owner-1"); err != nil {
		t.Fatalf("re-accept failed: %v", err)
	}
	if len(notifier.accepted) != 2 {
		t.Fatalf("expected re-accept to re-notify, got %d notes", len(notifier.accepted))
	}
}

func TestAnswerAcceptUnknownAnswer(t *testing.T) {
	module, _ := newAnswerFixture(t)
	if _, err := module.Handler.AcceptAnswerHandler(context.Background(), "answer-404", "owner-1"); !errors.Is(err, domainerrors.ErrAnswerNotFound) {
		t.Fatalf("expected answer not found, got %v", err)
	}
}
