package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"stackit/contexts/knowledge-exchange/answer-service/domain/entities"
	domainerrors "stackit/contexts/knowledge-exchange/answer-service/domain/errors"
)

func seedThread(n int) []entities.Answer {
	answers := make([]entities.Answer, 0, n)
	for i := 0; i < n; i++ {
		answers = append(answers, entities.Answer{
			AnswerID:   fmt.Sprintf("answer-%d", i),
			QuestionID: "question-1",
			OwnerID:    fmt.Sprintf("user-%d", i),
			Body:       "seed body",
			CreatedAt:  time.Date(2025, 6, 1, 12, 0, i, 0, time.UTC),
		})
	}
	return answers
}

func TestSetAcceptedMovesTheMark(t *testing.T) {
	store := NewStore(seedThread(3))

	if _, err := store.SetAccepted(context.Background(), "question-1", "answer-0"); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}
	if _, err := store.SetAccepted(context.Background(), "question-1", "answer-2"); err != nil {
		t.Fatalf("second accept failed: %v", err)
	}

	answers, err := store.ListAnswersByQuestion(context.Background(), "question-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	accepted := 0
	for _, answer := range answers {
		if answer.Accepted {
			accepted++
			if answer.AnswerID != "answer-2" {
				t.Fatalf("expected answer-2 accepted, got %s", answer.AnswerID)
			}
		}
	}
	if accepted != 1 {
		t.Fatalf("expected exactly one accepted answer, got %d", accepted)
	}
}

func TestSetAcceptedRejectsAnswerFromOtherQuestion(t *testing.T) {
	store := NewStore(seedThread(1))
	if _, err := store.SetAccepted(context.Background(), "question-2", "answer-0"); !errors.Is(err, domainerrors.ErrAnswerNotFound) {
		t.Fatalf("expected answer not found, got %v", err)
	}
}

func TestSetAcceptedConcurrentConvergesToOne(t *testing.T) {
	const answers = 8
	store := NewStore(seedThread(answers))

	var wg sync.WaitGroup
	for i := 0; i < answers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := store.SetAccepted(context.Background(), "question-1", fmt.Sprintf("answer-%d", i)); err != nil {
				t.Errorf("accept answer-%d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	listed, err := store.ListAnswersByQuestion(context.Background(), "question-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	accepted := 0
	for _, answer := range listed {
		if answer.Accepted {
			accepted++
		}
	}
	if accepted != 1 {
		t.Fatalf("expected exactly one accepted answer after concurrent accepts, got %d", accepted)
	}
}

func TestUpdateAnswerAtomicConcurrentVotes(t *testing.T) {
	store := NewStore(seedThread(1))

	const voters = 16
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.UpdateAnswerAtomic(context.Background(), "answer-0", func(answer *entities.Answer) error {
				answer.Votes.Upvoters = append(answer.Votes.Upvoters, fmt.Sprintf("voter-%d", i))
				return nil
			})
			if err != nil {
				t.Errorf("vote %d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	answer, err := store.GetAnswer(context.Background(), "answer-0")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(answer.Votes.Upvoters) != voters {
		t.Fatalf("expected %d upvoters, got %d", voters, len(answer.Votes.Upvoters))
	}
}

func TestPurgeByQuestionLeavesOtherThreads(t *testing.T) {
	seed := seedThread(2)
	seed = append(seed, entities.Answer{
		AnswerID:   "answer-other",
		QuestionID: "question-2",
		OwnerID:    "user-9",
		Body:       "unrelated",
	})
	store := NewStore(seed)

	purged, err := store.PurgeByQuestion(context.Background(), "question-1")
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if purged != 2 {
		t.Fatalf("expected 2 purged, got %d", purged)
	}
	if _, err := store.GetAnswer(context.Background(), "answer-other"); err != nil {
		t.Fatalf("expected unrelated answer kept, got %v", err)
	}
}
