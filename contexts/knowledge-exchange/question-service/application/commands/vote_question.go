package commands

import (
	"context"
	"strings"
	"time"

	application "stackit/contexts/knowledge-exchange/question-service/application"
	"stackit/contexts/knowledge-exchange/question-service/domain/entities"
	domainerrors "stackit/contexts/knowledge-exchange/question-service/domain/errors"
	"stackit/internal/shared/votable"
)

// VoteQuestionCommand toggles a caller's vote on a question.
type VoteQuestionCommand struct {
	QuestionID string
	VoterID    string
	Direction  votable.Direction
}

// ApplyVote runs the vote toggle inside the repository's per-question atomic
// update: a repeat vote in the same direction is a no-op, an opposite vote
// flips sets in the same update, and the voter is never observable in both
// sets. Votes are intentionally silent; no notification is produced.
func (uc QuestionUseCase) ApplyVote(ctx context.Context, cmd VoteQuestionCommand) (entities.Question, error) {
	logger := application.ResolveLogger(uc.Logger)
	questionID := strings.TrimSpace(cmd.QuestionID)
	voterID := strings.TrimSpace(cmd.VoterID)
	if questionID == "" || voterID == "" ||
		(cmd.Direction != votable.DirectionUp && cmd.Direction != votable.DirectionDown) {
		return entities.Question{}, domainerrors.ErrInvalidVoteInput
	}

	changed := false
	now := uc.now()
	question, err := uc.Questions.UpdateQuestionAtomic(ctx, questionID, func(question *entities.Question) error {
		changed = question.Votes.Apply(voterID, cmd.Direction)
		if changed {
			question.UpdatedAt = now
		}
		return nil
	})
	if err != nil {
		return entities.Question{}, err
	}
	if !changed {
		return question, nil
	}

	if err := uc.appendQuestionEvent(ctx, TopicQuestionVoteApplied, question, now, map[string]any{
		"voter_id":  voterID,
		"direction": string(cmd.Direction),
		"score":     question.Score(),
	}); err != nil {
		return entities.Question{}, err
	}

	logger.Info("question vote applied",
		"event", "question_vote_applied",
		"module", "knowledge-exchange/question-service",
		"layer", "application",
		"question_id", questionID,
		"voter_id", voterID,
		"direction", string(cmd.Direction),
		"score", question.Score(),
	)
	return question, nil
}

// RegisterView atomically increments the question's view counter and returns
// the refreshed entity.
func (uc QuestionUseCase) RegisterView(ctx context.Context, questionID string) (entities.Question, error) {
	questionID = strings.TrimSpace(questionID)
	if questionID == "" {
		return entities.Question{}, domainerrors.ErrInvalidQuestionInput
	}
	return uc.Questions.UpdateQuestionAtomic(ctx, questionID, func(question *entities.Question) error {
		question.Views++
		return nil
	})
}

func (uc QuestionUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func (uc QuestionUseCase) appendQuestionEvent(
	ctx context.Context,
	eventType string,
	question entities.Question,
	occurredAt time.Time,
	data map[string]any,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	payload := map[string]any{
		"question_id": question.QuestionID,
		"owner_id":    question.OwnerID,
		"title":       question.Title,
		"occurred_at": occurredAt.UTC().Format(time.RFC3339),
	}
	for key, value := range data {
		payload[key] = value
	}
	envelope, err := newQuestionEnvelope(eventID, eventType, question.QuestionID, occurredAt, payload)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}
