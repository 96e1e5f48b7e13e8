package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "stackit/contexts/knowledge-exchange/answer-service/application"
	"stackit/contexts/knowledge-exchange/answer-service/domain/entities"
	domainerrors "stackit/contexts/knowledge-exchange/answer-service/domain/errors"
	"stackit/contexts/knowledge-exchange/answer-service/ports"
)

// SubmitAnswerCommand is the write-model input for answering a question.
type SubmitAnswerCommand struct {
	QuestionID string
	OwnerID    string
	Body       string
}

// AnswerUseCase orchestrates answer commands: submit, vote toggles, and
// acceptance. Targeted notifications go through the Notifier boundary
// synchronously; state-change events go through the outbox.
type AnswerUseCase struct {
	Answers   ports.AnswerRepository
	Questions ports.QuestionDirectory
	Users     ports.UserDirectory
	Notifier  ports.Notifier
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// SubmitAnswer persists a new answer and notifies the question owner. The
// owner answering their own question produces no notification.
func (uc AnswerUseCase) SubmitAnswer(ctx context.Context, cmd SubmitAnswerCommand) (entities.Answer, error) {
	logger := application.ResolveLogger(uc.Logger)
	questionID := strings.TrimSpace(cmd.QuestionID)
	ownerID := strings.TrimSpace(cmd.OwnerID)
	body := strings.TrimSpace(cmd.Body)
	if questionID == "" || ownerID == "" || body == "" {
		logger.Warn("submit answer validation failed",
			"event", "answer_submit_validation_failed",
			"module", "knowledge-exchange/answer-service",
			"layer", "application",
			"question_id", questionID,
			"owner_id", ownerID,
		)
		return entities.Answer{}, domainerrors.ErrInvalidAnswerInput
	}

	question, err := uc.Questions.GetQuestion(ctx, questionID)
	if err != nil {
		return entities.Answer{}, err
	}

	answerID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Answer{}, err
	}
	now := uc.now()
	answer := entities.Answer{
		AnswerID:   answerID,
		QuestionID: question.QuestionID,
		OwnerID:    ownerID,
		Body:       body,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.Answers.SaveAnswer(ctx, answer); err != nil {
		return entities.Answer{}, err
	}

	if err := uc.appendAnswerEvent(ctx, TopicAnswerSubmitted, answer, now, map[string]any{
		"question_owner_id": question.OwnerID,
	}); err != nil {
		return entities.Answer{}, err
	}

	if uc.Notifier != nil && question.OwnerID != ownerID {
		note := ports.AnswerSubmittedNote{
			QuestionID:      question.QuestionID,
			QuestionOwnerID: question.OwnerID,
			QuestionTitle:   question.Title,
			AnswererID:      ownerID,
			AnswererName:    uc.resolveUsername(ctx, ownerID),
		}
		if err := uc.Notifier.AnswerSubmitted(ctx, note); err != nil {
			// The answer is already durable; notification delivery is reported
			// and retried by the dispatcher, not re-driven from here.
			logger.Error("answer submitted notification failed",
				"event", "answer_submit_notify_failed",
				"module", "knowledge-exchange/answer-service",
				"layer", "application",
				"question_id", question.QuestionID,
				"answer_id", answer.AnswerID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("answer submitted",
		"event", "answer_submitted",
		"module", "knowledge-exchange/answer-service",
		"layer", "application",
		"question_id", question.QuestionID,
		"answer_id", answer.AnswerID,
		"owner_id", ownerID,
	)
	return answer, nil
}

func (uc AnswerUseCase) resolveUsername(ctx context.Context, userID string) string {
	if uc.Users == nil {
		return userID
	}
	user, err := uc.Users.GetUser(ctx, userID)
	if err != nil || strings.TrimSpace(user.Username) == "" {
		return userID
	}
	return user.Username
}

func (uc AnswerUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func (uc AnswerUseCase) appendAnswerEvent(
	ctx context.Context,
	eventType string,
	answer entities.Answer,
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
		"answer_id":   answer.AnswerID,
		"question_id": answer.QuestionID,
		"owner_id":    answer.OwnerID,
		"occurred_at": occurredAt.UTC().Format(time.RFC3339),
	}
	for key, value := range data {
		payload[key] = value
	}
	envelope, err := newAnswerEnvelope(eventID, eventType, answer.QuestionID, occurredAt, payload)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}
