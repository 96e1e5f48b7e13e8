package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "stackit/contexts/knowledge-exchange/question-service/application"
	"stackit/contexts/knowledge-exchange/question-service/domain/entities"
	domainerrors "stackit/contexts/knowledge-exchange/question-service/domain/errors"
	"stackit/contexts/knowledge-exchange/question-service/ports"
)

// AskQuestionCommand is the write-model input for posting a question.
type AskQuestionCommand struct {
	OwnerID string
	Title   string
	Body    string
	Tags    []string
}

// QuestionUseCase orchestrates question commands: ask, view, vote toggles,
// and admin deletion. Every state change appends an outbox event so
// downstream consumers (live broadcast, answer purge) stay consistent.
type QuestionUseCase struct {
	Questions ports.QuestionRepository
	Users     ports.UserDirectory
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// AskQuestion persists a new question and emits question.posted, whose
// message feeds the broadcast-style live event for all connected users.
func (uc QuestionUseCase) AskQuestion(ctx context.Context, cmd AskQuestionCommand) (entities.Question, error) {
	logger := application.ResolveLogger(uc.Logger)
	ownerID := strings.TrimSpace(cmd.OwnerID)
	title := strings.TrimSpace(cmd.Title)
	if ownerID == "" || title == "" || strings.TrimSpace(cmd.Body) == "" {
		logger.Warn("ask question validation failed",
			"event", "question_ask_validation_failed",
			"module", "knowledge-exchange/question-service",
			"layer", "application",
			"owner_id", ownerID,
		)
		return entities.Question{}, domainerrors.ErrInvalidQuestionInput
	}

	questionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Question{}, err
	}
	now := uc.now()
	question := entities.Question{
		QuestionID: questionID,
		Title:      title,
		Body:       strings.TrimSpace(cmd.Body),
		Tags:       entities.NormalizeTags(cmd.Tags),
		OwnerID:    ownerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.Questions.SaveQuestion(ctx, question); err != nil {
		return entities.Question{}, err
	}

	message := fmt.Sprintf("%s posted a new question: %s", uc.resolveUsername(ctx, ownerID), title)
	if err := uc.appendQuestionEvent(ctx, TopicQuestionPosted, question, now, map[string]any{
		"message": message,
	}); err != nil {
		return entities.Question{}, err
	}

	logger.Info("question posted",
		"event", "question_posted",
		"module", "knowledge-exchange/question-service",
		"layer", "application",
		"question_id", question.QuestionID,
		"owner_id", ownerID,
		"tags", len(question.Tags),
	)
	return question, nil
}

func (uc QuestionUseCase) resolveUsername(ctx context.Context, userID string) string {
	if uc.Users == nil {
		return userID
	}
	user, err := uc.Users.GetUser(ctx, userID)
	if err != nil || strings.TrimSpace(user.Username) == "" {
		// The live announcement degrades to the raw identifier rather than
		// failing the post.
		return userID
	}
	return user.Username
}
