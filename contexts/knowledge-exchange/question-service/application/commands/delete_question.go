package commands

import (
	"context"
	"strings"

	application "stackit/contexts/knowledge-exchange/question-service/application"
	domainerrors "stackit/contexts/knowledge-exchange/question-service/domain/errors"
)

// DeleteQuestionCommand removes a question through moderation. Only admins
// may delete; the deletion emits question.deleted so the answer service can
// purge orphaned answers, and produces no notification.
type DeleteQuestionCommand struct {
	QuestionID string
	CallerID   string
	CallerRole string
}

func (uc QuestionUseCase) DeleteQuestion(ctx context.Context, cmd DeleteQuestionCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	questionID := strings.TrimSpace(cmd.QuestionID)
	if questionID == "" {
		return domainerrors.ErrInvalidQuestionInput
	}
	if strings.TrimSpace(cmd.CallerRole) != "admin" {
		logger.Warn("question delete forbidden",
			"event", "question_delete_forbidden",
			"module", "knowledge-exchange/question-service",
			"layer", "application",
			"question_id", questionID,
			"caller_id", strings.TrimSpace(cmd.CallerID),
		)
		return domainerrors.ErrForbidden
	}

	question, err := uc.Questions.GetQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	if err := uc.Questions.DeleteQuestion(ctx, questionID); err != nil {
		return err
	}

	now := uc.now()
	if err := uc.appendQuestionEvent(ctx, TopicQuestionDeleted, question, now, map[string]any{
		"deleted_by": strings.TrimSpace(cmd.CallerID),
	}); err != nil {
		return err
	}

	logger.Info("question deleted",
		"event", "question_deleted",
		"module", "knowledge-exchange/question-service",
		"layer", "application",
		"question_id", questionID,
		"deleted_by", strings.TrimSpace(cmd.CallerID),
	)
	return nil
}
