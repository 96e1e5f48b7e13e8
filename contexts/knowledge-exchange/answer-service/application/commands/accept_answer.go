package commands

import (
	"context"
	"strings"

	application "stackit/contexts/knowledge-exchange/answer-service/application"
	"stackit/contexts/knowledge-exchange/answer-service/domain/entities"
	domainerrors "stackit/contexts/knowledge-exchange/answer-service/domain/errors"
	"stackit/contexts/knowledge-exchange/answer-service/ports"
)

// AcceptAnswerCommand marks one answer as its question's accepted answer.
type AcceptAnswerCommand struct {
	AnswerID   string
	AccepterID string
}

// AcceptAnswer enforces the single-accepted-answer invariant. Only the
// question owner may accept, and the repository's SetAccepted clears every
// sibling and sets the target in one atomic update, so re-accepting a
// different answer moves the mark. Accepting the already-accepted answer is
// idempotent on state but still re-notifies the answer owner.
func (uc AnswerUseCase) AcceptAnswer(ctx context.Context, cmd AcceptAnswerCommand) (entities.Answer, error) {
	logger := application.ResolveLogger(uc.Logger)
	answerID := strings.TrimSpace(cmd.AnswerID)
	accepterID := strings.TrimSpace(cmd.AccepterID)
	if answerID == "" || accepterID == "" {
		return entities.Answer{}, domainerrors.ErrInvalidAnswerInput
	}

	answer, err := uc.Answers.GetAnswer(ctx, answerID)
	if err != nil {
		return entities.Answer{}, err
	}
	question, err := uc.Questions.GetQuestion(ctx, answer.QuestionID)
	if err != nil {
		return entities.Answer{}, err
	}
	if question.OwnerID != accepterID {
		logger.Warn("acceptance rejected for non-owner",
			"event", "answer_accept_forbidden",
			"module", "knowledge-exchange/answer-service",
			"layer", "application",
			"question_id", question.QuestionID,
			"answer_id", answerID,
			"accepter_id", accepterID,
		)
		return entities.Answer{}, domainerrors.ErrForbidden
	}

	accepted, err := uc.Answers.SetAccepted(ctx, question.QuestionID, answerID)
	if err != nil {
		return entities.Answer{}, err
	}

	now := uc.now()
	if err := uc.appendAnswerEvent(ctx, TopicAnswerAccepted, accepted, now, map[string]any{
		"accepter_id": accepterID,
	}); err != nil {
		return entities.Answer{}, err
	}

	if uc.Notifier != nil && accepted.OwnerID != accepterID {
		note := ports.AnswerAcceptedNote{
			QuestionID:    question.QuestionID,
			QuestionTitle: question.Title,
			AnswerID:      accepted.AnswerID,
			AnswerOwnerID: accepted.OwnerID,
			AccepterID:    accepterID,
			AccepterName:  uc.resolveUsername(ctx, accepterID),
		}
		if err := uc.Notifier.AnswerAccepted(ctx, note); err != nil {
			logger.Error("answer accepted notification failed",
				"event", "answer_accept_notify_failed",
				"module", "knowledge-exchange/answer-service",
				"layer", "application",
				"question_id", question.QuestionID,
				"answer_id", accepted.AnswerID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("answer accepted",
		"event", "answer_accepted",
		"module", "knowledge-exchange/answer-service",
		"layer", "application",
		"question_id", question.QuestionID,
		"answer_id", accepted.AnswerID,
		"accepter_id", accepterID,
	)
	return accepted, nil
}
