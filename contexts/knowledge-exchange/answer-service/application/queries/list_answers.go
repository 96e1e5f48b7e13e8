package queries

import (
	"context"
	"strings"

	"stackit/contexts/knowledge-exchange/answer-service/domain/entities"
	domainerrors "stackit/contexts/knowledge-exchange/answer-service/domain/errors"
	"stackit/contexts/knowledge-exchange/answer-service/ports"
)

// ThreadUseCase serves answer reads.
type ThreadUseCase struct {
	Answers ports.AnswerRepository
}

// ListAnswers returns a question's answers oldest first, so the thread reads
// in submission order.
func (uc ThreadUseCase) ListAnswers(ctx context.Context, questionID string) ([]entities.Answer, error) {
	if strings.TrimSpace(questionID) == "" {
		return nil, domainerrors.ErrInvalidAnswerInput
	}
	return uc.Answers.ListAnswersByQuestion(ctx, strings.TrimSpace(questionID))
}

func (uc ThreadUseCase) GetAnswer(ctx context.Context, answerID string) (entities.Answer, error) {
	if strings.TrimSpace(answerID) == "" {
		return entities.Answer{}, domainerrors.ErrInvalidAnswerInput
	}
	return uc.Answers.GetAnswer(ctx, strings.TrimSpace(answerID))
}
