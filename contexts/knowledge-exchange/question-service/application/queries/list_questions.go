package queries

import (
	"context"
	"strings"

	"stackit/contexts/knowledge-exchange/question-service/domain/entities"
	domainerrors "stackit/contexts/knowledge-exchange/question-service/domain/errors"
	"stackit/contexts/knowledge-exchange/question-service/ports"
)

// BoardUseCase serves question reads.
type BoardUseCase struct {
	Questions ports.QuestionRepository
}

// ListQuestions returns every question, newest first. Re-querying yields the
// current persisted state.
func (uc BoardUseCase) ListQuestions(ctx context.Context) ([]entities.Question, error) {
	return uc.Questions.ListQuestions(ctx)
}

func (uc BoardUseCase) GetQuestion(ctx context.Context, questionID string) (entities.Question, error) {
	if strings.TrimSpace(questionID) == "" {
		return entities.Question{}, domainerrors.ErrInvalidQuestionInput
	}
	return uc.Questions.GetQuestion(ctx, strings.TrimSpace(questionID))
}
