package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"stackit/contexts/knowledge-exchange/question-service/application/commands"
	"stackit/contexts/knowledge-exchange/question-service/application/queries"
	"stackit/contexts/knowledge-exchange/question-service/domain/entities"
	domainerrors "stackit/contexts/knowledge-exchange/question-service/domain/errors"
	httptransport "stackit/contexts/knowledge-exchange/question-service/transport/http"
	"stackit/internal/shared/votable"
)

type Handler struct {
	Questions commands.QuestionUseCase
	Board     queries.BoardUseCase
	Logger    *slog.Logger
}

func (h Handler) AskQuestionHandler(
	ctx context.Context,
	callerID string,
	req httptransport.AskQuestionRequest,
) (httptransport.QuestionResponse, error) {
	question, err := h.Questions.AskQuestion(ctx, commands.AskQuestionCommand{
		OwnerID: callerID,
		Title:   req.Title,
		Body:    req.Body,
		Tags:    req.Tags,
	})
	if err != nil {
		return httptransport.QuestionResponse{}, err
	}
	return toQuestionResponse(question), nil
}

func (h Handler) ListQuestionsHandler(ctx context.Context) (httptransport.QuestionListResponse, error) {
	questions, err := h.Board.ListQuestions(ctx)
	if err != nil {
		return httptransport.QuestionListResponse{}, err
	}
	items := make([]httptransport.QuestionResponse, 0, len(questions))
	for _, question := range questions {
		items = append(items, toQuestionResponse(question))
	}
	return httptransport.QuestionListResponse{Items: items}, nil
}

// GetQuestionHandler serves a single question and counts the view.
func (h Handler) GetQuestionHandler(ctx context.Context, questionID string) (httptransport.QuestionResponse, error) {
	question, err := h.Questions.RegisterView(ctx, questionID)
	if err != nil {
		return httptransport.QuestionResponse{}, err
	}
	return toQuestionResponse(question), nil
}

func (h Handler) VoteQuestionHandler(
	ctx context.Context,
	questionID string,
	callerID string,
	req httptransport.VoteRequest,
) (httptransport.QuestionResponse, error) {
	direction, ok := votable.ParseDirection(req.Vote)
	if !ok {
		return httptransport.QuestionResponse{}, domainerrors.ErrInvalidVoteInput
	}
	question, err := h.Questions.ApplyVote(ctx, commands.VoteQuestionCommand{
		QuestionID: questionID,
		VoterID:    callerID,
		Direction:  direction,
	})
	if err != nil {
		return httptransport.QuestionResponse{}, err
	}
	return toQuestionResponse(question), nil
}

func (h Handler) DeleteQuestionHandler(ctx context.Context, questionID string, callerID string, callerRole string) error {
	return h.Questions.DeleteQuestion(ctx, commands.DeleteQuestionCommand{
		QuestionID: questionID,
		CallerID:   callerID,
		CallerRole: callerRole,
	})
}

func toQuestionResponse(question entities.Question) httptransport.QuestionResponse {
	return httptransport.QuestionResponse{
		QuestionID: question.QuestionID,
		Title:      question.Title,
		Body:       question.Body,
		Tags:       question.Tags,
		OwnerID:    question.OwnerID,
		Upvotes:    len(question.Votes.Upvoters),
		Downvotes:  len(question.Votes.Downvoters),
		Score:      question.Score(),
		Views:      question.Views,
		CreatedAt:  question.CreatedAt.UTC().Format(time.RFC3339),
	}
}
