package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"stackit/contexts/knowledge-exchange/answer-service/application/commands"
	"stackit/contexts/knowledge-exchange/answer-service/application/queries"
	"stackit/contexts/knowledge-exchange/answer-service/domain/entities"
	domainerrors "stackit/contexts/knowledge-exchange/answer-service/domain/errors"
	httptransport "stackit/contexts/knowledge-exchange/answer-service/transport/http"
	"stackit/internal/shared/votable"
)

type Handler struct {
	Answers commands.AnswerUseCase
	Thread  queries.ThreadUseCase
	Logger  *slog.Logger
}

func (h Handler) SubmitAnswerHandler(
	ctx context.Context,
	callerID string,
	req httptransport.SubmitAnswerRequest,
) (httptransport.AnswerResponse, error) {
	answer, err := h.Answers.SubmitAnswer(ctx, commands.SubmitAnswerCommand{
		QuestionID: req.QuestionID,
		OwnerID:    callerID,
		Body:       req.Body,
	})
	if err != nil {
		return httptransport.AnswerResponse{}, err
	}
	return toAnswerResponse(answer), nil
}

func (h Handler) ListAnswersHandler(ctx context.Context, questionID string) (httptransport.AnswerListResponse, error) {
	answers, err := h.Thread.ListAnswers(ctx, questionID)
	if err != nil {
		return httptransport.AnswerListResponse{}, err
	}
	items := make([]httptransport.AnswerResponse, 0, len(answers))
	for _, answer := range answers {
		items = append(items, toAnswerResponse(answer))
	}
	return httptransport.AnswerListResponse{Items: items}, nil
}

func (h Handler) VoteAnswerHandler(
	ctx context.Context,
	answerID string,
	callerID string,
	req httptransport.VoteRequest,
) (httptransport.AnswerResponse, error) {
	direction, ok := votable.ParseDirection(req.Vote)
	if !ok {
		return httptransport.AnswerResponse{}, domainerrors.ErrInvalidVoteInput
	}
	answer, err := h.Answers.ApplyVote(ctx, commands.VoteAnswerCommand{
		AnswerID:  answerID,
		VoterID:   callerID,
		Direction: direction,
	})
	if err != nil {
		return httptransport.AnswerResponse{}, err
	}
	return toAnswerResponse(answer), nil
}

func (h Handler) AcceptAnswerHandler(
	ctx context.Context,
	answerID string,
	callerID string,
) (httptransport.AnswerResponse, error) {
	answer, err := h.Answers.AcceptAnswer(ctx, commands.AcceptAnswerCommand{
		AnswerID:   answerID,
		AccepterID: callerID,
	})
	if err != nil {
		return httptransport.AnswerResponse{}, err
	}
	return toAnswerResponse(answer), nil
}

func toAnswerResponse(answer entities.Answer) httptransport.AnswerResponse {
	return httptransport.AnswerResponse{
		AnswerID:   answer.AnswerID,
		QuestionID: answer.QuestionID,
		OwnerID:    answer.OwnerID,
		Body:       answer.Body,
		Upvotes:    len(answer.Votes.Upvoters),
		Downvotes:  len(answer.Votes.Downvoters),
		Score:      answer.Score(),
		Accepted:   answer.Accepted,
		CreatedAt:  answer.CreatedAt.UTC().Format(time.RFC3339),
	}
}
