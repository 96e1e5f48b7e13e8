package commands

import (
	"context"
	"strings"

	application "stackit/contexts/knowledge-exchange/answer-service/application"
	"stackit/contexts/knowledge-exchange/answer-service/domain/entities"
	domainerrors "stackit/contexts/knowledge-exchange/answer-service/domain/errors"
	"stackit/internal/shared/votable"
)

// VoteAnswerCommand toggles a caller's vote on an answer.
type VoteAnswerCommand struct {
	AnswerID  string
	VoterID   string
	Direction votable.Direction
}

// ApplyVote runs the vote toggle inside the repository's per-answer atomic
// update. A repeat vote in the same direction is a no-op and a vote in the
// opposite direction flips sets in the same update. Votes never notify.
func (uc AnswerUseCase) ApplyVote(ctx context.Context, cmd VoteAnswerCommand) (entities.Answer, error) {
	logger := application.ResolveLogger(uc.Logger)
	answerID := strings.TrimSpace(cmd.AnswerID)
	voterID := strings.TrimSpace(cmd.VoterID)
	if answerID == "" || voterID == "" ||
		(cmd.Direction != votable.DirectionUp && cmd.Direction != votable.DirectionDown) {
		return entities.Answer{}, domainerrors.ErrInvalidVoteInput
	}

	changed := false
	now := uc.now()
	answer, err := uc.Answers.UpdateAnswerAtomic(ctx, answerID, func(answer *entities.Answer) error {
		changed = answer.Votes.Apply(voterID, cmd.Direction)
		if changed {
			answer.UpdatedAt = now
		}
		return nil
	})
	if err != nil {
		return entities.Answer{}, err
	}
	if !changed {
		return answer, nil
	}

	if err := uc.appendAnswerEvent(ctx, TopicAnswerVoteApplied, answer, now, map[string]any{
		"voter_id":  voterID,
		"direction": string(cmd.Direction),
		"score":     answer.Score(),
	}); err != nil {
		return entities.Answer{}, err
	}

	logger.Info("answer vote applied",
		"event", "answer_vote_applied",
		"module", "knowledge-exchange/answer-service",
		"layer", "application",
		"answer_id", answerID,
		"voter_id", voterID,
		"direction", string(cmd.Direction),
		"score", answer.Score(),
	)
	return answer, nil
}
