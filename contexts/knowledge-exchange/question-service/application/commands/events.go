package commands

import (
	"encoding/json"
	"time"

	"stackit/contexts/knowledge-exchange/question-service/ports"
)

const (
	TopicQuestionPosted      = "question.posted"
	TopicQuestionDeleted     = "question.deleted"
	TopicQuestionVoteApplied = "question.vote.applied"
)

func newQuestionEnvelope(
	eventID string,
	eventType string,
	questionID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Question events are partitioned by question so question-scoped consumers
	// observe them in order.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "question-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "question_id",
		PartitionKey:     questionID,
		Data:             payload,
	}, nil
}
