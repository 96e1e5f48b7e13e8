package commands

import (
	"encoding/json"
	"time"

	"stackit/contexts/knowledge-exchange/answer-service/ports"
)

const (
	TopicAnswerSubmitted   = "answer.submitted"
	TopicAnswerAccepted    = "answer.accepted"
	TopicAnswerVoteApplied = "answer.vote.applied"
)

func newAnswerEnvelope(
	eventID string,
	eventType string,
	questionID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Answer events are partitioned by question so acceptance and purge
	// consumers observe all answers of a question in order.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "answer-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "question_id",
		PartitionKey:     questionID,
		Data:             payload,
	}, nil
}
