package workers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "stackit/contexts/knowledge-exchange/answer-service/application"
	"stackit/contexts/knowledge-exchange/answer-service/ports"
)

const (
	questionDeletedTopic     = "question.deleted"
	defaultQuestionDeletedCG = "answer-service-question-cg"
)

// QuestionDeletedConsumer purges a question's answers when moderation removes
// the question, keeping the answer store free of orphaned threads.
type QuestionDeletedConsumer struct {
	Subscriber    ports.EventSubscriber
	Dedup         ports.EventDedupStore
	Answers       ports.AnswerRepository
	ConsumerGroup string
	DedupTTL      time.Duration
	Clock         ports.Clock
	Logger        *slog.Logger
}

// Start subscribes the consumer to question.deleted with dedupe semantics.
func (c QuestionDeletedConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultQuestionDeletedCG
	}
	if err := c.Subscriber.Subscribe(ctx, questionDeletedTopic, group, c.handleQuestionDeleted); err != nil {
		logger.Error("question deleted consumer subscribe failed",
			"event", "answer_question_deleted_subscribe_failed",
			"module", "knowledge-exchange/answer-service",
			"layer", "worker",
			"topic", questionDeletedTopic,
			"consumer_group", group,
			"error", err.Error(),
		)
		return err
	}
	logger.Info("question deleted consumer subscription active",
		"event", "answer_question_deleted_consumer_started",
		"module", "knowledge-exchange/answer-service",
		"layer", "worker",
		"consumer_group", group,
	)
	return nil
}

func (c QuestionDeletedConsumer) handleQuestionDeleted(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)
	if alreadyProcessed, err := c.reserveEvent(ctx, event); err != nil {
		return err
	} else if alreadyProcessed {
		logger.Debug("question.deleted replay skipped",
			"event", "answer_question_deleted_replayed",
			"module", "knowledge-exchange/answer-service",
			"layer", "worker",
			"event_id", event.EventID,
		)
		return nil
	}

	var payload struct {
		QuestionID string `json:"question_id"`
	}
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Error("question.deleted payload decode failed",
			"event", "answer_question_deleted_decode_failed",
			"module", "knowledge-exchange/answer-service",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return err
	}
	questionID := strings.TrimSpace(payload.QuestionID)
	if questionID == "" {
		logger.Warn("question.deleted without question id",
			"event", "answer_question_deleted_no_question",
			"module", "knowledge-exchange/answer-service",
			"layer", "worker",
			"event_id", event.EventID,
		)
		return nil
	}

	purged, err := c.Answers.PurgeByQuestion(ctx, questionID)
	if err != nil {
		logger.Error("question.deleted answer purge failed",
			"event", "answer_question_deleted_purge_failed",
			"module", "knowledge-exchange/answer-service",
			"layer", "worker",
			"event_id", event.EventID,
			"question_id", questionID,
			"error", err.Error(),
		)
		return err
	}

	logger.Info("question.deleted consumed",
		"event", "answer_question_deleted_consumed",
		"module", "knowledge-exchange/answer-service",
		"layer", "worker",
		"event_id", event.EventID,
		"question_id", questionID,
		"purged_answers", purged,
	)
	return nil
}

func (c QuestionDeletedConsumer) reserveEvent(ctx context.Context, event ports.EventEnvelope) (bool, error) {
	logger := application.ResolveLogger(c.Logger)
	alreadyProcessed, err := c.Dedup.ReserveEvent(ctx, event.EventID, hashPayload(event.Data), c.now().Add(c.dedupTTL()))
	if err != nil {
		logger.Error("question deleted event dedupe failed",
			"event", "answer_question_deleted_dedupe_failed",
			"module", "knowledge-exchange/answer-service",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"error", err.Error(),
		)
		return false, err
	}
	return alreadyProcessed, nil
}

func (c QuestionDeletedConsumer) now() time.Time {
	now := time.Now().UTC()
	if c.Clock != nil {
		now = c.Clock.Now().UTC()
	}
	return now
}

func (c QuestionDeletedConsumer) dedupTTL() time.Duration {
	if c.DedupTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return c.DedupTTL
}

func hashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
