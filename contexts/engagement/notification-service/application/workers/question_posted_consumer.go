package workers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "stackit/contexts/engagement/notification-service/application"
	"stackit/contexts/engagement/notification-service/ports"
	"stackit/internal/platform/realtime"
)

const (
	questionPostedTopic     = "question.posted"
	defaultQuestionPostedCG = "notification-service-question-cg"
)

// QuestionPostedConsumer turns question.posted events into the broadcast
// newQuestion live push. The announcement is ephemeral: nothing is persisted
// and offline users simply miss it.
type QuestionPostedConsumer struct {
	Subscriber    ports.EventSubscriber
	Dedup         ports.EventDedupStore
	Live          ports.LiveStream
	ConsumerGroup string
	DedupTTL      time.Duration
	Clock         ports.Clock
	Logger        *slog.Logger
}

// Start subscribes the consumer to question.posted with dedupe semantics.
func (c QuestionPostedConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultQuestionPostedCG
	}
	if err := c.Subscriber.Subscribe(ctx, questionPostedTopic, group, c.handleQuestionPosted); err != nil {
		logger.Error("question posted consumer subscribe failed",
			"event", "notification_question_posted_subscribe_failed",
			"module", "engagement/notification-service",
			"layer", "worker",
			"topic", questionPostedTopic,
			"consumer_group", group,
			"error", err.Error(),
		)
		return err
	}
	logger.Info("question posted consumer subscription active",
		"event", "notification_question_posted_consumer_started",
		"module", "engagement/notification-service",
		"layer", "worker",
		"consumer_group", group,
	)
	return nil
}

func (c QuestionPostedConsumer) handleQuestionPosted(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)
	if alreadyProcessed, err := c.reserveEvent(ctx, event); err != nil {
		return err
	} else if alreadyProcessed {
		logger.Debug("question.posted replay skipped",
			"event", "notification_question_posted_replayed",
			"module", "engagement/notification-service",
			"layer", "worker",
			"event_id", event.EventID,
		)
		return nil
	}

	var payload struct {
		QuestionID string `json:"question_id"`
		Message    string `json:"message"`
	}
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Error("question.posted payload decode failed",
			"event", "notification_question_posted_decode_failed",
			"module", "engagement/notification-service",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return err
	}
	message := strings.TrimSpace(payload.Message)
	if message == "" {
		logger.Warn("question.posted without message",
			"event", "notification_question_posted_no_message",
			"module", "engagement/notification-service",
			"layer", "worker",
			"event_id", event.EventID,
		)
		return nil
	}

	c.Live.Broadcast(realtime.NewQuestionEvent(message))

	logger.Info("question.posted consumed",
		"event", "notification_question_posted_consumed",
		"module", "engagement/notification-service",
		"layer", "worker",
		"event_id", event.EventID,
		"question_id", strings.TrimSpace(payload.QuestionID),
	)
	return nil
}

func (c QuestionPostedConsumer) reserveEvent(ctx context.Context, event ports.EventEnvelope) (bool, error) {
	logger := application.ResolveLogger(c.Logger)
	alreadyProcessed, err := c.Dedup.ReserveEvent(ctx, event.EventID, hashPayload(event.Data), c.now().Add(c.dedupTTL()))
	if err != nil {
		logger.Error("question posted event dedupe failed",
			"event", "notification_question_posted_dedupe_failed",
			"module", "engagement/notification-service",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"error", err.Error(),
		)
		return false, err
	}
	return alreadyProcessed, nil
}

func (c QuestionPostedConsumer) now() time.Time {
	now := time.Now().UTC()
	if c.Clock != nil {
		now = c.Clock.Now().UTC()
	}
	return now
}

func (c QuestionPostedConsumer) dedupTTL() time.Duration {
	if c.DedupTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return c.DedupTTL
}

func hashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
