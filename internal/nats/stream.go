package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/cartai/negotiation-platform/internal/model"
)

const (
	// StreamName is the name of the negotiations stream.
	StreamName = "NEGOTIATIONS"

	// SubjectPrefix is the prefix for all negotiation subjects.
	SubjectPrefix = "negotiation"
)

// StreamManager handles JetStream stream operations. Every run's
// transcript messages and final result are appended here for replay and
// audit.
type StreamManager struct {
	client *Client
}

// NewStreamManager creates a new stream manager.
func NewStreamManager(client *Client) *StreamManager {
	return &StreamManager{client: client}
}

// EnsureStream ensures the negotiations stream exists with proper configuration.
func (m *StreamManager) EnsureStream(ctx context.Context) error {
	js := m.client.JetStream()

	// Check if stream exists
	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil // Stream already exists
	}

	// Create stream
	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      90 * 24 * time.Hour,
		MaxBytes:    10 * 1024 * 1024 * 1024, // 10GB
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		Description: "All negotiation transcripts and results",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// MessageSubject returns the subject for a transcript message.
func MessageSubject(runID string, role model.Role) string {
	return fmt.Sprintf("%s.%s.msg.%s", SubjectPrefix, runID, role)
}

// ResultSubject returns the subject for a run's final result.
func ResultSubject(runID string) string {
	return fmt.Sprintf("%s.%s.result", SubjectPrefix, runID)
}

// PublishMessage publishes one transcript message.
func (m *StreamManager) PublishMessage(ctx context.Context, msg *model.AgentMessage) (uint64, error) {
	subject := MessageSubject(msg.RunID, msg.Role)

	data, err := json.Marshal(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal message: %w", err)
	}

	ack, err := m.client.JetStream().Publish(ctx, subject, data)
	if err != nil {
		return 0, fmt.Errorf("failed to publish message: %w", err)
	}

	return ack.Sequence, nil
}

// PublishResult publishes a run's final result.
func (m *StreamManager) PublishResult(ctx context.Context, runID string, result *model.NegotiationResult) (uint64, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal result: %w", err)
	}

	ack, err := m.client.JetStream().Publish(ctx, ResultSubject(runID), data)
	if err != nil {
		return 0, fmt.Errorf("failed to publish result: %w", err)
	}

	return ack.Sequence, nil
}

// GetTranscript retrieves a run's transcript messages starting after a
// sequence.
func (m *StreamManager) GetTranscript(ctx context.Context, runID string, afterSequence uint64, limit int) ([]model.AgentMessage, uint64, bool, error) {
	js := m.client.JetStream()

	filterSubject := fmt.Sprintf("%s.%s.msg.>", SubjectPrefix, runID)

	consumerConfig := jetstream.ConsumerConfig{
		FilterSubject: filterSubject,
		AckPolicy:     jetstream.AckNonePolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	}

	if afterSequence > 0 {
		consumerConfig.DeliverPolicy = jetstream.DeliverByStartSequencePolicy
		consumerConfig.OptStartSeq = afterSequence + 1
	}

	consumer, err := js.CreateConsumer(ctx, StreamName, consumerConfig)
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to create consumer: %w", err)
	}

	var messages []model.AgentMessage
	var lastSequence uint64

	batch, err := consumer.Fetch(limit, jetstream.FetchMaxWait(2*time.Second))
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to fetch messages: %w", err)
	}

	for msg := range batch.Messages() {
		var message model.AgentMessage
		if err := json.Unmarshal(msg.Data(), &message); err != nil {
			continue
		}

		meta, err := msg.Metadata()
		if err == nil {
			message.Sequence = meta.Sequence.Stream
			lastSequence = meta.Sequence.Stream
		}

		messages = append(messages, message)
	}

	if batch.Error() != nil && batch.Error() != context.DeadlineExceeded {
		return nil, 0, false, fmt.Errorf("batch error: %w", batch.Error())
	}

	hasMore := len(messages) == limit

	return messages, lastSequence, hasMore, nil
}
