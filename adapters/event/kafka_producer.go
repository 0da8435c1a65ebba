package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-pages/internal/config"
	"github.com/khoahotran/profile-pages/pkg/logger"
)

const TopicProfileEvents = "profile.events"

const EventRevalidate = "page.revalidate"

type PageEventPayload struct {
	EventType   string    `json:"event_type"`
	Username    string    `json:"username"`
	RequestedAt time.Time `json:"requested_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	ProfileEventsWriter messageWriter
	logger              logger.Logger
	now                 func() time.Time
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'profile.events'
	profileWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicProfileEvents,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	log.Info("Initialize Kafka Producers successfully.")

	return &KafkaProducerClient{
		ProfileEventsWriter: profileWriter,
		logger:              log,
		now:                 time.Now,
	}, nil
}

// PublishRevalidate keys the message by username so every request for one
// page lands on the same partition, in order.
func (c *KafkaProducerClient) PublishRevalidate(ctx context.Context, username string) error {
	payload := PageEventPayload{
		EventType:   EventRevalidate,
		Username:    username,
		RequestedAt: c.now().UTC(),
	}
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal page event: %w", err)
	}

	err = c.ProfileEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(username),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("write to %s: %w", TopicProfileEvents, err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.ProfileEventsWriter != nil {
		if err := c.ProfileEventsWriter.Close(); err != nil {
			c.logger.Warn("Failed to close Kafka writer", zap.Error(err))
		}
	}
	c.logger.Info("Closed Kafka Producers")
}

// DecodePageEvent parses a message read from TopicProfileEvents.
func DecodePageEvent(msg kafka.Message) (PageEventPayload, error) {
	var payload PageEventPayload
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		return payload, fmt.Errorf("unmarshal page event: %w", err)
	}
	if payload.Username == "" {
		payload.Username = string(msg.Key)
	}
	if payload.Username == "" {
		return payload, fmt.Errorf("page event without username")
	}
	return payload, nil
}
