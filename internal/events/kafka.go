package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/rvidyarthi/crickpool/pkg/contracts/events"
	"github.com/rvidyarthi/crickpool/pkg/contracts/topics"
)

// KafkaPublisher writes one topic per event kind.
type KafkaPublisher struct {
	betPlaced     *kafka.Writer
	betVoided     *kafka.Writer
	marketSettled *kafka.Writer
}

var _ Publisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(brokers string) *KafkaPublisher {
	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:                   kafka.TCP(brokers),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		}
	}

	return &KafkaPublisher{
		betPlaced:     newWriter(topics.BetPlaced),
		betVoided:     newWriter(topics.BetVoided),
		marketSettled: newWriter(topics.MarketSettled),
	}
}

func (p *KafkaPublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	return writeJSON(ctx, p.betPlaced, e.BetID, e)
}

func (p *KafkaPublisher) PublishBetVoided(ctx context.Context, e events.BetVoided) error {
	return writeJSON(ctx, p.betVoided, e.BetID, e)
}

func (p *KafkaPublisher) PublishMarketSettled(ctx context.Context, e events.MarketSettled) error {
	return writeJSON(ctx, p.marketSettled, e.MarketID, e)
}

func (p *KafkaPublisher) Close() error {
	return errors.Join(
		p.betPlaced.Close(),
		p.betVoided.Close(),
		p.marketSettled.Close(),
	)
}

func writeJSON(ctx context.Context, w *kafka.Writer, key string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: b})
	if err != nil {
		return fmt.Errorf("write message: %w", err)
	}

	return nil
}
