package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"

	"github.com/orbitads/orbit/backend/internal/config"
	"github.com/orbitads/orbit/backend/internal/logger"
)

// Producer publishes asset lifecycle events
type Producer interface {
	Publish(ctx context.Context, event *AssetEvent) error
	Close() error
}

// pulsarProducer publishes events to a Pulsar topic
type pulsarProducer struct {
	client   pulsar.Client
	producer pulsar.Producer
	logger   logger.Logger
}

// NewProducer creates an event producer from configuration. When events
// are disabled it returns a no-op producer so callers need no branching.
func NewProducer(cfg *config.EventsConfig, log logger.Logger) (Producer, error) {
	if !cfg.Enabled {
		return &noopProducer{}, nil
	}

	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL:               cfg.URL,
		ConnectionTimeout: 10 * time.Second,
		OperationTimeout:  30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pulsar client: %w", err)
	}

	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic:                   cfg.Topic,
		SendTimeout:             30 * time.Second,
		MaxPendingMessages:      100,
		BatchingMaxPublishDelay: 10 * time.Millisecond,
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	return &pulsarProducer{
		client:   client,
		producer: producer,
		logger:   log,
	}, nil
}

// Publish sends an asset event to the topic
func (p *pulsarProducer) Publish(ctx context.Context, event *AssetEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = p.producer.Send(ctx, &pulsar.ProducerMessage{
		Payload: payload,
		Key:     event.AssetID.String(),
		Properties: map[string]string{
			"type": event.Type,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.LogDebug("Asset event published", map[string]interface{}{
		"type":    event.Type,
		"assetId": event.AssetID,
	})
	return nil
}

// Close closes the producer and releases resources
func (p *pulsarProducer) Close() error {
	if p.producer != nil {
		p.producer.Close()
	}
	if p.client != nil {
		p.client.Close()
	}
	return nil
}

// noopProducer drops all events; used when eventing is not configured
type noopProducer struct{}

func (n *noopProducer) Publish(ctx context.Context, event *AssetEvent) error { return nil }
func (n *noopProducer) Close() error                                         { return nil }
