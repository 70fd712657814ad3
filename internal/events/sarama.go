package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type SaramaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

func NewSaramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 100 * time.Millisecond
	cfg.Producer.Return.Successes = true // required by SyncProducer
	cfg.Net.DialTimeout = 30 * time.Second
	cfg.Net.ReadTimeout = 30 * time.Second
	cfg.Net.WriteTimeout = 30 * time.Second
	return cfg
}

func NewSaramaPublisher(brokers []string, topic string, logger *zap.Logger) (*SaramaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	producer, err := sarama.NewSyncProducer(brokers, NewSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create sarama producer: %w", err)
	}
	logger.Info("kafka producer ready", zap.Strings("brokers", brokers), zap.String("topic", topic))
	return NewPublisherWithProducer(producer, topic, logger), nil
}

// NewPublisherWithProducer wraps an existing producer, e.g. a mock.
func NewPublisherWithProducer(producer sarama.SyncProducer, topic string, logger *zap.Logger) *SaramaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaramaPublisher{producer: producer, topic: topic, logger: logger}
}

// PublishMenuExtracted keys messages by upload ID so every event for one
// upload lands on the same partition.
func (p *SaramaPublisher) PublishMenuExtracted(ctx context.Context, ev MenuExtracted) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.UploadID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		p.logger.Error("failed to publish menu event",
			zap.String("topic", p.topic),
			zap.String("upload_id", ev.UploadID),
			zap.Error(err),
		)
		return err
	}

	p.logger.Debug("menu event published",
		zap.String("upload_id", ev.UploadID),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

func (p *SaramaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
