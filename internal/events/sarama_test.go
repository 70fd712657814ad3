package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"

	"github.com/Remedy92/Culi-sub000/internal/extraction"
)

func sampleEvent() MenuExtracted {
	doc := &extraction.ExtractedMenu{
		Sections:   []extraction.MenuSection{{Name: "Mains"}},
		Items:      []extraction.MenuItem{{Name: "Steak"}, {Name: "Sole"}},
		Confidence: 81,
	}
	return NewMenuExtracted("upload-1", "rest-1", doc, 1, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
}

func TestSaramaPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewSaramaConfig())
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "menu.extracted" {
			t.Errorf("unexpected topic %q", msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "upload-1" {
			t.Errorf("unexpected key %q", key)
		}
		value, _ := msg.Value.Encode()
		var ev MenuExtracted
		if err := json.Unmarshal(value, &ev); err != nil {
			return err
		}
		if ev.Items != 2 || ev.Sections != 1 || ev.Confidence != 81 || ev.Warnings == nil {
			t.Errorf("unexpected payload %+v", ev)
		}
		return nil
	})

	pub := NewPublisherWithProducer(producer, "menu.extracted", nil)
	if err := pub.PublishMenuExtracted(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestSaramaPublisher_Failure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewSaramaConfig())
	boom := errors.New("broker down")
	producer.ExpectSendMessageAndFail(boom)

	pub := NewPublisherWithProducer(producer, "menu.extracted", nil)
	if err := pub.PublishMenuExtracted(context.Background(), sampleEvent()); !errors.Is(err, boom) {
		t.Fatalf("expected broker error, got %v", err)
	}
	_ = pub.Close()
}

func TestSaramaPublisher_CancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewSaramaConfig())
	pub := NewPublisherWithProducer(producer, "menu.extracted", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pub.PublishMenuExtracted(ctx, sampleEvent()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	_ = pub.Close()
}

func TestNewSaramaPublisher_NoBrokers(t *testing.T) {
	if _, err := NewSaramaPublisher(nil, "menu.extracted", nil); err == nil {
		t.Fatal("expected an error without brokers")
	}
}
