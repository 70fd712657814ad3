package events

import (
	"context"
	"time"

	"github.com/Remedy92/Culi-sub000/internal/extraction"
)

// MenuExtracted is published once an extraction has been stored.
type MenuExtracted struct {
	UploadID     string    `json:"upload_id"`
	RestaurantID string    `json:"restaurant_id"`
	Confidence   float64   `json:"confidence"`
	Sections     int       `json:"sections"`
	Items        int       `json:"items"`
	Enhanced     int       `json:"enhanced_items"`
	Warnings     []string  `json:"warnings"`
	ExtractedAt  time.Time `json:"extracted_at"`
}

func NewMenuExtracted(uploadID, restaurantID string, doc *extraction.ExtractedMenu, enhanced int, at time.Time) MenuExtracted {
	warnings := doc.Metadata.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return MenuExtracted{
		UploadID:     uploadID,
		RestaurantID: restaurantID,
		Confidence:   doc.Confidence,
		Sections:     len(doc.Sections),
		Items:        len(doc.Items),
		Enhanced:     enhanced,
		Warnings:     warnings,
		ExtractedAt:  at.UTC(),
	}
}

type Publisher interface {
	PublishMenuExtracted(ctx context.Context, ev MenuExtracted) error
	Close() error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishMenuExtracted(context.Context, MenuExtracted) error { return nil }
func (NopPublisher) Close() error                                           { return nil }
