// Package messaging defines the event publishing contract used by the catalog.
package messaging

import (
	"context"
)

const (
	// ProductsSubjects matches every product event subject; streams bind to it.
	ProductsSubjects = "products.>"
	// ProductStockToggledSubject carries ProductStockToggledEvent payloads.
	ProductStockToggledSubject = "products.stock.toggled"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
