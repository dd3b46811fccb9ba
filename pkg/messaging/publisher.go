// Package messaging defines the event and publisher contracts shared by producers and consumers.
package messaging

import (
	"context"
)

// ProductsStream is the JetStream stream holding product change events.
const ProductsStream = "PRODUCTS"

// ProductsSubjects matches every product change subject.
const ProductsSubjects = "products.>"

type Event interface {
	Subject() string
	Key() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
