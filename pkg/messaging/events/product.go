// Package events holds the product change events exchanged over the broker.
package events

import (
	"encoding/json"
	"strconv"
	"time"
)

// Product change actions. Each action is also the last token of the event subject.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ProductEvent announces a change of one product. Consumers resolve the current state by id.
type ProductEvent struct {
	ProductID  int64     `json:"product_id"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewProductEvent creates an event stamped with the current UTC time.
func NewProductEvent(productID int64, action string) ProductEvent {
	return ProductEvent{ProductID: productID, Action: action, OccurredAt: time.Now().UTC()}
}

func (e ProductEvent) Subject() string {
	return "products." + e.Action
}

// Key partitions events by product so changes of one product stay ordered.
func (e ProductEvent) Key() string {
	return strconv.FormatInt(e.ProductID, 10)
}

func (e ProductEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
