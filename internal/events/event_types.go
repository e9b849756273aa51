package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/realestate-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSaleCreated           EventType = "sale.created"
	EventSaleStatusChanged     EventType = "sale.status_changed"
	EventPropertyStatusChanged EventType = "property.status_changed"
	EventPaymentRecorded       EventType = "payment.recorded"
	EventPaymentStatusUpdated  EventType = "payment.status_updated"
)

// Actor identifies who caused an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ResourceID string      `json:"resource_id"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// New stamps an event of the given type.
func New(eventType EventType, resourceID string, actor *domain.Actor, payload interface{}) Event {
	event := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		ResourceID: resourceID,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
	if actor != nil {
		event.Actor = Actor{UserID: actor.ID, Role: actor.Role}
	}
	return event
}

// SaleCreatedPayload payload.
type SaleCreatedPayload struct {
	PropertyID string  `json:"property_id"`
	BuyerID    string  `json:"buyer_id"`
	SellerID   string  `json:"seller_id"`
	SalePrice  float64 `json:"sale_price"`
}

// SaleStatusChangedPayload payload.
type SaleStatusChangedPayload struct {
	PropertyID string            `json:"property_id"`
	OldStatus  domain.SaleStatus `json:"old_status"`
	NewStatus  domain.SaleStatus `json:"new_status"`
}

// PropertyStatusChangedPayload payload.
type PropertyStatusChangedPayload struct {
	OldStatus domain.PropertyStatus `json:"old_status"`
	NewStatus domain.PropertyStatus `json:"new_status"`
	Reason    string                `json:"reason"`
}

// PaymentRecordedPayload payload.
type PaymentRecordedPayload struct {
	SaleID string               `json:"sale_id"`
	Amount float64              `json:"amount"`
	Status domain.PaymentStatus `json:"status"`
}

// PaymentStatusUpdatedPayload payload.
type PaymentStatusUpdatedPayload struct {
	Status domain.PaymentStatus `json:"status"`
}
