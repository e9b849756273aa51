package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/realestate-service/internal/domain"
	"github.com/spec-kit/realestate-service/internal/events"
	"github.com/spec-kit/realestate-service/internal/repository"
	"github.com/spec-kit/realestate-service/pkg/apperrors"
)

const msgPropertyUnavailable = "property not available for sale"

// PropertyLifecycle owns property status transitions. Every method runs
// against the caller's transaction and locks the property row.
type PropertyLifecycle struct {
	logger *zap.Logger
}

// NewPropertyLifecycle constructs the lifecycle manager.
func NewPropertyLifecycle(logger *zap.Logger) *PropertyLifecycle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PropertyLifecycle{logger: logger}
}

// MarkPending reserves an available property for a new sale and returns it.
// A missing or unavailable property is a conflict.
func (l *PropertyLifecycle) MarkPending(ctx context.Context, tx repository.Store, actor *domain.Actor, propertyID string, ob *outbox) (*domain.Property, error) {
	if !validID(propertyID) {
		return nil, apperrors.NewConflict(msgPropertyUnavailable, nil)
	}
	property, err := tx.Properties().GetForUpdate(ctx, propertyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewConflict(msgPropertyUnavailable, nil)
		}
		return nil, err
	}
	if property.Status != domain.PropertyStatusAvailable {
		return nil, apperrors.NewConflict(msgPropertyUnavailable, map[string]any{"status": property.Status})
	}
	if err := l.apply(ctx, tx, actor, property, domain.PropertyStatusPending, "sale created", ob); err != nil {
		return nil, err
	}
	return property, nil
}

// MarkSold records that the property's sale completed.
func (l *PropertyLifecycle) MarkSold(ctx context.Context, tx repository.Store, actor *domain.Actor, propertyID string, ob *outbox) error {
	return l.move(ctx, tx, actor, propertyID, domain.PropertyStatusSold, "sale completed", ob)
}

// MarkAvailable releases the property after its sale was cancelled.
func (l *PropertyLifecycle) MarkAvailable(ctx context.Context, tx repository.Store, actor *domain.Actor, propertyID string, ob *outbox) error {
	return l.move(ctx, tx, actor, propertyID, domain.PropertyStatusAvailable, "sale cancelled", ob)
}

// Override sets a status requested through a direct property edit.
func (l *PropertyLifecycle) Override(ctx context.Context, tx repository.Store, actor *domain.Actor, property *domain.Property, next domain.PropertyStatus, ob *outbox) error {
	if property.Status == next {
		return nil
	}
	l.warnOffLifecycle(property, next, "manual update")
	return l.apply(ctx, tx, actor, property, next, "manual update", ob)
}

func (l *PropertyLifecycle) move(ctx context.Context, tx repository.Store, actor *domain.Actor, propertyID string, next domain.PropertyStatus, reason string, ob *outbox) error {
	property, err := tx.Properties().GetForUpdate(ctx, propertyID)
	if err != nil {
		return storeError(err, "property")
	}
	if property.Status == next {
		return nil
	}
	// sale status may be re-set freely, so the jump is applied even when the
	// table does not list it
	l.warnOffLifecycle(property, next, reason)
	return l.apply(ctx, tx, actor, property, next, reason, ob)
}

func (l *PropertyLifecycle) warnOffLifecycle(property *domain.Property, next domain.PropertyStatus, reason string) {
	if property.Status.CanTransitionTo(next) {
		return
	}
	l.logger.Warn("property status change outside lifecycle",
		zap.String("property_id", property.ID),
		zap.String("from", string(property.Status)),
		zap.String("to", string(next)),
		zap.String("reason", reason))
}

func (l *PropertyLifecycle) apply(ctx context.Context, tx repository.Store, actor *domain.Actor, property *domain.Property, next domain.PropertyStatus, reason string, ob *outbox) error {
	prev := property.Status
	if err := tx.Properties().UpdateStatus(ctx, property.ID, next); err != nil {
		return storeError(err, "property")
	}
	property.Status = next
	ob.add(events.New(events.EventPropertyStatusChanged, property.ID, actor, events.PropertyStatusChangedPayload{
		OldStatus: prev,
		NewStatus: next,
		Reason:    reason,
	}))
	return nil
}
