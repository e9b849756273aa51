package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/realestate-service/internal/domain"
	"github.com/spec-kit/realestate-service/internal/events"
	"github.com/spec-kit/realestate-service/pkg/apperrors"
)

// storeError turns a missing row into NotFound for resource and passes
// everything else through.
func storeError(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}

// validID reports whether id can name a stored row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func requireActor(actor *domain.Actor) error {
	if actor == nil || actor.ID == "" {
		return apperrors.NewUnauthorized("authentication required")
	}
	return nil
}

// today returns the current UTC calendar date.
func today(now func() time.Time) time.Time {
	t := now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// outbox collects events raised inside a transaction so they are published
// only once it commits.
type outbox []events.Event

func (o *outbox) add(event events.Event) {
	*o = append(*o, event)
}

func (o outbox) publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	for _, event := range o {
		if err := dispatcher.Publish(ctx, event); err != nil {
			logger.Warn("event handler failed",
				zap.String("event_type", string(event.Type)),
				zap.String("resource_id", event.ResourceID),
				zap.Error(err))
		}
	}
}
