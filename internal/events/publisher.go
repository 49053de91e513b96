package events

import (
	"context"
	"errors"

	"vision_runner/internal/models"
)

// Publisher receives activity events after a successful write.
type Publisher interface {
	Publish(ctx context.Context, e models.ActivityEvent) error
}

// Multi publishes to every sink in order. A failing sink does not stop the others.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e models.ActivityEvent) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, models.ActivityEvent) error { return nil }
