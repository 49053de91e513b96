package service

import (
	"context"
	"strings"
	"time"

	"vision_runner/internal/cache"
	"vision_runner/internal/events"
	"vision_runner/internal/logger"
	"vision_runner/internal/models"

	"github.com/google/uuid"
)

// recorder publishes activity events and keeps the list cache coherent.
// Neither concern may fail a write that already reached the store.
type recorder struct {
	pub events.Publisher
	log *logger.Logger
}

func (r *recorder) record(ctx context.Context, typ, description string, meta map[string]any) {
	if r == nil || r.pub == nil {
		return
	}
	e := models.ActivityEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Description: description,
		Metadata:    meta,
	}
	// the store write already happened, so a departing client must not drop its event
	if err := r.pub.Publish(context.WithoutCancel(ctx), e); err != nil {
		r.warn("activity_publish_failed", "type", typ, "event_id", e.EventID, "err", err)
	}
}

// changed retires in-flight loads of the slot's list and drops the cached copy.
func (r *recorder) changed(ctx context.Context, c cache.Lists, slot *listSlot) {
	slot.bump()
	r.invalidate(ctx, c, slot.key)
}

func (r *recorder) invalidate(ctx context.Context, c cache.Lists, key string) {
	if err := c.Invalidate(context.WithoutCancel(ctx), key); err != nil {
		r.warn("cache_invalidate_failed", "key", key, "err", err)
	}
}

func (r *recorder) warn(msg string, kv ...any) {
	if r != nil && r.log != nil {
		r.log.Warnw(msg, kv...)
	}
}

// validContent rejects empty and whitespace-only content.
func validContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	return nil
}
