package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vision_runner/internal/models"
	"vision_runner/internal/repository"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	ErrUnknownEventType = errors.New("unknown event type")
	ErrInvalidLimit     = errors.New("limit must not be negative")
)

var knownEventTypes = map[string]struct{}{
	models.EventUserRegistered: {},
	models.EventPostCreated:    {},
	models.EventPostUpdated:    {},
	models.EventPostDeleted:    {},
	models.EventFutureCreated:  {},
	models.EventFutureUpdated:  {},
	models.EventFutureDeleted:  {},
}

// ActivityFilter narrows the activity log. The zero value returns everything.
type ActivityFilter struct {
	From  time.Time // inclusive
	To    time.Time // inclusive
	Type  string    // case-insensitive, one of the models.Event* constants
	Limit int       // keep only the newest Limit events; 0 means all
}

// query validates f and converts it to a store query with UTC bounds and a canonical type.
func (f ActivityFilter) query() (repository.EventQuery, error) {
	q := repository.EventQuery{
		From:  utcOrZero(f.From),
		To:    utcOrZero(f.To),
		Type:  strings.ToUpper(strings.TrimSpace(f.Type)),
		Limit: f.Limit,
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		return repository.EventQuery{}, ErrInvalidTimeRange
	}
	if q.Type != "" {
		if _, ok := knownEventTypes[q.Type]; !ok {
			return repository.EventQuery{}, fmt.Errorf("%w: %q", ErrUnknownEventType, f.Type)
		}
	}
	if q.Limit < 0 {
		return repository.EventQuery{}, ErrInvalidLimit
	}
	return q, nil
}

func utcOrZero(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

type ActivityService struct {
	events repository.EventRepo
}

func NewActivityService(events repository.EventRepo) *ActivityService {
	return &ActivityService{events: events}
}

// ListActivity returns the matching events oldest first.
func (s *ActivityService) ListActivity(ctx context.Context, f ActivityFilter) ([]models.ActivityEvent, error) {
	q, err := f.query()
	if err != nil {
		return nil, err
	}
	return s.events.List(ctx, q)
}
