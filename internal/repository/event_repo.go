package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"vision_runner/internal/models"

	"github.com/google/uuid"
)

// EventSQLite is the activity log table. It doubles as an events.Publisher sink.
type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

var _ EventRepo = (*EventSQLite)(nil)

const (
	insertEventSQL = `INSERT INTO activity_events (id, occurred_at, type, message, meta) VALUES (?, ?, ?, ?, ?)`
	selectEventSQL = `SELECT id, occurred_at, type, message, meta FROM activity_events`

	orderOldestFirst = ` ORDER BY occurred_at ASC, rowid ASC`
	orderNewestFirst = ` ORDER BY occurred_at DESC, rowid DESC LIMIT ?`
)

// Append stores e, filling in a missing id or timestamp.
func (r *EventSQLite) Append(ctx context.Context, e models.ActivityEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = nowUTC()
	}

	meta, err := encodeMeta(e.Metadata)
	if err != nil {
		return fmt.Errorf("event %s: %w", e.EventID, err)
	}

	if _, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID, e.OccurredAt.UTC(), normalizeType(e.Type), e.Description, meta,
	); err != nil {
		return fmt.Errorf("insert event %s: %w", e.EventID, err)
	}
	return nil
}

// Publish lets the event log sit behind the same interface as the other activity sinks.
func (r *EventSQLite) Publish(ctx context.Context, e models.ActivityEvent) error {
	return r.Append(ctx, e)
}

func (r *EventSQLite) List(ctx context.Context, q EventQuery) ([]models.ActivityEvent, error) {
	query, args := buildEventQuery(q)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	defer rows.Close()

	out := []models.ActivityEvent{}
	for rows.Next() {
		var (
			ev   models.ActivityEvent
			meta sql.NullString
		)
		if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Type, &ev.Description, &meta); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.OccurredAt = ev.OccurredAt.UTC()
		ev.Metadata = decodeMeta(meta)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	// a limited query reads newest first
	if q.Limit > 0 {
		slices.Reverse(out)
	}
	return out, nil
}

func buildEventQuery(q EventQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if !q.From.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, q.From.UTC())
	}
	if !q.To.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, q.To.UTC())
	}
	if typ := normalizeType(q.Type); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	var b strings.Builder
	b.WriteString(selectEventSQL)
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	if q.Limit > 0 {
		b.WriteString(orderNewestFirst)
		args = append(args, q.Limit)
	} else {
		b.WriteString(orderOldestFirst)
	}
	return b.String(), args
}

func normalizeType(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// encodeMeta stores metadata as JSON text; nil stays NULL.
func encodeMeta(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	s := string(b)
	return &s, nil
}

// decodeMeta parses stored metadata. Text that is not valid JSON is returned as is.
func decodeMeta(s sql.NullString) any {
	if !s.Valid || s.String == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(s.String), &v); err != nil {
		return s.String
	}
	return v
}
