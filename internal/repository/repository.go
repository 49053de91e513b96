package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"vision_runner/internal/models"
)

// ErrNotFound is returned by Update and Delete when no row has the given id.
var ErrNotFound = errors.New("record not found")

type UserRepo interface {
	Create(ctx context.Context, username, email, passwordHash string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type PostRepo interface {
	Create(ctx context.Context, authorID int, content string) (models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	Update(ctx context.Context, id int, content string) (models.Post, error)
	Delete(ctx context.Context, id int) error
}

type FutureRepo interface {
	Create(ctx context.Context, content string) (models.Future, error)
	List(ctx context.Context) ([]models.Future, error)
	Update(ctx context.Context, id int, content string) (models.Future, error)
	Delete(ctx context.Context, id int) error
}

// EventQuery selects activity events. Zero fields do not filter.
type EventQuery struct {
	From  time.Time // inclusive
	To    time.Time // inclusive
	Type  string
	Limit int // keep only the newest Limit events
}

type EventRepo interface {
	Append(ctx context.Context, e models.ActivityEvent) error
	// List returns matching events oldest first.
	List(ctx context.Context, q EventQuery) ([]models.ActivityEvent, error)
}

type Repository struct {
	Users   UserRepo
	Posts   PostRepo
	Futures FutureRepo
	Events  EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:   NewUserRepository(db),
		Posts:   NewPostSQLite(db),
		Futures: NewFutureSQLite(db),
		Events:  NewEventSQLite(db),
	}
}

// nowUTC is swapped in tests that need deterministic timestamps.
var nowUTC = func() time.Time { return time.Now().UTC() }
