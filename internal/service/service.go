package service

import (
	"context"

	"vision_runner/internal/cache"
	"vision_runner/internal/events"
	"vision_runner/internal/logger"
	"vision_runner/internal/models"
	"vision_runner/internal/repository"
)

// Authorization covers registration, login and token verification.
type Authorization interface {
	Register(ctx context.Context, username, email, password string) (models.User, error)
	// Login returns a signed token and the matching user.
	Login(ctx context.Context, email, password string) (string, models.User, error)
	ParseToken(accessToken string) (int, error)
}

// Posts manages vision posts.
type Posts interface {
	CreatePost(ctx context.Context, authorID int, content string) (models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	UpdatePost(ctx context.Context, id int, content string) (models.Post, error)
	DeletePost(ctx context.Context, id int) error
}

// Futures manages future entries.
type Futures interface {
	CreateFuture(ctx context.Context, content string) (models.Future, error)
	ListFutures(ctx context.Context) ([]models.Future, error)
	UpdateFuture(ctx context.Context, id int, content string) (models.Future, error)
	DeleteFuture(ctx context.Context, id int) error
}

// ActivityLog exposes the append-only activity log with filtering access.
type ActivityLog interface {
	ListActivity(ctx context.Context, f ActivityFilter) ([]models.ActivityEvent, error)
}

type Service struct {
	Authorization
	Posts
	Futures
	ActivityLog
}

// Deps are the optional collaborators of the services. Zero values fall back to no-ops.
type Deps struct {
	Auth      AuthConfig
	Cache     cache.Lists
	Publisher events.Publisher
	Log       *logger.Logger
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, deps Deps) *Service {
	if deps.Cache == nil {
		deps.Cache = cache.Nop{}
	}
	if deps.Publisher == nil {
		deps.Publisher = events.Nop{}
	}
	rec := &recorder{pub: deps.Publisher, log: deps.Log}

	return &Service{
		Authorization: NewAuthService(repos.Users, deps.Auth, rec),
		Posts:         NewPostService(repos.Posts, deps.Cache, rec),
		Futures:       NewFutureService(repos.Futures, deps.Cache, rec),
		ActivityLog:   NewActivityService(repos.Events),
	}
}
