package service

import (
	"context"
	"errors"

	"vision_runner/internal/cache"
	"vision_runner/internal/models"
	"vision_runner/internal/repository"
)

var (
	ErrEmptyContent  = errors.New("content is required")
	ErrInvalidAuthor = errors.New("author id must be positive")
)

type PostService struct {
	repo  repository.PostRepo
	cache cache.Lists
	rec   *recorder
	list  listSlot
}

func NewPostService(repo repository.PostRepo, c cache.Lists, rec *recorder) *PostService {
	if c == nil {
		c = cache.Nop{}
	}
	return &PostService{repo: repo, cache: c, rec: rec, list: listSlot{key: cache.KeyPosts}}
}

// CreatePost stores a post for authorID. The store rejects authors that do not exist.
func (s *PostService) CreatePost(ctx context.Context, authorID int, content string) (models.Post, error) {
	if err := validContent(content); err != nil {
		return models.Post{}, err
	}
	if authorID <= 0 {
		return models.Post{}, ErrInvalidAuthor
	}
	p, err := s.repo.Create(ctx, authorID, content)
	if err != nil {
		return models.Post{}, err
	}

	s.rec.changed(ctx, s.cache, &s.list)
	s.rec.record(ctx, models.EventPostCreated, "post created",
		map[string]any{"id": p.ID, "authorId": p.AuthorID})
	return p, nil
}

// ListPosts returns every post with its author, newest first.
func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	return readThrough(ctx, &s.list, s.cache, s.rec, s.repo.List)
}

func (s *PostService) UpdatePost(ctx context.Context, id int, content string) (models.Post, error) {
	if err := validContent(content); err != nil {
		return models.Post{}, err
	}
	p, err := s.repo.Update(ctx, id, content)
	if err != nil {
		return models.Post{}, err
	}

	s.rec.changed(ctx, s.cache, &s.list)
	s.rec.record(ctx, models.EventPostUpdated, "post updated", map[string]any{"id": id})
	return p, nil
}

func (s *PostService) DeletePost(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.rec.changed(ctx, s.cache, &s.list)
	s.rec.record(ctx, models.EventPostDeleted, "post deleted", map[string]any{"id": id})
	return nil
}
