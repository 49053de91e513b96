package service

import (
	"context"

	"vision_runner/internal/cache"
	"vision_runner/internal/models"
	"vision_runner/internal/repository"
)

type FutureService struct {
	repo  repository.FutureRepo
	cache cache.Lists
	rec   *recorder
	list  listSlot
}

func NewFutureService(repo repository.FutureRepo, c cache.Lists, rec *recorder) *FutureService {
	if c == nil {
		c = cache.Nop{}
	}
	return &FutureService{repo: repo, cache: c, rec: rec, list: listSlot{key: cache.KeyFutures}}
}

func (s *FutureService) CreateFuture(ctx context.Context, content string) (models.Future, error) {
	if err := validContent(content); err != nil {
		return models.Future{}, err
	}
	f, err := s.repo.Create(ctx, content)
	if err != nil {
		return models.Future{}, err
	}

	s.rec.changed(ctx, s.cache, &s.list)
	s.rec.record(ctx, models.EventFutureCreated, "future created", map[string]any{"id": f.ID})
	return f, nil
}

// ListFutures returns every future entry, newest first.
func (s *FutureService) ListFutures(ctx context.Context) ([]models.Future, error) {
	return readThrough(ctx, &s.list, s.cache, s.rec, s.repo.List)
}

func (s *FutureService) UpdateFuture(ctx context.Context, id int, content string) (models.Future, error) {
	if err := validContent(content); err != nil {
		return models.Future{}, err
	}
	f, err := s.repo.Update(ctx, id, content)
	if err != nil {
		return models.Future{}, err
	}

	s.rec.changed(ctx, s.cache, &s.list)
	s.rec.record(ctx, models.EventFutureUpdated, "future updated", map[string]any{"id": id})
	return f, nil
}

func (s *FutureService) DeleteFuture(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.rec.changed(ctx, s.cache, &s.list)
	s.rec.record(ctx, models.EventFutureDeleted, "future deleted", map[string]any{"id": id})
	return nil
}
