package service

import (
	"context"
	"strconv"
	"sync/atomic"

	"vision_runner/internal/cache"

	"golang.org/x/sync/singleflight"
)

// listSlot is the read-through state of one cached list key.
// gen moves on every write so loads that began earlier neither get joined nor stored.
type listSlot struct {
	key string
	sf  singleflight.Group
	gen atomic.Uint64
}

// bump marks the list as changed. Call it after the store write and before cache invalidation.
func (s *listSlot) bump() { s.gen.Add(1) }

// readThrough serves the slot's key from c, loading and storing it on a miss.
// Concurrent misses within one generation share a single load, which runs detached
// from any one caller's cancellation. Cache errors are logged and fall back to load.
func readThrough[T any](ctx context.Context, slot *listSlot, c cache.Lists, rec *recorder,
	load func(context.Context) ([]T, error)) ([]T, error) {
	if _, disabled := c.(cache.Nop); disabled {
		return load(ctx)
	}

	gen := slot.gen.Load()
	flight := slot.key + "#" + strconv.FormatUint(gen, 10)
	shared := context.WithoutCancel(ctx)

	ch := slot.sf.DoChan(flight, func() (interface{}, error) {
		var cached []T
		ok, err := c.Get(shared, slot.key, &cached)
		if err != nil {
			rec.warn("cache_get_failed", "key", slot.key, "err", err)
		}
		if ok {
			return cached, nil
		}

		list, err := load(shared)
		if err != nil {
			return nil, err
		}
		if slot.gen.Load() != gen {
			return list, nil
		}
		if err := c.Set(shared, slot.key, list); err != nil {
			rec.warn("cache_set_failed", "key", slot.key, "err", err)
		}
		// a write may have invalidated between the check and Set
		if slot.gen.Load() != gen {
			rec.invalidate(shared, c, slot.key)
		}
		return list, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]T), nil
	}
}
