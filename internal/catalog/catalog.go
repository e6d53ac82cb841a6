// internal/catalog/catalog.go
//
// Lazy template catalog in front of the engine.
//
// Context
// -------
// The engine keeps every template in memory.  When a store is wired, the
// catalog fills the engine on demand: a miss in the engine triggers one
// store read per id, however many requests ask for it at once
// (singleflight), and the result is registered so later reads are memory
// hits.
//
// Writes go through the catalog too, so the engine and the store never
// disagree about what exists.  Without a store the catalog is a thin
// pass-through to the engine.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/layoutkit/internal/engine"
	"github.com/yanizio/layoutkit/internal/layout"
	"github.com/yanizio/layoutkit/internal/metrics"
	"github.com/yanizio/layoutkit/internal/store"
)

// Source is the persistence the catalog reads from and writes to.
// *store.Store satisfies it.
type Source interface {
	All(ctx context.Context) ([]*layout.Template, error)
	ByID(ctx context.Context, id string) (*layout.Template, error)
	Save(ctx context.Context, t *layout.Template) error
	Delete(ctx context.Context, id string) (bool, error)
}

// Catalog is safe for concurrent use.
type Catalog struct {
	eng   *engine.Engine
	src   Source
	log   *zap.SugaredLogger
	group singleflight.Group
}

// New returns a catalog over eng.  src may be nil.
func New(eng *engine.Engine, src Source, log *zap.SugaredLogger) *Catalog {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Catalog{eng: eng, src: src, log: log}
}

// Engine exposes the underlying engine for processing calls.
func (c *Catalog) Engine() *engine.Engine { return c.eng }

// Get returns the template registered under id, loading it from the
// source on a miss.  Unknown ids yield engine.ErrNotFound.
func (c *Catalog) Get(ctx context.Context, id string) (*layout.Template, error) {
	if t, ok := c.eng.Get(id); ok {
		return t, nil
	}
	if c.src == nil {
		return nil, engine.ErrNotFound
	}

	// Waiters share one load, so one caller's cancellation must not fail
	// the others.
	v, err, _ := c.group.Do(id, func() (any, error) {
		if t, ok := c.eng.Get(id); ok { // filled while we waited
			return t, nil
		}
		metrics.StoreLoadsTotal.Inc()
		t, err := c.src.ByID(context.WithoutCancel(ctx), id)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				metrics.StoreLoadErrorsTotal.Inc()
				c.log.Errorw("catalog load failed", "id", id, "err", err)
			}
			return nil, err
		}
		if err := c.eng.Register(t); err != nil {
			return nil, err
		}
		c.log.Debugw("catalog loaded template", "id", id)
		return t, nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, engine.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v.(*layout.Template), nil
}

// Preload registers every stored template.  Templates already in the
// engine (for example from files) are overwritten by the stored copy.
func (c *Catalog) Preload(ctx context.Context) (int, error) {
	if c.src == nil {
		return 0, nil
	}
	metrics.StoreLoadsTotal.Inc()
	all, err := c.src.All(ctx)
	if err != nil {
		metrics.StoreLoadErrorsTotal.Inc()
		return 0, err
	}
	for _, t := range all {
		if err := c.eng.Register(t); err != nil {
			c.log.Warnw("catalog skipped stored template", "id", t.ID, "err", err)
			continue
		}
	}
	c.log.Infow("catalog preloaded", "templates", len(all))
	return len(all), nil
}

// Put registers t and persists it when a source is wired.
func (c *Catalog) Put(ctx context.Context, t *layout.Template) error {
	if t == nil || t.ID == "" {
		return engine.ErrEmptyID
	}
	if c.src != nil {
		if err := c.src.Save(ctx, t); err != nil {
			return err
		}
	}
	return c.eng.Register(t)
}

// Remove unregisters id and deletes it from the source.  It reports
// whether the id existed in either place.
func (c *Catalog) Remove(ctx context.Context, id string) (bool, error) {
	found := c.eng.Unregister(id)
	if c.src != nil {
		ok, err := c.src.Delete(ctx, id)
		if err != nil {
			return found, err
		}
		found = found || ok
	}
	return found, nil
}
