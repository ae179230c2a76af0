package llm

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Handle binds a provider to one model name.
type Handle struct {
	Model    string
	Provider Provider
	Created  time.Time
}

// Generate issues req against the handle's model.
func (h *Handle) Generate(ctx context.Context, req *Request) (*Response, error) {
	call := *req
	call.Model = h.Model
	return h.Provider.Generate(ctx, &call)
}

// HandleBuilder constructs a handle for a model the cache has not seen.
type HandleBuilder func(ctx context.Context, model string) (*Handle, error)

// ModelCache memoizes handles by provider type and model name. Entries live
// until Clear; the key space is a handful of configured models.
type ModelCache struct {
	mu      sync.RWMutex
	handles map[string]*Handle
	build   HandleBuilder
	prefix  string
}

func NewModelCache(p Provider) *ModelCache {
	return NewModelCacheWithBuilder(p.Type(), func(_ context.Context, model string) (*Handle, error) {
		return &Handle{Model: model, Provider: p, Created: time.Now()}, nil
	})
}

func NewModelCacheWithBuilder(prefix string, build HandleBuilder) *ModelCache {
	return &ModelCache{
		handles: make(map[string]*Handle),
		build:   build,
		prefix:  prefix,
	}
}

func (c *ModelCache) Get(ctx context.Context, model string) (*Handle, error) {
	if model == "" {
		return nil, errors.New("model name is empty")
	}
	key := c.prefix + "/" + model

	c.mu.RLock()
	h, ok := c.handles[key]
	c.mu.RUnlock()
	if ok {
		return h, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if h, ok = c.handles[key]; ok {
		return h, nil
	}

	h, err := c.build(ctx, model)
	if err != nil {
		return nil, err
	}
	c.handles[key] = h
	return h, nil
}

func (c *ModelCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handles)
}

// Models lists cached model names.
func (c *ModelCache) Models() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.handles))
	for _, h := range c.handles {
		out = append(out, h.Model)
	}
	return out
}

func (c *ModelCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handles = make(map[string]*Handle)
}
