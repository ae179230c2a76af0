package llm

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelCache_BuildsOncePerModel(t *testing.T) {
	var builds atomic.Int32
	cache := NewModelCacheWithBuilder("google", func(_ context.Context, model string) (*Handle, error) {
		builds.Add(1)
		return &Handle{Model: model}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := cache.Get(context.Background(), "gemini-2.5-flash")
			assert.NoError(t, err)
			assert.Equal(t, "gemini-2.5-flash", h.Model)
		}()
	}
	wg.Wait()

	_, err := cache.Get(context.Background(), "gemini-2.5-pro")
	require.NoError(t, err)

	assert.Equal(t, int32(2), builds.Load())
	assert.Equal(t, 2, cache.Len())
	assert.ElementsMatch(t, []string{"gemini-2.5-flash", "gemini-2.5-pro"}, cache.Models())

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}

func TestModelCache_FailedBuildIsNotCached(t *testing.T) {
	fail := true
	cache := NewModelCacheWithBuilder("google", func(_ context.Context, model string) (*Handle, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return &Handle{Model: model}, nil
	})

	_, err := cache.Get(context.Background(), "m")
	assert.Error(t, err)
	assert.Equal(t, 0, cache.Len())

	fail = false
	_, err = cache.Get(context.Background(), "m")
	assert.NoError(t, err)
	assert.Equal(t, 1, cache.Len())
}

func TestModelCache_EmptyModel(t *testing.T) {
	cache := NewModelCacheWithBuilder("google", nil)
	_, err := cache.Get(context.Background(), "")
	assert.Error(t, err)
}
