package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/huy11113/cinetaste-ai/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestWarmUp_SkipsUnhealthyModels(t *testing.T) {
	p := new(MockProvider)
	p.On("Health", mock.Anything, "gemini-2.5-flash").Return(nil)
	p.On("Health", mock.Anything, "gemini-2.5-pro").Return(errors.New("403 forbidden"))

	rt := NewRuntime(llm.NewModelCache(p), nil, Options{}, zap.NewNop())
	warmed := WarmUp(context.Background(), rt, p, []string{"gemini-2.5-flash", "gemini-2.5-pro", ""}, zap.NewNop())

	assert.Equal(t, 1, warmed)
	assert.Equal(t, []string{"gemini-2.5-flash"}, rt.Cache().Models())
	p.AssertNumberOfCalls(t, "Health", 2)

	rt.Close()
	assert.Equal(t, 0, rt.Cache().Len())
}
