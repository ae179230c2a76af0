package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptionsBudget(t *testing.T) {
	opts := Options{MaxAttempts: 3, BackoffBase: time.Second, AttemptTimeout: 60 * time.Second}

	// 3 x (60s + 2s) + 1s + 2s
	assert.Equal(t, 189*time.Second, opts.Budget(2*time.Second))
	assert.Equal(t, 183*time.Second, opts.Budget(0))

	single := Options{MaxAttempts: 1, BackoffBase: time.Second, AttemptTimeout: 10 * time.Second}
	assert.Equal(t, 10*time.Second, single.Budget(0))

	// zero values fall back to the runtime defaults
	assert.Equal(t, 3*DefaultAttemptTimeout, Options{}.Budget(0))
}
