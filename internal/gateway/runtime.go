package gateway

import (
	"context"
	"time"

	"github.com/huy11113/cinetaste-ai/internal/llm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts    = 3
	DefaultBackoffBase    = time.Second
	DefaultAttemptTimeout = 60 * time.Second
)

type Options struct {
	MaxAttempts    int
	BackoffBase    time.Duration
	AttemptTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.BackoffBase < 0 {
		o.BackoffBase = DefaultBackoffBase
	}
	if o.AttemptTimeout <= 0 {
		o.AttemptTimeout = DefaultAttemptTimeout
	}
	return o
}

// Budget is the longest a single generation can take when every attempt
// waits limiterWait for its slot and then runs to the attempt timeout.
func (o Options) Budget(limiterWait time.Duration) time.Duration {
	o = o.withDefaults()
	total := time.Duration(o.MaxAttempts) * (o.AttemptTimeout + limiterWait)
	for attempt := 1; attempt < o.MaxAttempts; attempt++ {
		total += o.BackoffBase << (attempt - 1)
	}
	return total
}

// Sleeper pauses between attempts. Tests substitute one that records durations.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Runtime owns the process-wide generation state: the model handle cache,
// the outbound limiter and the retry policy. Construct one at startup and
// pass it to every use case.
type Runtime struct {
	cache   *llm.ModelCache
	limiter Limiter
	opts    Options
	logger  *zap.Logger
	tracer  trace.Tracer
	sleep   Sleeper
}

type Option func(*Runtime)

func WithSleeper(s Sleeper) Option {
	return func(r *Runtime) { r.sleep = s }
}

func WithTracer(t trace.Tracer) Option {
	return func(r *Runtime) { r.tracer = t }
}

func NewRuntime(cache *llm.ModelCache, limiter Limiter, opts Options, logger *zap.Logger, options ...Option) *Runtime {
	if limiter == nil {
		limiter = NewLocalLimiter(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runtime{
		cache:   cache,
		limiter: limiter,
		opts:    opts.withDefaults(),
		logger:  logger,
		tracer:  otel.Tracer("github.com/huy11113/cinetaste-ai/internal/gateway"),
		sleep:   sleepContext,
	}
	for _, o := range options {
		o(r)
	}
	return r
}

func (r *Runtime) Cache() *llm.ModelCache { return r.cache }

func (r *Runtime) Options() Options { return r.opts }

// Close drops every cached model handle.
func (r *Runtime) Close() {
	r.cache.Clear()
}
