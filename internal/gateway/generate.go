package gateway

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/huy11113/cinetaste-ai/internal/llm"
	"github.com/huy11113/cinetaste-ai/internal/llm/processing"
	"github.com/huy11113/cinetaste-ai/internal/schema"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Request is one "ask the model for structured JSON" operation.
type Request struct {
	UseCase           string
	Model             string
	SystemInstruction string
	Prompt            string
	Image             *llm.Image
	Config            llm.GenerationConfig
	Schema            *schema.Node

	// Repair runs on the normalized document before validation.
	Repair func(doc map[string]any)
	// Check runs after validation; a failure is a schema error.
	Check func(doc map[string]any) error
}

type attemptResult struct {
	doc map[string]any
	err *Error
}

type callResult struct {
	resp *llm.Response
	err  error
}

// Generate runs req with bounded retries and returns the validated document.
// The work is detached from the caller's cancellation: once started it runs
// until it succeeds or fails.
func (r *Runtime) Generate(ctx context.Context, req *Request) (map[string]any, error) {
	ctx = context.WithoutCancel(ctx)
	ctx, span := r.tracer.Start(ctx, "gateway.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("use_case", req.UseCase),
		attribute.String("model", req.Model),
	)

	call := r.buildRequest(req)
	log := r.logger.With(zap.String("use_case", req.UseCase), zap.String("model", req.Model))

	var last *Error
	for attempt := 1; attempt <= r.opts.MaxAttempts; attempt++ {
		start := time.Now()
		res := r.attempt(ctx, req, call, attempt)
		latency := time.Since(start)

		if res.err == nil {
			log.Info("Generation succeeded", zap.Int("attempt", attempt), zap.Duration("latency", latency))
			span.SetAttributes(attribute.Int("attempts", attempt))
			return res.doc, nil
		}

		res.err.Attempts = attempt
		res.err.Op = req.UseCase
		fields := []zap.Field{
			zap.Int("attempt", attempt),
			zap.Stringer("kind", res.err.Kind),
			zap.Duration("latency", latency),
			zap.Error(res.err.Err),
		}
		if res.err.Field != "" {
			fields = append(fields, zap.String("field", res.err.Field))
		}
		if res.err.Snippet != "" {
			fields = append(fields, zap.String("snippet", res.err.Snippet))
		}
		log.Warn("Generation attempt failed", fields...)

		if !res.err.Retryable() {
			r.fail(span, res.err)
			return nil, res.err
		}
		last = res.err

		if attempt < r.opts.MaxAttempts {
			delay := r.backoff(attempt)
			log.Debug("Backing off", zap.Int("attempt", attempt), zap.Duration("delay", delay))
			if err := r.sleep(ctx, delay); err != nil {
				last.Err = errors.Join(last.Err, err)
				break
			}
		}
	}

	r.fail(span, last)
	return nil, last
}

// backoff returns base * 2^(attempt-1).
func (r *Runtime) backoff(attempt int) time.Duration {
	return r.opts.BackoffBase << (attempt - 1)
}

func (r *Runtime) fail(span trace.Span, err *Error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Kind.String())
}

func (r *Runtime) buildRequest(req *Request) *llm.Request {
	cfg := req.Config
	if req.Schema != nil && cfg.ResponseSchema == nil {
		cfg.ResponseSchema = schema.Emit(req.Schema)
	}
	if cfg.ResponseMIMEType == "" {
		cfg.ResponseMIMEType = "application/json"
	}
	return &llm.Request{
		Model:             req.Model,
		SystemInstruction: req.SystemInstruction,
		Prompt:            req.Prompt,
		Image:             req.Image,
		Config:            cfg,
	}
}

func (r *Runtime) attempt(ctx context.Context, req *Request, call *llm.Request, n int) attemptResult {
	ctx, span := r.tracer.Start(ctx, "gateway.attempt")
	defer span.End()
	span.SetAttributes(attribute.Int("attempt", n))

	if err := r.limiter.Wait(ctx); err != nil {
		return attemptResult{err: &Error{Kind: KindInternal, Err: err}}
	}

	handle, err := r.cache.Get(ctx, req.Model)
	if err != nil {
		return attemptResult{err: &Error{Kind: KindInternal, Err: err}}
	}

	resp, err := r.call(ctx, handle, call)
	if err != nil {
		return attemptResult{err: &Error{Kind: classify(err), Err: err}}
	}

	if strings.TrimSpace(resp.Text) == "" {
		return attemptResult{err: &Error{
			Kind: KindMalformed,
			Err:  errors.New("empty response (finish reason " + resp.FinishReason + ")"),
		}}
	}

	cleaned := processing.CleanResponse(resp.Text)

	var parsed any
	if err := sonic.UnmarshalString(cleaned, &parsed); err != nil {
		return attemptResult{err: &Error{Kind: KindMalformed, Snippet: truncate(cleaned), Err: err}}
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return attemptResult{err: &Error{Kind: KindMalformed, Snippet: truncate(cleaned), Err: errors.New("response is not a JSON object")}}
	}

	doc := obj
	if req.Schema != nil {
		doc, _ = schema.Normalize(req.Schema, obj).(map[string]any)
	}
	if req.Repair != nil {
		req.Repair(doc)
	}

	if err := schema.Validate(req.Schema, doc); err != nil {
		return attemptResult{err: schemaError(err, cleaned)}
	}
	if req.Check != nil {
		if err := req.Check(doc); err != nil {
			return attemptResult{err: schemaError(err, cleaned)}
		}
	}

	return attemptResult{doc: doc}
}

func schemaError(err error, raw string) *Error {
	e := &Error{Kind: KindSchema, Snippet: truncate(raw), Err: err}
	var ve *schema.ValidationError
	if errors.As(err, &ve) {
		e.Field = ve.Path
	}
	return e
}

// call runs the provider request as its own task and waits for it under the
// per-attempt timeout.
func (r *Runtime) call(ctx context.Context, handle *llm.Handle, req *llm.Request) (*llm.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.AttemptTimeout)
	defer cancel()

	done := make(chan callResult, 1)
	go func() {
		resp, err := handle.Generate(ctx, req)
		done <- callResult{resp: resp, err: err}
	}()

	select {
	case res := <-done:
		if res.err == nil && res.resp == nil {
			return nil, errors.New("provider returned no response")
		}
		return res.resp, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Decode converts a validated document into its typed result.
func Decode[T any](doc map[string]any) (*T, error) {
	raw, err := sonic.Marshal(doc)
	if err != nil {
		return nil, &Error{Kind: KindInternal, Err: err}
	}
	var out T
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, &Error{Kind: KindInternal, Err: err}
	}
	return &out, nil
}
