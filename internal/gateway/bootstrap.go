package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/huy11113/cinetaste-ai/internal/cli"
	"github.com/huy11113/cinetaste-ai/internal/llm"
	"go.uber.org/zap"
)

const warmUpTimeout = 5 * time.Second

// WarmUp health-checks each model and caches a handle for the ones that
// answer. Failures are logged and left for lazy construction on first use.
func WarmUp(ctx context.Context, rt *Runtime, provider llm.Provider, models []string, log *zap.Logger) int {
	warmed := 0

	for _, model := range models {
		if model == "" {
			continue
		}

		healthCtx, cancel := context.WithTimeout(ctx, warmUpTimeout)
		err := provider.Health(healthCtx, model)
		cancel()
		if err != nil {
			log.Warn(fmt.Sprintf("%s %s", cli.CrossMark(), cli.Style(model, cli.Yellow)),
				zap.String("provider", provider.Name()),
				zap.Error(err),
			)
			continue
		}

		if _, err := rt.Cache().Get(ctx, model); err != nil {
			log.Error("Failed to cache model handle", zap.String("model", model), zap.Error(err))
			continue
		}

		log.Info(fmt.Sprintf("%s %s", cli.CheckMark(), cli.Style(model, cli.Green)),
			zap.String("provider", provider.Name()),
		)
		warmed++
	}

	if warmed == 0 {
		log.Warn("No models were warmed up. Handles will be created on first request.")
	}

	return warmed
}
