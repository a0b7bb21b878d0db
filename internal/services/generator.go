package services

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/vladimiradmaev/wellnourish/internal/errors"
	"github.com/vladimiradmaev/wellnourish/internal/logger"
)

// Generator tries an ordered list of model names against one provider and
// returns the first successful reply. Attempts are sequential; there is no
// backoff and nothing is retried beyond the list.
type Generator struct {
	model  TextModel
	models []string
}

func NewGenerator(model TextModel, models []string) *Generator {
	return &Generator{
		model:  model,
		models: append([]string(nil), models...),
	}
}

// Models returns the model names in the order they are attempted.
func (g *Generator) Models() []string {
	return append([]string(nil), g.models...)
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if len(g.models) == 0 {
		return "", apperrors.NewGenerationError(apperrors.KindProviderError,
			errors.New("no models configured"), "Failed to generate plan")
	}

	log := logger.FromContext(ctx)
	var lastErr error
	for i, name := range g.models {
		text, err := g.model.Generate(ctx, name, prompt)
		if err == nil {
			if i > 0 {
				log.Info("Plan generated by fallback model", "model", name)
			}
			return text, nil
		}

		lastErr = fmt.Errorf("model %s: %w", name, err)
		if errors.Is(err, ErrMissingAPIKey) || ctx.Err() != nil {
			break
		}
		if i+1 < len(g.models) {
			log.Warn("Model failed, falling back", "model", name, "fallback", g.models[i+1], "error", err)
		}
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", apperrors.NewTimeoutError("plan generation", lastErr)
	}
	return "", apperrors.NewGenerationError(apperrors.KindProviderError, lastErr, "Failed to generate plan")
}
