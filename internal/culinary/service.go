// Package culinary implements the four CineTaste use cases on top of the
// generation runtime.
package culinary

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/huy11113/cinetaste-ai/internal/gateway"
	"github.com/huy11113/cinetaste-ai/internal/llm"
	"github.com/huy11113/cinetaste-ai/internal/llm/processing"
	"go.uber.org/zap"
)

const (
	useAnalyze  = "analyze_dish"
	useModify   = "modify_recipe"
	useTheme    = "create_by_theme"
	useCritique = "critique_dish"
)

// Models names the two model tiers.
type Models struct {
	// text-only transforms
	Fast string
	// image understanding and creative writing
	Smart string
}

type Service struct {
	rt     *gateway.Runtime
	images *processing.ImagePreprocessor
	models Models
	logger *zap.Logger
}

func NewService(rt *gateway.Runtime, images *processing.ImagePreprocessor, models Models, logger *zap.Logger) *Service {
	if images == nil {
		images = processing.NewImagePreprocessor(0, 0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		rt:     rt,
		images: images,
		models: models,
		logger: logger.Named("culinary"),
	}
}

func (s *Service) Models() Models { return s.models }

// prepareImage validates and re-encodes an upload. Every failure is an input
// error so nothing is sent upstream.
func (s *Service) prepareImage(data []byte, mimeType string) (*llm.Image, error) {
	img, err := s.images.Prepare(data, mimeType)
	if err != nil {
		var fe *processing.FileError
		var ce *processing.ConversionError
		if errors.As(err, &fe) || errors.As(err, &ce) {
			return nil, gateway.InputError("image", err)
		}
		return nil, err
	}
	return img, nil
}

// requireText trims v and checks its rune length.
func requireText(field, v string, min, max int) (string, error) {
	v = strings.TrimSpace(v)
	n := utf8.RuneCountInString(v)
	if n < min || n > max {
		if min > 0 && n == 0 {
			return "", gateway.InputError(field, fmt.Errorf("%s is required", field))
		}
		return "", gateway.InputError(field, fmt.Errorf("%s must be %d-%d characters, got %d", field, min, max, n))
	}
	return v, nil
}
