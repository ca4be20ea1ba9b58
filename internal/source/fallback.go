package source

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// FallbackSource tries each source in order and returns the first success.
type FallbackSource struct {
	sources []Source
}

// NewFallbackSource creates a FallbackSource over sources, tried in order.
func NewFallbackSource(sources ...Source) *FallbackSource {
	return &FallbackSource{sources: sources}
}

// Name joins the member names, e.g. "ai>mock".
func (f *FallbackSource) Name() string {
	names := make([]string, len(f.sources))
	for i, s := range f.sources {
		names[i] = s.Name()
	}
	return strings.Join(names, ">")
}

// Assess implements Source. It returns the first member success, or the
// last member error once every source has failed.
func (f *FallbackSource) Assess(ctx context.Context, url string) (*Assessment, error) {
	var lastErr error
	for _, s := range f.sources {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "source: context cancelled")
		}

		a, err := s.Assess(ctx, url)
		if err == nil {
			return a, nil
		}
		lastErr = err
		zap.L().Warn("source: falling back",
			zap.String("source", s.Name()),
			zap.String("url", url),
			zap.Error(err),
		)
	}
	if lastErr == nil {
		return nil, eris.New("source: no sources configured")
	}
	return nil, eris.Wrap(lastErr, "source: all sources failed")
}
