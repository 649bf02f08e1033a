package renderer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/movepeek/tictactoe-console/internal/entity"
	"github.com/movepeek/tictactoe-console/internal/repository"
)

type renderCache interface {
	Get(ctx context.Context, state string) (string, error)
	Set(ctx context.Context, state, text string) error
}

// Service produces the textual depiction of board states, backed by a
// best-effort cache: a cache outage degrades to rendering on the spot, it
// never fails a request.
type Service struct {
	logger *slog.Logger
	cache  renderCache
}

// New - builds the render service. cache may be nil to run uncached.
func New(logger *slog.Logger, cache renderCache) *Service {
	return &Service{
		logger: logger.With("component", "renderer"),
		cache:  cache,
	}
}

func (that *Service) RenderText(ctx context.Context, game *entity.Game) string {
	if that.cache == nil {
		return game.RenderText()
	}

	state := game.Unparse()

	text, err := that.cache.Get(ctx, state)
	if err == nil {
		return text
	}

	if !errors.Is(err, repository.ErrRenderNotCached) {
		that.logger.Warn("render cache lookup failed", "state", state, "error", err)
	}

	text = game.RenderText()

	if err = that.cache.Set(ctx, state, text); err != nil {
		that.logger.Warn("could not cache render", "state", state, "error", err)
	}

	return text
}
