package preview

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/movepeek/tictactoe-console/internal/entity"
	"github.com/movepeek/tictactoe-console/internal/oracle"
	"github.com/movepeek/tictactoe-console/internal/terminal"
)

// renderer is the async slice of the oracle client the coordinator needs.
type renderer interface {
	RenderAsync(ctx context.Context, state string) <-chan oracle.RenderReply
}

// Pending is one outstanding render request, tagged with the prefix
// snapshot it was issued for. The tag is the whole cancellation mechanism:
// a prefix edit makes every older snapshot unmatchable, so a superseded
// call may finish whenever it likes without ever being displayed.
type Pending struct {
	Prefix string
	Reply  <-chan oracle.RenderReply
}

// Ready is a completed preview, valid for display only while its snapshot
// still equals the typed prefix.
type Ready struct {
	Text   string
	Lines  int
	Prefix string
}

// Coordinator bridges typed-prefix changes to oracle render requests and
// validates replies against the prefix current at arrival time.
type Coordinator struct {
	logger   *slog.Logger
	renderer renderer
}

func NewCoordinator(logger *slog.Logger, renderer renderer) *Coordinator {
	return &Coordinator{
		logger:   logger.With("component", "preview"),
		renderer: renderer,
	}
}

// MaybeRequest - issues a render request only when prefix is an exact,
// complete match of some move id. A strict prefix of an id never triggers
// a request; partial input simply has no preview.
func (that *Coordinator) MaybeRequest(ctx context.Context, prefix string, moves []entity.MoveOption) *Pending {
	move := Match(prefix, moves)
	if move == nil {
		return nil
	}

	that.logger.Debug("requesting preview", "prefix", prefix, "state", move.NextBoard)

	return &Pending{
		Prefix: prefix,
		Reply:  that.renderer.RenderAsync(ctx, move.NextBoard),
	}
}

// OnReply - decides whether a completed render is still wanted. A stale
// reply (the prefix moved on since the request) is dropped silently; that
// is the expected fate of superseded requests, not a fault. A transport
// failure on a live request is fatal for the round: no partial or garbled
// preview is ever displayed.
func (that *Coordinator) OnReply(pending *Pending, currentPrefix string, reply oracle.RenderReply) (*Ready, error) {
	if pending == nil || pending.Prefix != currentPrefix {
		that.logger.Debug("discarding stale preview reply", "requested_for", pendingPrefix(pending), "current", currentPrefix)
		return nil, nil
	}

	if reply.Err != nil {
		return nil, fmt.Errorf("preview render failed: %w", reply.Err)
	}

	return &Ready{
		Text:   reply.Text,
		Lines:  terminal.LineCount(reply.Text),
		Prefix: pending.Prefix,
	}, nil
}

// Match returns the move whose id equals prefix exactly, or nil.
func Match(prefix string, moves []entity.MoveOption) *entity.MoveOption {
	for i := range moves {
		if moves[i].ID == prefix {
			return &moves[i]
		}
	}

	return nil
}

func pendingPrefix(pending *Pending) string {
	if pending == nil {
		return ""
	}
	return pending.Prefix
}
