package preview

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movepeek/tictactoe-console/internal/entity"
	"github.com/movepeek/tictactoe-console/internal/oracle"
)

// recordingRenderer remembers which states were requested and never
// resolves anything on its own.
type recordingRenderer struct {
	requested []string
}

func (that *recordingRenderer) RenderAsync(_ context.Context, state string) <-chan oracle.RenderReply {
	that.requested = append(that.requested, state)
	return make(chan oracle.RenderReply, 1)
}

func newCoordinator(renderer *recordingRenderer) *Coordinator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCoordinator(logger, renderer)
}

func movesWithOverlappingIDs() []entity.MoveOption {
	return []entity.MoveOption{
		{ID: "1", NextBoard: "X--------", NextPlayer: entity.PlayerO},
		{ID: "10", NextBoard: "---------X", NextPlayer: entity.PlayerO},
	}
}

func TestCoordinator_MaybeRequest(t *testing.T) {
	t.Run("ExactMatchIssuesRequest", func(t *testing.T) {
		// Given: moves with ids "1" and "10"
		renderer := &recordingRenderer{}
		coordinator := newCoordinator(renderer)

		// When: the prefix is exactly "1"
		pending := coordinator.MaybeRequest(context.Background(), "1", movesWithOverlappingIDs())

		// Then: one request is issued, for move "1"'s state, tagged with
		// the prefix snapshot
		require.NotNil(t, pending)
		assert.Equal(t, "1", pending.Prefix)
		require.Equal(t, []string{"X--------"}, renderer.requested)
	})

	t.Run("StrictPrefixIssuesNothing", func(t *testing.T) {
		// Given: only a move with id "10"
		renderer := &recordingRenderer{}
		coordinator := newCoordinator(renderer)
		moves := []entity.MoveOption{{ID: "10", NextBoard: "---------X", NextPlayer: entity.PlayerO}}

		// When: the prefix "1" is a strict prefix of "10"
		pending := coordinator.MaybeRequest(context.Background(), "1", moves)

		// Then: no request is issued
		require.Nil(t, pending)
		require.Empty(t, renderer.requested)
	})

	t.Run("NoMatchIssuesNothing", func(t *testing.T) {
		renderer := &recordingRenderer{}
		coordinator := newCoordinator(renderer)

		pending := coordinator.MaybeRequest(context.Background(), "7", movesWithOverlappingIDs())

		require.Nil(t, pending)
		require.Empty(t, renderer.requested)
	})
}

func TestCoordinator_OnReply(t *testing.T) {
	t.Run("LiveReplyBecomesReady", func(t *testing.T) {
		// Given: a pending request for the still-current prefix
		coordinator := newCoordinator(&recordingRenderer{})
		pending := &Pending{Prefix: "1"}

		// When: the reply arrives while the prefix is unchanged
		ready, err := coordinator.OnReply(pending, "1", oracle.RenderReply{Text: "AA\nBB\n"})

		// Then: the reply is accepted with its line count and snapshot
		require.NoError(t, err)
		require.NotNil(t, ready)
		assert.Equal(t, "AA\nBB\n", ready.Text)
		assert.Equal(t, 2, ready.Lines)
		assert.Equal(t, "1", ready.Prefix)
	})

	t.Run("StaleReplyIsDiscardedSilently", func(t *testing.T) {
		// Given: a pending request issued for "1"
		coordinator := newCoordinator(&recordingRenderer{})
		pending := &Pending{Prefix: "1"}

		// When: the prefix has moved on to "2" by the time the reply lands
		ready, err := coordinator.OnReply(pending, "2", oracle.RenderReply{Text: "AA\n"})

		// Then: the reply is dropped without error
		require.NoError(t, err)
		require.Nil(t, ready)
	})

	t.Run("StaleFailureIsAlsoDiscarded", func(t *testing.T) {
		// Given: a superseded request whose call eventually failed
		coordinator := newCoordinator(&recordingRenderer{})
		pending := &Pending{Prefix: "1"}

		// When: the failed reply lands after the prefix changed
		ready, err := coordinator.OnReply(pending, "", oracle.RenderReply{Err: errors.New("timeout")})

		// Then: the failure of an irrelevant request is not the round's
		// problem
		require.NoError(t, err)
		require.Nil(t, ready)
	})

	t.Run("LiveFailureIsFatal", func(t *testing.T) {
		// Given: a pending request that is still live
		coordinator := newCoordinator(&recordingRenderer{})
		pending := &Pending{Prefix: "1"}

		// When: the oracle call failed
		ready, err := coordinator.OnReply(pending, "1", oracle.RenderReply{Err: errors.New("boom")})

		// Then: the round must abort, nothing partial is displayed
		require.Error(t, err)
		require.Nil(t, ready)
	})
}

func TestMatch(t *testing.T) {
	moves := movesWithOverlappingIDs()

	// Exact ids resolve to their move
	require.NotNil(t, Match("1", moves))
	assert.Equal(t, "10", Match("10", moves).ID)

	// Strict prefixes and unknown ids resolve to nothing
	assert.Nil(t, Match("", moves))
	assert.Nil(t, Match("100", moves))
	assert.Nil(t, Match("7", moves))
}
