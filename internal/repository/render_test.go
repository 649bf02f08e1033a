package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movepeek/tictactoe-console/testing/suite"
)

func TestRenderCacheRepository_Set(t *testing.T) {
	ctx, st := suite.New(t)

	cache := NewRenderCacheRepository(st.Storage, time.Hour)

	// Given: a rendered board for a state
	err := cache.Set(ctx, "X--------", " X |   |   \n")

	// Then: storing it succeeds
	require.NoError(t, err)
}

func TestRenderCacheRepository_Get(t *testing.T) {
	t.Run("Get_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		cache := NewRenderCacheRepository(st.Storage, time.Hour)

		// Given: a cached render
		const state = "X--------"
		const text = " X |   |   \n"

		err := cache.Set(ctx, state, text)
		require.NoError(t, err)

		// When: the same state is looked up
		got, err := cache.Get(ctx, state)

		// Then: the cached text comes back unchanged
		require.NoError(t, err)
		require.Equal(t, text, got)
	})

	t.Run("Get_NotCached", func(t *testing.T) {
		ctx, st := suite.New(t)

		cache := NewRenderCacheRepository(st.Storage, time.Hour)

		// When: an unknown state is looked up
		got, err := cache.Get(ctx, "---------")

		// Then: an ErrRenderNotCached error should be returned
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRenderNotCached)
		assert.Empty(t, got)
	})
}
