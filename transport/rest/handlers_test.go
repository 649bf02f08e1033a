package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movepeek/tictactoe-console/internal/entity"
	"github.com/movepeek/tictactoe-console/internal/renderer"
)

func newTestHandlers() *Handlers {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandlers(logger, renderer.New(logger, nil))
}

func doCommand(t *testing.T, path string) (*httptest.ResponseRecorder, *responseBody) {
	t.Helper()

	handlers := newTestHandlers()

	recorder := httptest.NewRecorder()
	handlers.Command(recorder, httptest.NewRequest(http.MethodGet, path, http.NoBody))

	body := &responseBody{}
	if recorder.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), body))
	}

	return recorder, body
}

func TestHandlers_Command(t *testing.T) {
	t.Run("NewGame", func(t *testing.T) {
		// When: a fresh game is requested
		recorder, body := doCommand(t, "/n/")

		// Then: the empty board is returned with X to move
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "new-game", body.Command)
		assert.Equal(t, "---------", body.ParsedGameState)
		assert.Equal(t, entity.PlayerX, body.Player)
		assert.Empty(t, body.NextGameStates)
	})

	t.Run("ListMoves", func(t *testing.T) {
		// When: moves are listed for a board with one X placed
		recorder, body := doCommand(t, "/l/X--------")

		// Then: O has one successor per free cell, ids in board order
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "list", body.Command)
		assert.Equal(t, entity.PlayerO, body.Player)
		require.Len(t, body.NextGameStates, 8)
		assert.Equal(t, "2", body.NextGameStates[0].ID)
		assert.Equal(t, "XO-------", body.NextGameStates[0].NextBoard)
		assert.Equal(t, entity.PlayerX, body.NextGameStates[0].NextPlayer)
	})

	t.Run("Render", func(t *testing.T) {
		// When: a state is rendered
		recorder, body := doCommand(t, "/r/X---O----")

		// Then: the five-line board text comes back
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "render-to-text", body.Command)
		assert.Contains(t, body.Text, "  X  |     |     ")
		assert.Contains(t, body.Text, "-----|-----|-----")
	})

	t.Run("MalformedState", func(t *testing.T) {
		// When: the state is not a valid board
		recorder, _ := doCommand(t, "/l/garbage")

		// Then: the command is rejected with a JSON error body
		require.Equal(t, http.StatusBadRequest, recorder.Code)

		var errBody errorBody
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &errBody))
		assert.NotEmpty(t, errBody.Error)
	})

	t.Run("UnknownCommand", func(t *testing.T) {
		recorder, _ := doCommand(t, "/z/---------")
		require.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("BadPathShape", func(t *testing.T) {
		recorder, _ := doCommand(t, "/toolong/---------")
		require.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestHandlers_Ping(t *testing.T) {
	handlers := newTestHandlers()

	recorder := httptest.NewRecorder()
	handlers.Ping(recorder, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "pong", recorder.Body.String())
}
