package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/movepeek/tictactoe-console/internal/entity"
)

var ErrBadCommandPath = errors.New("command path must be /<c>/ or /<c>/<state>")

// gameRenderer is the service-side render use case.
type gameRenderer interface {
	RenderText(ctx context.Context, game *entity.Game) string
}

type Handlers struct {
	logger   *slog.Logger
	renderer gameRenderer
}

func NewHandlers(logger *slog.Logger, renderer gameRenderer) *Handlers {
	return &Handlers{
		logger:   logger.With("component", "handlers"),
		renderer: renderer,
	}
}

// responseBody mirrors the wire format the console client consumes. The
// unused fields of a command are omitted rather than sent as nulls.
type responseBody struct {
	Command         string              `json:"command"`
	ParsedGameState string              `json:"parsed_game_state"`
	Player          string              `json:"player"`
	NextGameStates  []entity.MoveOption `json:"next_game_states,omitempty"`
	Text            string              `json:"text,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (that *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// Command - dispatches the single-letter command paths: /n/ for a fresh
// game, /l/<state> for the move list, /r/<state> for the rendered board.
func (that *Handlers) Command(w http.ResponseWriter, r *http.Request) {
	command, state, err := splitCommandPath(r.URL.Path)
	if err != nil {
		that.respondError(w, http.StatusBadRequest, err)
		return
	}

	switch command {
	case "n":
		that.handleNewGame(w, r)
	case "l":
		that.handleListMoves(w, r, state)
	case "r":
		that.handleRender(w, r, state)
	default:
		that.respondError(w, http.StatusNotFound, ErrBadCommandPath)
	}
}

func (that *Handlers) handleNewGame(w http.ResponseWriter, _ *http.Request) {
	game := entity.NewGame()

	that.respond(w, &responseBody{
		Command:         "new-game",
		ParsedGameState: game.Unparse(),
		Player:          game.Turn,
	})
}

func (that *Handlers) handleListMoves(w http.ResponseWriter, _ *http.Request, state string) {
	game, err := entity.ParseGame(state)
	if err != nil {
		that.respondError(w, http.StatusBadRequest, err)
		return
	}

	that.respond(w, &responseBody{
		Command:         "list",
		ParsedGameState: game.Unparse(),
		Player:          game.Turn,
		NextGameStates:  game.Moves(),
	})
}

func (that *Handlers) handleRender(w http.ResponseWriter, r *http.Request, state string) {
	game, err := entity.ParseGame(state)
	if err != nil {
		that.respondError(w, http.StatusBadRequest, err)
		return
	}

	that.respond(w, &responseBody{
		Command:         "render-to-text",
		ParsedGameState: game.Unparse(),
		Player:          game.Turn,
		Text:            that.renderer.RenderText(r.Context(), game),
	})
}

func (that *Handlers) respond(w http.ResponseWriter, body *responseBody) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("could not encode response", "error", err)
	}
}

func (that *Handlers) respondError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err = json.NewEncoder(w).Encode(&errorBody{Error: err.Error()}); err != nil {
		that.logger.Error("could not encode error response", "error", err)
	}
}

// splitCommandPath - splits "/l/XO------X" into ("l", "XO------X"). The
// state part is optional so "/n/" and "/n" both work.
func splitCommandPath(path string) (string, string, error) {
	trimmed := strings.TrimPrefix(path, "/")

	command, state, _ := strings.Cut(trimmed, "/")
	if len(command) != 1 {
		return "", "", ErrBadCommandPath
	}

	return command, state, nil
}
