package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/movepeek/tictactoe-console/internal/entity"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrEmptyRender      = errors.New("render reply carried no text")
)

// Client talks to the game service over its single-letter command paths:
// /n/ for a fresh game, /l/<state> for the move list, /r/<state> for a
// rendered board. Render calls may be slow and replies to overlapping calls
// arrive in no particular order; callers that care use RenderAsync and
// decide on arrival whether a reply is still wanted.
type Client struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
}

// RenderReply is the outcome of one asynchronous render call.
type RenderReply struct {
	Text string
	Err  error
}

func New(logger *slog.Logger, baseURL string, timeout time.Duration) *Client {
	return &Client{
		logger:     logger.With("component", "oracle"),
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type freshResponse struct {
	Command         string `json:"command"`
	ParsedGameState string `json:"parsed_game_state"`
	Player          string `json:"player"`
}

type listResponse struct {
	Command         string              `json:"command"`
	ParsedGameState string              `json:"parsed_game_state"`
	Player          string              `json:"player"`
	NextGameStates  []entity.MoveOption `json:"next_game_states"`
}

type renderResponse struct {
	Command string `json:"command"`
	Text    string `json:"text"`
}

// NewGame - asks the service for a fresh game state and the player to move.
func (that *Client) NewGame(ctx context.Context) (string, string, error) {
	var resp freshResponse
	if err := that.ask(ctx, that.commandURL('n', ""), &resp); err != nil {
		return "", "", fmt.Errorf("failed to fetch fresh game: %w", err)
	}

	return resp.ParsedGameState, resp.Player, nil
}

// ListMoves - fetches the ordered list of legal moves for a state. The
// order defines display order.
func (that *Client) ListMoves(ctx context.Context, state string) ([]entity.MoveOption, error) {
	var resp listResponse
	if err := that.ask(ctx, that.commandURL('l', state), &resp); err != nil {
		return nil, fmt.Errorf("failed to list moves: %w", err)
	}

	return resp.NextGameStates, nil
}

// Render - renders a state into its multi-line textual depiction.
func (that *Client) Render(ctx context.Context, state string) (string, error) {
	var resp renderResponse
	if err := that.ask(ctx, that.commandURL('r', state), &resp); err != nil {
		return "", fmt.Errorf("failed to render state: %w", err)
	}

	if resp.Text == "" {
		return "", ErrEmptyRender
	}

	return resp.Text, nil
}

// RenderAsync - issues a render call in the background and delivers exactly
// one reply on the returned channel. The channel is buffered, so a reply
// nobody reads anymore never leaks a goroutine.
func (that *Client) RenderAsync(ctx context.Context, state string) <-chan RenderReply {
	replyCh := make(chan RenderReply, 1)

	go func() {
		text, err := that.Render(ctx, state)
		replyCh <- RenderReply{Text: text, Err: err}
	}()

	return replyCh
}

func (that *Client) ask(ctx context.Context, url string, out any) error {
	started := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("could not build request: %w", err)
	}

	resp, err := that.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}

	that.logger.Debug("oracle call completed", "url", url, "duration", time.Since(started))

	return nil
}

func (that *Client) commandURL(command byte, arg string) string {
	return fmt.Sprintf("%s/%c/%s", that.baseURL, command, arg)
}
