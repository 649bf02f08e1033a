package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/movepeek/tictactoe-console/internal/config"
	"github.com/movepeek/tictactoe-console/internal/oracle"
	"github.com/movepeek/tictactoe-console/internal/session"
	"github.com/movepeek/tictactoe-console/internal/terminal"
)

// RunClient - runs the interactive console client: fetch a fresh game, then
// loop selection rounds until the user quits or the game has no moves left.
func RunClient(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	oracleClient := oracle.New(logger, conf.Client.OracleURL, conf.Client.RequestTimeout)

	term := terminal.New(os.Stdout, os.Stdin)
	defer term.DisableRaw()

	board, player, err := fetchFreshGame(ctx, oracleClient)
	if err != nil {
		return err
	}

	log.Info("fresh game fetched", "board", board, "player", player)

	sess := session.New(logger, term, oracleClient, board, player)

	// rounds repaint from the top-left
	term.Print("\x1b[2J")

	for {
		moves, err := oracleClient.ListMoves(ctx, sess.Board)
		if err != nil {
			return fmt.Errorf("could not list moves: %w", err)
		}

		if len(moves) == 0 {
			return finishGame(ctx, term, oracleClient, sess.Board)
		}

		outcome, err := sess.RunRound(ctx, moves)
		if err != nil {
			return fmt.Errorf("selection round failed: %w", err)
		}

		if outcome.Quit {
			log.Info("session quit by user")
			term.Print("\r\n")
			return nil
		}

		sess.Apply(outcome.Move)
	}
}

// fetchFreshGame asks the service for a new game, spinning on stderr while
// the call is in flight. The spinner never runs in raw mode; the round loop
// has not started yet.
func fetchFreshGame(ctx context.Context, oracleClient *oracle.Client) (string, string, error) {
	spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	spin.Suffix = " contacting game service..."
	spin.Start()
	defer spin.Stop()

	board, player, err := oracleClient.NewGame(ctx)
	if err != nil {
		return "", "", fmt.Errorf("could not start a fresh game: %w", err)
	}

	return board, player, nil
}

// finishGame paints the final position and announces the end of the game.
func finishGame(ctx context.Context, term *terminal.Terminal, oracleClient *oracle.Client, board string) error {
	text, err := oracleClient.Render(ctx, board)
	if err != nil {
		return fmt.Errorf("could not render final board: %w", err)
	}

	term.PaintRegion(1, 0, text)
	term.MoveTo(terminal.LineCount(text) + 1)
	term.ClearLine()
	term.Print(color.New(color.Bold).Sprint("No moves left; game over."), "\r\n")

	return nil
}
