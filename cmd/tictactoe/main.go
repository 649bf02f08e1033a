package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	app "github.com/movepeek/tictactoe-console/internal"
	"github.com/movepeek/tictactoe-console/internal/config"
)

// main - is the entry point of the console client. It initializes the
// configuration, logger, and runs the interactive session.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	conf := initConfig()

	// the base URL may be given directly, config file optional otherwise
	if len(os.Args) > 1 {
		conf.Client.OracleURL = os.Args[1]
	}

	logger := initLogger(conf)

	if err := app.RunClient(logger, conf); err != nil {
		panic(fmt.Errorf("client run failed: %w", err))
	}
}

// initialize config.
func initConfig() *config.Config {
	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	return config.MustLoad(filepath.Join(baseDir, "./config.yml"))
}

// initialize logger. Logs go to a file: stdout is the board display.
func initLogger(conf *config.Config) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	}

	logFile, err := os.OpenFile(conf.Client.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		panic(fmt.Errorf("failed to open log file: %w", err))
	}

	return slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: level}))
}
