// Command ecolang-server runs the HTTP API.
//
// Configuration comes from ECOLANG_ environment variables or a config
// file (see server.LoadConfig). The same binary doubles as the sandbox
// worker: when spawned with a "worker" argument it serves one request
// on stdin/stdout and exits.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/ecolang-io/ecolang/sandbox"
	"github.com/ecolang-io/ecolang/server"
	"github.com/ecolang-io/ecolang/storage"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "worker" {
		sandbox.ApplyLimits()
		os.Exit(sandbox.Serve(os.Stdin, os.Stdout))
	}

	var configFile string
	flag.StringVar(&configFile, "config", "", "Path to a config file")
	flag.Parse()

	cfg, err := server.LoadConfig(configFile)
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("load config")
	}
	logger := newLogger(cfg.LogLevel)

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open store")
	}
	defer store.Close()

	srv := &http.Server{
		Addr:         cfg.Listen,
		Handler:      server.New(cfg, store, logger).Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", cfg.Listen).Str("db", cfg.DBPath).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	var out io.Writer = os.Stderr
	if isatty.IsTerminal(os.Stderr.Fd()) {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
