package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v3"

	"github.com/danielmmetz/hn-live/api"
	"github.com/danielmmetz/hn-live/feed"
	"github.com/danielmmetz/hn-live/hn"
	"github.com/danielmmetz/hn-live/readability"
	"github.com/danielmmetz/hn-live/sse"
	"github.com/danielmmetz/hn-live/store"
	"github.com/danielmmetz/hn-live/worker"
)

func main() {
	flagSet := flag.NewFlagSet("hn-live", flag.ExitOnError)

	var (
		addr         string
		port         int
		staticDir    string
		apiBase      string
		pageSize     int
		commentBatch int
		replyBatch   int
		subBatch     int
		scanBudget   int
		resultCap    int
		concurrency  int
		upstreamRPS  float64
		pollInterval time.Duration
		sessionTTL   time.Duration
		logLevel     string
		logJSON      bool
	)
	defaults := feed.DefaultConfig()
	flagSet.StringVar(&addr, "addr", "localhost", "Address to listen on")
	flagSet.IntVar(&port, "port", 8080, "Port to listen on")
	flagSet.StringVar(&staticDir, "static-dir", "", "Path to a static client to serve (default: placeholder page)")
	flagSet.StringVar(&apiBase, "api-base", hn.DefaultBaseURL, "Base URL of the Hacker News API")
	flagSet.IntVar(&pageSize, "page-size", defaults.PageSize, "Stories fetched per feed page")
	flagSet.IntVar(&commentBatch, "comment-batch", defaults.CommentBatch, "Top-level comments fetched per thread")
	flagSet.IntVar(&replyBatch, "reply-batch", defaults.ReplyBatch, "Replies fetched per top-level comment")
	flagSet.IntVar(&subBatch, "submission-batch", defaults.SubmissionBatch, "Submissions fetched per user")
	flagSet.IntVar(&scanBudget, "scan-budget", defaults.ScanBudget, "Item ids examined per keyword search")
	flagSet.IntVar(&resultCap, "result-cap", defaults.ResultCap, "Maximum keyword search matches")
	flagSet.IntVar(&concurrency, "concurrency", hn.DefaultConcurrency, "Maximum in-flight item requests per batch")
	flagSet.Float64Var(&upstreamRPS, "upstream-rps", 0, "Upstream request rate limit (0 disables)")
	flagSet.DurationVar(&pollInterval, "poll-interval", 30*time.Second, "Update feed poll interval")
	flagSet.DurationVar(&sessionTTL, "session-ttl", 2*time.Hour, "Idle time before a feed session is dropped")
	flagSet.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flagSet.BoolVar(&logJSON, "log-json", false, "Emit logs as JSON")

	if err := ff.Parse(flagSet, os.Args[1:], ff.WithEnvVars()); err != nil {
		slog.Error("failed to parse flags", "error", err)
		os.Exit(1)
	}

	setupLogger(logLevel, logJSON)

	// HN client
	clientOpts := []hn.Option{
		hn.WithBaseURL(apiBase),
		hn.WithConcurrency(concurrency),
	}
	if upstreamRPS > 0 {
		clientOpts = append(clientOpts, hn.WithRateLimit(upstreamRPS, max(1, int(upstreamRPS))))
	}
	hnClient := hn.NewClient(clientOpts...)
	reader := readability.NewReader(nil)

	cfg := feed.Config{
		PageSize:         pageSize,
		CommentBatch:     commentBatch,
		ReplyBatch:       replyBatch,
		SubmissionBatch:  subBatch,
		ScanBudget:       scanBudget,
		ResultCap:        resultCap,
		Concurrency:      concurrency,
		ReplyParallelism: defaults.ReplyParallelism,
	}
	sessions := store.NewSessionStore(sessionTTL, func() *feed.Session {
		return feed.New(hnClient, reader, cfg)
	})

	// SSE broker
	broker := sse.NewBroker(1000)

	// Background worker context
	workerCtx, workerCancel := context.WithCancel(context.Background())

	poller := worker.NewUpdatePoller(hnClient, broker, pollInterval, 5)
	poller.Start(workerCtx)

	cleaner := worker.NewCleaner(sessions, 10*time.Minute)
	cleaner.Start(workerCtx)

	var staticFS fs.FS
	if staticDir != "" {
		slog.Info("serving static files from filesystem", "dir", staticDir)
		staticFS = os.DirFS(staticDir)
	}

	// HTTP server with graceful shutdown
	listenAddr := fmt.Sprintf("%s:%d", addr, port)
	srv := &http.Server{
		Addr:    listenAddr,
		Handler: api.Routes(sessions, broker, poller, staticFS),
	}

	go func() {
		slog.Info("server starting", "addr", listenAddr, "api_base", apiBase)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("received signal, shutting down", "signal", sig)

	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}

func setupLogger(level string, asJSON bool) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if asJSON {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}
