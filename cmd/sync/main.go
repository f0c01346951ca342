package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"

	"github.com/predictfc/football-predict/internal/app"
	"github.com/predictfc/football-predict/internal/config"
	"github.com/predictfc/football-predict/internal/platform/logging"
)

// One-shot fixture sync. Fetches every configured league from the enabled
// providers, reconciles into storage, and recomputes team stats. Intended for
// cron or a scheduled job runner.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer func() { _ = application.Close() }()

	report, err := application.Sync.Run(ctx)
	if err != nil {
		logger.Error("sync failed", "error", err)
		os.Exit(1)
	}

	out, err := sonic.ConfigDefault.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Error("encode report", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
