package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wordwhiz/wordwhiz/pkg/logging"
	"github.com/wordwhiz/wordwhiz/pkg/runner"
	"github.com/wordwhiz/wordwhiz/pkg/wordwhiz"
)

type engineDrainer struct {
	engine *wordwhiz.Engine
}

func (d engineDrainer) Drain() error {
	return d.engine.Stop()
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	flag.Parse()

	cfg, err := wordwhiz.LoadConfig(*configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	engine, err := wordwhiz.NewEngine(ctx, cfg)
	if err != nil {
		slog.Error("engine_build_failed", "error", err)
		os.Exit(1)
	}

	drainTimeout := time.Duration(cfg.Game.DrainTimeoutMS) * time.Millisecond
	life := runner.NewLifecycleRunner(engineDrainer{engine: engine}, runner.Hooks{
		OnStart: func() {
			if err := engine.Start(ctx); err != nil {
				slog.Error("engine_start_failed", "error", err)
				cancel()
			}
		},
		OnStop: func() {
			slog.Info("shutdown_complete")
		},
	}, drainTimeout)

	slog.Info("starting", "engine", engine.String())
	if err := life.Run(ctx); err != nil {
		slog.Error("run_failed", "error", err)
		os.Exit(1)
	}
}
