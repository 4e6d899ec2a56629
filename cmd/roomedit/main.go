// Command roomedit is the desktop scene editor. It loads configuration,
// opens the document and image stores, starts the autosaver, and runs the
// window loop until the user closes it.
package main

import (
	"context"
	_ "expvar"
	"flag"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"simroom/internal/blob"
	"simroom/internal/config"
	"simroom/internal/core"
	"simroom/internal/frontend/ebitenui"
	"simroom/internal/infra/persistence"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file (optional)")
		debugAddr  = flag.String("debug-addr", "", "listen address for /metrics and /debug/vars (disabled when empty)")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	ctx := context.Background()

	store, err := persistence.Open(persistence.Options{
		Driver: cfg.Store.Driver,
		Path:   cfg.Store.Path,
		DSN:    cfg.Store.DSN,
	})
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("open document store")
	}

	images, err := blob.Open(ctx, cfg.Blob.Driver, cfg.Blob.Root)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Blob.Driver).Msg("open image store")
	}

	metrics := core.MultiMetricsRecorder{core.NewExpvarMetricsRecorder("editor_service_metrics")}
	if *debugAddr != "" {
		metrics = append(metrics, core.NewPrometheusMetricsRecorder(prometheus.DefaultRegisterer))
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			logger.Info().Str("addr", *debugAddr).Msg("debug listener up")
			if err := http.ListenAndServe(*debugAddr, nil); err != nil {
				logger.Error().Err(err).Msg("debug listener stopped")
			}
		}()
	}

	svc := core.NewService(store, core.ServiceConfig{
		HistoryCapacity: cfg.Editor.HistoryCapacity,
		Logger:          logger,
		Metrics:         metrics,
		Images:          images,
	})

	if err := svc.Load(ctx); err != nil {
		logger.Fatal().Err(err).Msg("load document")
	}

	autosaveCtx, stopAutosave := context.WithCancel(ctx)
	defer stopAutosave()
	go core.NewAutosaver(svc, cfg.Editor.AutosaveInterval.Std()).Run(autosaveCtx)

	editor := ebitenui.New(svc, ebitenui.Config{
		Title:  "Room Editor",
		Width:  cfg.Editor.WindowWidth,
		Height: cfg.Editor.WindowHeight,
	}, logger)

	logger.Info().Str("store", cfg.Store.Driver).Msg("editor starting")
	if err := editor.Run(); err != nil {
		logger.Fatal().Err(err).Msg("window loop")
	}

	if svc.Selection().Unsaved() {
		if err := svc.Save(ctx); err != nil {
			logger.Error().Err(err).Msg("final save failed")
		}
	}
}
