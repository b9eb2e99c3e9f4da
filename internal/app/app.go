package app

import (
	"context"
	"fmt"
	"log/slog"

	"SalesScanner/internal/config"
	"SalesScanner/internal/filter"
	"SalesScanner/internal/infrastructure/export"
	"SalesScanner/internal/infrastructure/loader"
	"SalesScanner/internal/infrastructure/telegram"
	"SalesScanner/internal/logging"
	"SalesScanner/internal/ports"
	"SalesScanner/internal/usecase"
)

// Application wires configs to use cases.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	logger   *slog.Logger
}

// New builds a runnable application instance. It fails only when the
// configured outputs name an unknown exporter.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := export.NewRegistry(
		export.NewJSONExporter(baseLogger.With("component", "export.json")),
		export.NewReportExporter(baseLogger.With("component", "export.report")),
	)

	var reports, exporters []ports.Exporter
	for _, name := range cfg.Run.Outputs {
		exporter, err := registry.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("outputs: %w", err)
		}
		if name == export.ReportName {
			reports = append(reports, exporter)
			continue
		}
		exporters = append(exporters, exporter)
	}

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.Enabled() {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID,
			telegram.WithAPIURL(tg.APIURL),
			telegram.WithLogger(baseLogger.With("component", "telegram")),
		)
	}

	knownBad := filter.DefaultKnownBad()
	if cfg.KnownBad != nil {
		knownBad = *cfg.KnownBad
	}

	classifier := usecase.NewClassifier(usecase.ClassifierConfig{
		FilterStates:      cfg.Filters.States(),
		FilteringDisabled: cfg.Filters.Disabled,
		KnownBad:          knownBad,
		Location:          cfg.Run.Location(),
	}, baseLogger.With("component", "classifier"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Loader:     loader.NewHTMLLoader(baseLogger.With("component", "loader")),
		Classifier: classifier,
		Reports:    reports,
		Exporters:  exporters,
		Notifier:   notifier,
		OutDir:     cfg.Run.OutDir,
		Logger:     baseLogger.With("component", "pipeline"),
	})
	return &Application{cfg: cfg, pipeline: pipeline, logger: baseLogger}, nil
}

// Run processes one saved sales page.
func (a *Application) Run(ctx context.Context, path string) (usecase.Outcome, error) {
	if a.pipeline == nil {
		return usecase.Outcome{}, fmt.Errorf("application is not initialised")
	}
	if a.cfg.Filters.Disabled {
		a.logger.Info("filters disabled")
	}
	return a.pipeline.Process(ctx, path)
}
