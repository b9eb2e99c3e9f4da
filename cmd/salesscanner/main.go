package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"SalesScanner/internal/app"
	"SalesScanner/internal/config"
	"SalesScanner/internal/logging"
	"SalesScanner/internal/usecase"
)

type options struct {
	configPath string
	outDir     string
	logLevel   string
	noFilter   bool
	noColor    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "salesscanner <ventas.html>",
		Short: "Extract and classify orders from a saved Mercado Libre sales page",
		Args:  cobra.ExactArgs(1),
		// Errors are reported by run itself.
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVarP(&opts.outDir, "outdir", "o", "", "directory for the generated files")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	flags.BoolVar(&opts.noFilter, "no-filter", false, "keep orders in filtered states")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	return cmd
}

func run(ctx context.Context, opts options, path string, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if opts.noColor {
		color.NoColor = true
	}

	cfg := config.Load(opts.configPath)
	if opts.outDir != "" {
		cfg.Run.OutDir = opts.outDir
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.noFilter {
		cfg.Filters.Disabled = true
	}

	logger := logging.NewWriter(stderr, cfg.Logging.Level)
	application, err := app.New(cfg, logger)
	if err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(stderr, "configuración inválida: %v\n", err)
		return err
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(stderr))
	s.Suffix = " procesando " + path
	s.Start()
	outcome, err := application.Run(ctx, path)
	s.Stop()

	switch {
	case errors.Is(err, usecase.ErrViewSource):
		color.New(color.FgRed, color.Bold).Fprintln(stderr, "El archivo es un 'view-source'. Guardá la página completa desde el navegador (Ctrl+S).")
		return err
	case errors.Is(err, usecase.ErrNoRecords):
		printSummary(stdout, outcome)
		color.New(color.FgRed, color.Bold).Fprintln(stderr, "No se encontraron productos válidos. Revisá el reporte de depuración.")
		return err
	case err != nil:
		color.New(color.FgRed, color.Bold).Fprintf(stderr, "error: %v\n", err)
		return err
	}

	printSummary(stdout, outcome)
	return nil
}

func printSummary(w io.Writer, outcome usecase.Outcome) {
	stats := outcome.Result.Stats
	bold := color.New(color.Bold)
	bold.Fprintf(w, "Contenedores encontrados: %d\n", stats.TotalFound)
	color.New(color.FgRed, color.Bold).Fprintf(w, "  Urgentes:  %d\n", stats.UrgentCount)
	color.New(color.FgGreen).Fprintf(w, "  Normales:  %d\n", stats.NormalCount)
	color.New(color.FgYellow).Fprintf(w, "  A revisar: %d\n", stats.ToReviewCount)
	color.New(color.FgHiBlack).Fprintf(w, "  Filtrados: %d\n", stats.FilteredOut)
	if stats.RejectedCount > 0 || stats.FailedCount > 0 {
		color.New(color.FgMagenta).Fprintf(w, "  Rechazados: %d, con error: %d\n", stats.RejectedCount, stats.FailedCount)
	}
	if len(outcome.Files) == 0 {
		return
	}
	bold.Fprintln(w, "Archivos generados:")
	for _, file := range outcome.Files {
		fmt.Fprintf(w, "  %s\n", color.CyanString(file))
	}
}
