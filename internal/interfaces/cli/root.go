// Package cli implements the patentctl command tree: update, summary,
// export, and serve. The root command loads configuration and builds the
// pipeline service; subcommands only format input and output.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Hamaduzi123/ip/internal/application/pipeline"
	"github.com/Hamaduzi123/ip/internal/config"
	"github.com/Hamaduzi123/ip/internal/domain/names"
	"github.com/Hamaduzi123/ip/internal/domain/records"
	"github.com/Hamaduzi123/ip/internal/infrastructure/excelstore"
	"github.com/Hamaduzi123/ip/internal/infrastructure/extract"
	"github.com/Hamaduzi123/ip/internal/infrastructure/extract/epo"
	"github.com/Hamaduzi123/ip/internal/infrastructure/extract/lens"
	"github.com/Hamaduzi123/ip/internal/infrastructure/monitoring/logging"
	"github.com/Hamaduzi123/ip/internal/infrastructure/monitoring/prometheus"
	"github.com/Hamaduzi123/ip/internal/infrastructure/statestore"
	"github.com/Hamaduzi123/ip/internal/rules"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	MasterFile string
}

// appContext carries the initialized dependencies through the command tree.
type appContext struct {
	cfg    *config.Config
	logger logging.Logger
}

// NewRootCommand builds the patentctl root command with all subcommands
// attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	app := &appContext{}

	cmd := &cobra.Command{
		Use:     "patentctl",
		Short:   "Patent portfolio reconciliation pipeline",
		Long:    "patentctl maintains the master patent dataset: it harvests records\nfrom Lens.org and EPO OPS, standardizes applicant names, removes\nduplicates, and merges the result into the master spreadsheet.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: env-only configuration)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVar(&opts.MasterFile, "master", "", "master dataset file override")

	cmd.AddCommand(
		newUpdateCommand(app),
		newSummaryCommand(app),
		newExportCommand(app),
		newServeCommand(app),
	)
	return cmd
}

func (a *appContext) init(opts *RootOptions) error {
	var cfg *config.Config
	var err error
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.MasterFile != "" {
		cfg.Pipeline.MasterFile = opts.MasterFile
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// buildService wires the full pipeline. metrics may be nil; only serve
// exposes a metrics endpoint.
func (a *appContext) buildService(metrics *prometheus.Metrics) (*pipeline.Service, error) {
	set, err := rules.LoadOrDefault(a.cfg.Pipeline.RulesFile)
	if err != nil {
		return nil, err
	}

	handle := rules.NewHandle(set)
	classifier := names.NewClassifier(handle)
	normalizer := records.NewNormalizer(names.NewStandardizer(handle))
	merger := records.NewMergeEngine(normalizer, a.cfg.Pipeline.ResourceIDFloor)

	store := excelstore.New(a.cfg.Pipeline.MasterFile, a.logger)
	state := statestore.New(a.cfg.Pipeline.StateFile, a.logger)

	extractors := []extract.Extractor{
		lens.New(a.cfg.Lens, classifier, a.logger),
		epo.New(a.cfg.EPO, a.logger),
	}
	return pipeline.New(store, state, merger, metrics, a.logger, extractors...), nil
}

// Execute runs the command tree.
func Execute() error {
	return NewRootCommand().Execute()
}
