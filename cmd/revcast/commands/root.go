package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"revcast/internal/analytics"
	"revcast/internal/config"
	"revcast/internal/ledger"
	"revcast/internal/logging"
	"revcast/internal/mcp"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	store *ledger.Store
	svc   *analytics.Service
)

var rootCmd = &cobra.Command{
	Use:   "revcast",
	Short: "revcast forecasts revenue and tracks performance against plan",
	Long: `revcast keeps a ledger of expected and actual amounts per revenue source and derives
forecasts, scenarios, seasonality, year-to-date summaries and insights from it.
Without a subcommand it serves those analyses as an MCP server over stdio.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := logging.Init(verbose); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
			os.Exit(1)
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		if err := openLedger(); err != nil {
			log.Fatal().Err(err).Str("sources", cfg.SourcesFile).Msg("Failed to open ledger")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Int("sources", len(store.Sources())).
			Int("entries", store.Count()).
			Msg("revcast starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(svc, mcp.Options{Charts: cfg.EnableMermaidCharts})
		if err != nil {
			return err
		}
		log.Info().Msg("MCP Server starting Stdio loop")
		return server.Serve(cmd.Context())
	},
}

func openLedger() error {
	catalog, err := ledger.LoadCatalog(cfg.SourcesFile)
	if err != nil {
		return err
	}
	store, err = ledger.NewStore(catalog, cfg.BaseCurrency)
	if err != nil {
		return err
	}
	if err := store.Load(cfg.LedgerFile); err != nil {
		return err
	}
	svc = analytics.NewService(store, analytics.Options{
		FiscalYear:    cfg.FiscalYear,
		LocalCurrency: cfg.LocalCurrency,
		Method:        cfg.ForecastMethod,
		Periods:       cfg.ForecastPeriods,
		Workers:       cfg.Workers,
	})
	return nil
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.Version = Version

	rootCmd.AddCommand(httpCmd, forecastCmd, summaryCmd, reportCmd, importCmd)
}
