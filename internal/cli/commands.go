package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dyike/stocklyzer/internal/api"
	"github.com/dyike/stocklyzer/internal/dashboard"
	"github.com/dyike/stocklyzer/internal/models"
	"github.com/dyike/stocklyzer/internal/symbol"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	a := &app{opts: opts}

	rootCmd := &cobra.Command{
		Use:   "stocklyzer",
		Short: "Stocklyzer - Stock Analytics Dashboard",
		Long: `Stocklyzer is a terminal dashboard for CAPM calculation, technical analysis
and price prediction, backed by the Stocklyzer analytics service.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: start interactive mode
			return runInteractiveMode(cmd, a)
		},
	}

	// Add subcommands
	rootCmd.AddCommand(newCAPMCmd(a))
	rootCmd.AddCommand(newAnalyzeCmd(a))
	rootCmd.AddCommand(newPredictCmd(a))
	rootCmd.AddCommand(newHealthCmd(a))
	rootCmd.AddCommand(newStocksCmd(a))
	rootCmd.AddCommand(newSearchCmd(a))
	rootCmd.AddCommand(newInfoCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Configuration file path")
	flags.StringVar(&opts.backend, "backend", "", "Analytics service base URL")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error, disabled)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format (pretty, json)")

	return rootCmd
}

// newCAPMCmd creates the capm command
func newCAPMCmd(a *app) *cobra.Command {
	var years int

	cmd := &cobra.Command{
		Use:   "capm SYMBOL...",
		Short: "Calculate CAPM for up to 10 stocks against the market",
		Long: `Calculate beta, alpha and CAPM expected return for a basket of stocks.
Example: stocklyzer capm AAPL MSFT GOOGL --years=3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := dashboard.NewCAPMRequest(args, models.Years(years))
			if err != nil {
				return err
			}

			resp, err := a.client().CalculateCAPM(cmd.Context(), req)
			if err != nil {
				return err
			}
			renderCAPM(cmd.OutOrStdout(), resp, req.Years)
			return nil
		},
	}

	cmd.Flags().IntVar(&years, "years", int(models.DefaultYears), "Lookback window in years (1, 2, 3 or 5)")
	return cmd
}

// newAnalyzeCmd creates the analyze command
func newAnalyzeCmd(a *app) *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "analyze SYMBOL",
		Short: "Run technical analysis for a stock symbol",
		Long: `Show price history, moving averages, RSI, MACD and Bollinger Bands for a stock.
Example: stocklyzer analyze AAPL --period=6mo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := dashboard.NewAnalysisRequest(args[0], models.Period(period))
			if err != nil {
				return err
			}

			resp, err := a.client().Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}
			renderAnalysis(cmd.OutOrStdout(), resp, req.Period)
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", string(models.DefaultPeriod), "History period (1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y)")
	return cmd
}

// newPredictCmd creates the predict command
func newPredictCmd(a *app) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "predict SYMBOL",
		Short: "Forecast future prices for a stock symbol",
		Long: `Forecast closing prices with confidence intervals.
Example: stocklyzer predict TSLA --days=14`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := dashboard.NewPredictionRequest(args[0], models.Days(days))
			if err != nil {
				return err
			}

			resp, err := a.client().Predict(cmd.Context(), req)
			if err != nil {
				return err
			}
			renderPrediction(cmd.OutOrStdout(), req.Symbol, resp, req.Days)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", int(models.DefaultDays), "Forecast horizon in days (7, 14, 30, 60, 90)")
	return cmd
}

// newHealthCmd creates the health command
func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the analytics service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.client().Health(cmd.Context())
			if err != nil {
				return err
			}
			DisplaySuccess(cmd.OutOrStdout(), fmt.Sprintf("Backend at %s is %s", a.client().BaseURL(), h.Status))
			return nil
		},
	}
}

// newStocksCmd creates the stocks command
func newStocksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stocks",
		Short: "List the stocks suggested for CAPM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stocks, err := a.client().AvailableStocks(cmd.Context())
			if err != nil {
				return err
			}
			renderAvailableStocks(cmd.OutOrStdout(), stocks)
			return nil
		},
	}
}

// newSearchCmd creates the search command
func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Search listed stocks by symbol or name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return api.ValidationError(fmt.Errorf("search query cannot be empty"))
			}

			results, err := a.client().Search(cmd.Context(), query)
			if err != nil {
				return err
			}
			renderSearch(cmd.OutOrStdout(), query, results)
			return nil
		},
	}
}

// newInfoCmd creates the info command
func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info SYMBOL",
		Short: "Show company information for a stock symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sym, err := symbol.Parse(args[0])
			if err != nil {
				return api.ValidationError(err)
			}

			info, err := a.client().Info(cmd.Context(), sym)
			if err != nil {
				return err
			}
			renderInfo(cmd.OutOrStdout(), sym, info)
			return nil
		},
	}
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Stocklyzer v%s\n", Version)
			fmt.Fprintln(out, "CAPM, Technical Analysis & Price Prediction Dashboard")
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Manage Stocklyzer configuration settings",
	}

	// config show subcommand
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cmd.OutOrStdout(), a)
		},
	})

	// config set subcommand
	configCmd.AddCommand(&cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Persist a configuration value",
		Long: `Persist one key of the configuration file.
Keys: backend_url, request_timeout_ms, log_level, log_format, log_to_file,
log_dir, log_rotation_mb, log_retention_days, debug`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.manager.Set(args[0], args[1]); err != nil {
				return fmt.Errorf("failed to set %s: %w", args[0], err)
			}
			DisplaySuccess(cmd.OutOrStdout(), fmt.Sprintf("%s = %s", args[0], args[1]))
			return nil
		},
	})

	// config path subcommand
	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), a.manager.Path())
		},
	})

	return configCmd
}

// showConfig displays the effective configuration
func showConfig(w io.Writer, a *app) {
	cfg := a.config()
	fmt.Fprintln(w, "📋 Current Stocklyzer Configuration:")
	fmt.Fprintln(w, "═══════════════════════════════════════")
	fmt.Fprintf(w, "Config File:          %s\n", a.manager.Path())
	fmt.Fprintf(w, "Backend URL:          %s\n", cfg.BackendURL)
	fmt.Fprintf(w, "Request Timeout:      %s\n", cfg.RequestTimeout())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Log Level:            %s\n", cfg.LogLevel)
	fmt.Fprintf(w, "Log Format:           %s\n", cfg.LogFormat)
	fmt.Fprintf(w, "Log To File:          %t\n", cfg.LogToFile)
	if cfg.LogToFile {
		fmt.Fprintf(w, "Log Directory:        %s\n", cfg.LogDir)
		fmt.Fprintf(w, "Log Rotation:         %d MB, %d days\n", cfg.LogRotationMB, cfg.LogRetentionDays)
	}
	fmt.Fprintf(w, "Debug Mode:           %t\n", cfg.Debug)
}
