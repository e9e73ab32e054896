package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/TobiSchelling/textmetrics/internal/config"
	"github.com/TobiSchelling/textmetrics/internal/database"
	"github.com/TobiSchelling/textmetrics/internal/logging"
	"github.com/TobiSchelling/textmetrics/internal/pipeline"
	"github.com/TobiSchelling/textmetrics/internal/report"
	"github.com/TobiSchelling/textmetrics/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "textmetrics",
	Short:        "Text metrics for web pages",
	Long:         "textmetrics fetches the pages listed in an input table, saves their visible text and writes sentiment, readability and lexical metrics for each page to an output table.",
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine; it only supplies TEXTMETRICS_CONFIG and friends.
		_ = godotenv.Load()

		if cmd.Name() == "init" || cmd.Name() == "version" {
			logging.Init("INFO", verbose)
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logging.Init(cfg.Logging.Level, verbose)
		slog.Debug("loaded config", "path", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("textmetrics", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/textmetrics/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to point at your input table and dictionary files.")
		return nil
	},
}

// --- extract and analyze commands ---

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Fetch every URL in the input table and save its visible text",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(func(ctx context.Context, p *pipeline.Pipeline) error {
			res, err := p.Extract(ctx)
			if err != nil {
				return err
			}
			fmt.Println("\nExtraction complete:")
			fmt.Printf("  Fetched: %d\n", res.Fetched)
			fmt.Printf("  Failed: %d\n", res.Failed)
			fmt.Printf("  Skipped: %d\n", res.Skipped)
			return nil
		})
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute metrics for every saved text and write the output table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(func(ctx context.Context, p *pipeline.Pipeline) error {
			res, err := p.Analyze(ctx)
			if err != nil {
				return err
			}
			fmt.Println("\nAnalysis complete:")
			fmt.Printf("  Scored: %d\n", res.Analyzed)
			fmt.Printf("  Without a row: %d\n", res.Unmatched)
			fmt.Printf("  Unreadable: %d\n", res.Failed)
			fmt.Printf("  Output: %s\n", cfg.Output.Path)
			return nil
		})
	},
}

// --- run command ---

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: extract -> analyze",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(func(ctx context.Context, p *pipeline.Pipeline) error {
			var result *pipeline.Result
			if dryRun {
				result = p.DryRun()
			} else {
				result = p.Run(ctx)
			}

			for i, step := range result.Steps {
				fmt.Printf("\nStep %d/2: %s\n", i+1, step.Name)
				if step.Err != nil {
					fmt.Printf("  Error: %v\n", step.Err)
				} else {
					fmt.Printf("  %s\n", step.Summary)
				}
			}
			if err := result.Err(); err != nil {
				return err
			}

			if !dryRun {
				fmt.Println("\nPipeline complete! Run 'textmetrics serve' to browse the results.")
			}
			return nil
		})
	},
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without executing")
}

// --- status command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show ledger statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Println("Runs:")
		fmt.Printf("  Extract: %d\n", stats.ExtractRuns)
		fmt.Printf("  Analyze: %d\n", stats.AnalyzeRuns)
		fmt.Println("\nFetches:")
		fmt.Printf("  OK: %d\n", stats.FetchesOK)
		fmt.Printf("  Failed: %d\n", stats.FetchesFailed)
		fmt.Printf("  Skipped: %d\n", stats.FetchesSkipped)
		fmt.Println("\nDocuments:")
		fmt.Printf("  Scored: %d\n", stats.DocumentsScored)
		if last := stats.LastAnalyzeRun; last != nil && last.FinishedAt != nil {
			fmt.Printf("  Last analysis: run %d at %s (%d scored)\n", last.ID, *last.FinishedAt, last.Processed)
		}
		return nil
	},
}

// --- report command ---

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a markdown report of the latest analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		run, err := db.GetLatestRun(database.KindAnalyze)
		if err != nil {
			return err
		}
		var docs []database.DocumentMetrics
		if run != nil {
			if docs, err = db.GetMetricsForRun(run.ID); err != nil {
				return err
			}
		}

		md := report.Build(run, docs) + "\n"
		if reportOutput == "" {
			fmt.Print(md)
			return nil
		}
		if err := os.WriteFile(reportOutput, []byte(md), 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Printf("Wrote report: %s\n", reportOutput)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Write the report to a file instead of stdout")
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to run server on")
}

// withPipeline opens the ledger and runs fn with a pipeline whose context is
// cancelled on interrupt.
func withPipeline(fn func(ctx context.Context, p *pipeline.Pipeline) error) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return fn(ctx, pipeline.New(cfg, db, slog.Default()))
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "textmetrics.db")
	return database.Open(dbPath)
}
