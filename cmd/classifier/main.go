package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"aijobs-utils/internal/classifier"
	"aijobs-utils/internal/config"
	"aijobs-utils/internal/llm"
	"aijobs-utils/internal/logging"
	"aijobs-utils/internal/store"
)

var (
	configPath  string
	limitArg    string
	commitFlag  bool
	stopOnError bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "classifier",
		Short: "Batch category classification over stored jobs",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "path to configuration file")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Classify stored jobs and print a run report",
		Long: `Classifies stored jobs with the model and prints counts by category and
confidence plus every validation issue. Runs read-only by default; pass
--commit to write the resulting categories back.`,
		RunE: runBatch,
	}
	runCmd.Flags().StringVar(&limitArg, "limit", "all", `number of jobs to process, or "all"`)
	runCmd.Flags().BoolVar(&commitFlag, "commit", false, "write classifications back to storage")
	runCmd.Flags().BoolVar(&stopOnError, "stop-on-error", false, "abort the batch on the first error-severity validation issue")

	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBatch(cmd *cobra.Command, _ []string) error {
	limit, err := parseLimit(limitArg)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logging.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}

	llmManager := llm.NewManager(cfg)
	if err := llmManager.Start(); err != nil {
		return fmt.Errorf("failed to start LLM manager: %w", err)
	}
	defer func() { _ = llmManager.Stop() }()

	db, err := store.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	dataStore := store.NewStore(db)
	defer func() { _ = dataStore.Close() }()

	runner := classifier.NewRunner(
		classifier.New(llmManager, cfg, nil),
		dataStore,
		cfg,
	)

	report, err := runner.Run(cmd.Context(), classifier.Options{
		Limit:       limit,
		Commit:      commitFlag,
		StopOnError: stopOnError,
	})
	if err != nil {
		return err
	}

	report.Render(os.Stdout)
	return nil
}

func parseLimit(arg string) (int, error) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	if arg == "" || arg == "all" {
		return 0, nil
	}
	limit, err := strconv.Atoi(arg)
	if err != nil || limit < 1 {
		return 0, fmt.Errorf(`invalid --limit %q: expected a positive number or "all"`, arg)
	}
	return limit, nil
}
