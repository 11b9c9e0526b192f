package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"worldstats/adapters/report"
	"worldstats/domain/core"
	"worldstats/internal/config"
	"worldstats/internal/container"
	"worldstats/internal/notify"
	"worldstats/internal/testkit"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "worldstats-cli",
		Short: "Aggregate world snapshots into a ranked report and mail it",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional; the process environment wins either way
			_ = godotenv.Load()
		},
	}

	rootCmd.AddCommand(
		newAggregateCmd(),
		newNotifyCmd(),
		newRunCmd(),
		newGenerateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAggregateCmd() *cobra.Command {
	var asJSON bool
	var runID string

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Aggregate every snapshot in DATA_DIR and write the report",
		Long: `Read every snapshot file in DATA_DIR, fold the observations per world, filter by
MIN_OCCURRENCES and MIN_MARKETING_SPEND and write the ranked report to REPORT_CSV
(and REPORT_XLSX when set).

Example: DATA_DIR=./data worldstats-cli aggregate --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer()
			if err != nil {
				return err
			}
			req := c.AggregationRequest()
			if cmd.Flags().Changed("run-id") {
				if req.RunID, err = core.ParseRunID(runID); err != nil {
					return err
				}
			}
			result, err := c.Aggregation.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(result)
			}
			fmt.Printf("Run %s: %d worlds ranked from %d records in %dms\n",
				result.RunID, len(result.Summaries), result.Stats.RecordsProcessed, result.RuntimeMs)
			for _, path := range result.Reports {
				fmt.Printf("  wrote %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the run summary as JSON")
	cmd.Flags().StringVar(&runID, "run-id", "", "Use this run id instead of generating one")

	return cmd
}

func newNotifyCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Email the existing report if the send interval has elapsed",
		Long: `Load the report at REPORT_CSV and email it with a summary of the top worlds.
The email is skipped until EMAIL_INTERVAL_HOURS have passed since the last send,
unless --force is given.

Example: worldstats-cli notify --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer()
			if err != nil {
				return err
			}
			path := c.Config.Report.CSVFile
			summaries, err := report.LoadCSV(path)
			if err != nil {
				return err
			}
			outcome, err := c.Notifier.Notify(cmd.Context(), notify.Report{
				Summaries:  summaries,
				Attachment: path,
			}, force)
			if err != nil {
				return err
			}
			fmt.Printf("Email %s\n", outcome)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Send regardless of the interval")

	return cmd
}

func newRunCmd() *cobra.Command {
	var forceEmail bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Aggregate, then email the report when it is due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer()
			if err != nil {
				return err
			}
			return runProduction(cmd.Context(), c, forceEmail)
		},
	}

	cmd.Flags().BoolVar(&forceEmail, "force-email", false, "Send the email regardless of the interval")

	return cmd
}

func newGenerateCmd() *cobra.Command {
	config := testkit.DefaultSnapshotConfig()

	cmd := &cobra.Command{
		Use:   "generate [dir]",
		Short: "Write synthetic world snapshots for local runs",
		Long: `Write a seeded set of synthetic snapshot files. Records use mixed key aliases,
string counts and occasional missing ids, like real listings do.

Example: worldstats-cli generate ./data --worlds 500 --snapshots 24 --compression zst`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := testkit.NewSnapshotGenerator(config).WriteSnapshots(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Wrote %d snapshot files to %s\n", len(paths), args[0])
			return nil
		},
	}

	cmd.Flags().IntVar(&config.WorldCount, "worlds", config.WorldCount, "Number of distinct worlds")
	cmd.Flags().IntVar(&config.SnapshotCount, "snapshots", config.SnapshotCount, "Number of snapshot files")
	cmd.Flags().Float64Var(&config.PresenceRate, "presence", config.PresenceRate, "Chance a world appears in a snapshot")
	cmd.Flags().StringVar(&config.Compression, "compression", "", "Compress files: gz or zst")
	cmd.Flags().Int64Var(&config.Seed, "seed", config.Seed, "Random seed for deterministic output")

	return cmd
}

func runProduction(ctx context.Context, c *container.Container, forceEmail bool) error {
	result, err := c.Production.Run(ctx, c.AggregationRequest(), forceEmail)
	if err != nil {
		return err
	}
	if result.EmailErr != nil {
		return fmt.Errorf("production service completed with email issues: %w", result.EmailErr)
	}
	fmt.Printf("Production service completed successfully (email: %s)\n", result.Email)
	return nil
}

func buildContainer() (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return container.New(cfg)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
