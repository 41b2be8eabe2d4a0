package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/kelsos/nft-snapshot/internal/census"
	"github.com/kelsos/nft-snapshot/internal/config"
	"github.com/kelsos/nft-snapshot/internal/contract"
	"github.com/kelsos/nft-snapshot/internal/export"
	"github.com/kelsos/nft-snapshot/internal/logger"
	"github.com/kelsos/nft-snapshot/internal/retry"
	"github.com/kelsos/nft-snapshot/internal/storage"
	"github.com/kelsos/nft-snapshot/internal/tui"
	"github.com/kelsos/nft-snapshot/internal/utils"
)

const version = "0.1.0"

func main() {
	logger.Init()
	utils.LoadEnvironment()

	cfg := config.NewConfig()
	cfg.LoadFromEnvironment()

	var useTUI bool

	rootCmd := &cobra.Command{
		Use:   "nft-snapshot",
		Short: "Snapshot the owner of every token id in an ERC-721 range",
		Long: `nft-snapshot enumerates the current owner of each token id in a
contiguous range on an ERC-721 contract and writes the (owner, token id)
pairs to a CSV table ordered by token id. Ids whose fetch exhausted its
retry budget are recorded in a separate error log.`,
		Run: func(cmd *cobra.Command, args []string) {
			runSnapshot(cfg, useTUI)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the nft-snapshot version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	// Flag defaults reflect the environment so --help shows effective values
	rootCmd.Flags().StringVarP(&cfg.RPCURL, "rpc-url", "u", cfg.RPCURL, "JSON-RPC endpoint URL")
	rootCmd.Flags().StringVarP(&cfg.ContractAddress, "contract", "c", cfg.ContractAddress, "ERC-721 contract address")
	rootCmd.Flags().StringVarP(&cfg.ABISource, "abi", "a", cfg.ABISource, "ABI descriptor path or URL (default: embedded ERC-721 fragment)")
	rootCmd.Flags().Uint64Var(&cfg.StartID, "start-id", cfg.StartID, "First token id of the range")
	rootCmd.Flags().Uint64Var(&cfg.EndID, "end-id", cfg.EndID, "Last token id of the range (inclusive)")
	rootCmd.Flags().IntVarP(&cfg.BatchSize, "batch-size", "b", cfg.BatchSize, "Concurrent calls per batch")
	rootCmd.Flags().DurationVar(&cfg.BatchDelay, "batch-delay", cfg.BatchDelay, "Pause between batches")
	rootCmd.Flags().StringVarP(&cfg.OutputPath, "output", "o", cfg.OutputPath, "Path of the CSV owner table")
	rootCmd.Flags().StringVar(&cfg.ErrorLogPath, "error-log", cfg.ErrorLogPath, "Path of the append-only error log")
	rootCmd.Flags().BoolVar(&useTUI, "tui", false, "Show a live progress monitor")

	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("Failed to execute command: %v", err)
	}
}

func runSnapshot(cfg *config.Config, useTUI bool) {
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	abiJSON, err := contract.LoadABI(cfg.ABISource)
	if err != nil {
		logger.Fatal("Failed to load ABI: %v", err)
	}

	client, err := contract.NewClient(ctx, cfg.RPCURL, cfg.ContractAddress, abiJSON)
	if err != nil {
		logger.Fatal("Failed to set up contract client: %v", err)
	}
	defer client.Close()

	if previous, err := storage.LoadRunSummary(cfg.ContractAddress); err != nil {
		logger.Warn("Could not read previous run summary: %v", err)
	} else if previous != nil {
		logger.Info("Previous run covered [%d, %d]: %d owned, %d absent, %d failed",
			previous.StartID, previous.EndID, previous.Owned, previous.Absent, previous.Failed)
	}

	policy := retry.Policy{
		MaxAttempts:  cfg.MaxAttempts,
		BaseDelay:    cfg.RetryBaseDelay,
		GrowthFactor: cfg.RetryGrowth,
		MaxDelay:     cfg.RetryMaxDelay,
	}
	classifier := retry.NewClassifier(cfg.AbsenceTokens)
	fetcher := census.NewFetcher(client, policy, classifier, cfg.CallTimeout)
	scheduler := census.NewScheduler(fetcher, cfg.BatchSize, cfg.BatchDelay)
	if cfg.RequestsPerSecond > 0 {
		scheduler.SetLimiter(rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1))
	}

	logger.Info("Fetching owners for token ids [%d, %d] on %s (batch size %d)",
		cfg.StartID, cfg.EndID, cfg.ContractAddress, cfg.BatchSize)

	var results *census.ResultSet
	var runErr error

	if useTUI {
		if err := logger.InitFileOnly(); err != nil {
			logger.Fatal("Failed to initialize file logger: %v", err)
		}
		defer logger.Close()

		monitor := tui.NewCensusMonitor(cfg.EndID - cfg.StartID + 1)
		scheduler.OnProgress(monitor.HandleProgress)

		if err := monitor.Run(func() error {
			results, runErr = scheduler.Run(ctx, cfg.StartID, cfg.EndID)
			return runErr
		}); err != nil {
			logger.Fatal("Monitor failed: %v", err)
		}
	} else {
		scheduler.OnProgress(func(p census.Progress) {
			if p.Outcome.Status == census.StatusFailed {
				logger.Warn("Token %d failed: %s", p.Outcome.TokenID, p.Outcome.Reason)
			}
			if p.Completed == p.Total || p.Completed%uint64(cfg.BatchSize) == 0 {
				logger.Info("Progress: %d/%d (batch %d/%d)", p.Completed, p.Total, p.Batch, p.Batches)
			}
		})
		results, runErr = scheduler.Run(ctx, cfg.StartID, cfg.EndID)
	}

	if runErr != nil {
		logger.Error("Run aborted, output not written: %v", runErr)
		os.Exit(1)
	}
	if results == nil {
		logger.Error("Run interrupted before completion, output not written")
		os.Exit(1)
	}

	if err := export.WriteTable(cfg.OutputPath, results.Sorted()); err != nil {
		logger.Fatal("Failed to write owner table: %v", err)
	}

	failures := results.Failures()
	if len(failures) > 0 {
		if err := export.AppendFailures(cfg.ErrorLogPath, failures); err != nil {
			logger.Fatal("Failed to write error log: %v", err)
		}
	}

	owned, absent, failed := results.Counts()
	if err := storage.SaveRunSummary(storage.RunSummary{
		Contract:    cfg.ContractAddress,
		StartID:     cfg.StartID,
		EndID:       cfg.EndID,
		Owned:       owned,
		Absent:      absent,
		Failed:      failed,
		CompletedAt: time.Now().Unix(),
	}); err != nil {
		logger.Warn("Failed to save run summary: %v", err)
	}

	logger.Info("Snapshot complete: %d owned, %d absent, %d failed -> %s",
		owned, absent, failed, cfg.OutputPath)
	if failed > 0 {
		logger.Info("Failed ids recorded in %s", cfg.ErrorLogPath)
	}
}
