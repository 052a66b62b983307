package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rolloutlab/replaypool/internal/cartpole"
	"github.com/rolloutlab/replaypool/internal/config"
	"github.com/rolloutlab/replaypool/internal/policy"
	"github.com/rolloutlab/replaypool/internal/replay"
	"github.com/rolloutlab/replaypool/internal/rollout"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "collector",
	Short: "Parallel rollout collector with a bounded replay pool",
	Long: `Collector runs parallel cart-pole rollout workers that feed a shared,
bounded experience-replay pool. Each worker owns one environment and one
pool segment; samples are spread across segments either deterministically
or by inverse-occupancy load balancing.`,
	RunE: runCollector,
}

func init() {
	cfg = config.Default()

	// Pool settings
	rootCmd.Flags().IntVar(&cfg.Processes, "processes", cfg.Processes, "Number of parallel rollout workers")
	rootCmd.Flags().IntVar(&cfg.PoolSize, "pool-size", cfg.PoolSize, "Soft total capacity across all segments")
	rootCmd.Flags().IntVar(&cfg.WindowSize, "window-size", cfg.WindowSize, "Oldest entries dropped on capacity overflow (0 drops one)")
	rootCmd.Flags().IntVar(&cfg.ClearingFreq, "clearing-freq", cfg.ClearingFreq, "Appends between periodic clears (0 disables)")
	rootCmd.Flags().IntVar(&cfg.ClearWindow, "clear-window", cfg.ClearWindow, "Oldest entries dropped on each periodic clear")
	rootCmd.Flags().BoolVar(&cfg.Random, "random", cfg.Random, "Probabilistic inverse-occupancy load balancing")
	rootCmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 seeds from the clock)")

	// Collection settings
	rootCmd.Flags().IntVar(&cfg.Rounds, "rounds", cfg.Rounds, "Collection rounds (one episode per worker per round)")

	// Logging
	rootCmd.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	// Bind flags to viper for environment variable support
	viper.BindPFlags(rootCmd.Flags())
	viper.SetEnvPrefix("COLLECTOR")
	viper.AutomaticEnv()
}

func runCollector(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	pool, err := replay.New(replay.Options{
		Processes:    cfg.Processes,
		PoolSize:     cfg.PoolSize,
		WindowSize:   cfg.WindowSize,
		ClearingFreq: cfg.ClearingFreq,
		ClearWindow:  cfg.ClearWindow,
		Random:       cfg.Random,
		Seed:         seed,
		Logger:       &logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}

	envs := make([]rollout.Environment, cfg.Processes)
	for p := range envs {
		envs[p] = cartpole.NewEnv(rand.New(rand.NewSource(seed + int64(p))))
	}

	pol, err := policy.NewRandomDiscrete(2, seed)
	if err != nil {
		return fmt.Errorf("failed to create policy: %w", err)
	}

	collector, err := rollout.New(pool, envs, pol, &logger)
	if err != nil {
		return fmt.Errorf("failed to create collector: %w", err)
	}

	// Stop workers cooperatively on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info().Msg("shutdown signal received, stopping workers")
		cancel()
	}()

	logger.Info().
		Int("processes", cfg.Processes).
		Int("pool_size", cfg.PoolSize).
		Int("soft_cap", pool.SoftCap()).
		Bool("random", cfg.Random).
		Msg("starting collection")

	for round := 1; round <= cfg.Rounds; round++ {
		if err := collector.Run(ctx); err != nil {
			return fmt.Errorf("collection round %d: %w", round, err)
		}
		stats := pool.Stats()
		logger.Info().
			Int("round", round).
			Ints("segment_lens", stats.SegmentLens).
			Int("total_samples", stats.TotalSamples).
			Uint64("total_appends", stats.TotalAppends).
			Uint64("total_evicted", stats.TotalEvicted).
			Msg("collection round finished")
	}

	flat, err := pool.GetPool()
	if err != nil {
		return fmt.Errorf("failed to aggregate pool: %w", err)
	}
	logger.Info().
		Int("samples", len(flat.Rewards)).
		Msg("pool aggregated")

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
