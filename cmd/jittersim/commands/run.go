package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/channel-io/go-seqjitter/internal/sim"
	"github.com/channel-io/go-seqjitter/pkg/jitter"
)

var (
	flagCount  int
	flagJitter time.Duration
	flagLoss   float64
	flagDup    float64
	flagSeed   int64
	flagSeq    uint16
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulated stream through the buffer",
	RunE:  runSimulation,
}

func init() {
	runCmd.Flags().IntVar(&flagCount, "count", 250, "number of packets to send")
	runCmd.Flags().DurationVar(&flagJitter, "jitter", 60*time.Millisecond, "maximum extra network delay per packet")
	runCmd.Flags().Float64Var(&flagLoss, "loss", 0.02, "probability a packet is never delivered")
	runCmd.Flags().Float64Var(&flagDup, "dup", 0.01, "probability a packet is delivered twice")
	runCmd.Flags().Int64Var(&flagSeed, "seed", 0, "random seed (0 = time based)")
	runCmd.Flags().Uint16Var(&flagSeq, "first-seq", 65000, "first RTP sequence number")
}

func loadConfig() (jitter.Config, error) {
	if cfgFile == "" {
		return jitter.DefaultConfig(), nil
	}
	data, err := os.ReadFile(cfgFile)
	if err != nil {
		return jitter.Config{}, fmt.Errorf("read config: %w", err)
	}
	return jitter.ParseConfig(data)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting simulation",
		"depth", cfg.Depth,
		"interval", cfg.Interval,
		"latency", cfg.Latency(),
		"count", flagCount,
		"jitter", flagJitter,
		"seed", seed,
	)

	report, err := sim.Run(ctx, sim.Options{
		Buffer:   cfg,
		Count:    flagCount,
		MaxDelay: flagJitter,
		Loss:     flagLoss,
		Dup:      flagDup,
		FirstSeq: flagSeq,
		Seed:     seed,
		Logger:   logger,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), report)
	return nil
}
