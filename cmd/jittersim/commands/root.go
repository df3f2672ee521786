package commands

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "jittersim",
	Short: "Jitter buffer simulator",
	Long: `jittersim drives a sequence jitter buffer with a simulated stream.

Packets are produced at a fixed cadence, delayed by a random amount up to
--jitter and dropped with probability --loss. One consumer drains the buffer
and the run ends with a summary of released, lost and rejected packets.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "buffer config file (YAML: depth, interval, capacity)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every rejected offer and lost slot")

	rootCmd.AddCommand(runCmd)
}
