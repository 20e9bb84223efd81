package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "run the fork demo and print per-syscall invocation counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		k := newDemoKernel()
		if err := runFork(k); err != nil {
			return err
		}
		fmt.Print(k.Stats.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
