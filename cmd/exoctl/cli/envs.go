package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var envsCmd = &cobra.Command{
	Use:   "envs",
	Short: "run the fork demo and print the resulting environment table",
	RunE: func(cmd *cobra.Command, args []string) error {
		k := newDemoKernel()
		if err := runFork(k); err != nil {
			return err
		}
		names := make(map[uint32]string)
		for _, p := range k.Names.Elems() {
			names[uint32(p.Id)] = p.Name
		}
		for _, env := range k.Table.Live() {
			userns, sysns := env.Accnt.Snapshot()
			name := names[uint32(env.Id)]
			if name == "" {
				name = "-"
			}
			fmt.Printf("env %#x (%s): parent=%#x status=%s userns=%d sysns=%d\n",
				env.Id, name, env.ParentId, env.Status, userns, sysns)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(envsCmd)
}
