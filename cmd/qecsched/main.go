// Command qecsched runs one plan-creation request end to end: it loads a
// request document, a config layer, and runs the scheduling service,
// printing the resulting plan (or its error) as JSON.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "qecsched",
		Short: "QEC overhaul scheduling core",
		Long: `qecsched builds and solves a constraint-programming schedule for an
aero-engine QEC (Quick Engine Change) overhaul maintenance plan: jobs,
preparation tasks, resources, and gates in, a feasible or optimal
schedule out.`,
	}
	root.AddCommand(planCmd(), validateCmd())
	return root
}
