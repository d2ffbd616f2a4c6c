package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/extsort-sim/extsort-sim/sim"
	"github.com/extsort-sim/extsort-sim/sim/datafile"
)

var (
	planCount  int // Elements to plan for
	planMemory int
	planFanIn  int
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Predict runs and merge passes without sorting",
	Run: func(cmd *cobra.Command, args []string) {
		fc := loadConfigOrExit()
		setupLogging(cmd, fc)
		cfg := fc.engineConfig(planMemory, planFanIn, cmd.Flags().Changed("memory-limit"), cmd.Flags().Changed("fan-in"))
		plan, err := sim.Estimate(planCount, cfg.MemoryLimit, cfg.FanIn)
		if err != nil {
			logrus.Fatalf("Plan failed: %v", err)
		}
		printPlan(os.Stdout, plan, cfg)
	},
}

func printPlan(w io.Writer, plan sim.Plan, cfg sim.Config) {
	fmt.Fprintln(w, "=== Sort Plan ===")
	fmt.Fprintf(w, "Elements (N)         : %d (%s)\n", plan.Elements,
		datafile.FormatSize(int64(plan.Elements)*datafile.ElementSize))
	fmt.Fprintf(w, "Memory Limit (M)     : %d\n", cfg.MemoryLimit)
	fmt.Fprintf(w, "Fan-in (K)           : %d\n", cfg.FanIn)
	fmt.Fprintf(w, "Expected Runs        : %d\n", plan.Runs)
	fmt.Fprintf(w, "Expected Passes      : %d\n", plan.Passes)
}

func init() {
	planCmd.Flags().IntVar(&planCount, "count", 0, "Number of elements to plan for")
	planCmd.Flags().IntVarP(&planMemory, "memory-limit", "m", sim.DefaultMemoryLimit, "Elements that fit in memory at once (M)")
	planCmd.Flags().IntVarP(&planFanIn, "fan-in", "k", sim.DefaultFanIn, "Runs merged per batch (K)")

	rootCmd.AddCommand(planCmd)
}
