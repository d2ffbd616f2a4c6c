package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/extsort-sim/extsort-sim/sim/datafile"
)

var (
	genCount int
	genSeed  int64
)

var genCmd = &cobra.Command{
	Use:   "gen FILE...",
	Short: "Write random float64 values to one or more binary files",
	Long: "Writes --count values in [0, 1000) to each FILE. The first file uses --seed\n" +
		"directly, so it holds the same data as `run --random` with that seed; later\n" +
		"files draw from independent streams derived from the seed.",
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd, nil)
		if err := generateFiles(args, genCount, genSeed); err != nil {
			logrus.Fatalf("Generate failed: %v", err)
		}
	},
}

// generateFiles writes count values to each path.
func generateFiles(paths []string, count int, seed int64) error {
	if count < 0 {
		return fmt.Errorf("count must be non-negative, got %d", count)
	}
	sources := datafile.NewSources(seed)
	for i, path := range paths {
		data := datafile.Generate(sources.For(datafile.StreamForFile(i)), count)
		if err := datafile.WriteFloat64File(path, data); err != nil {
			return err
		}
		logrus.Infof("Wrote %d values (%s) to %s", count,
			datafile.FormatSize(int64(count)*datafile.ElementSize), path)
	}
	return nil
}

func init() {
	genCmd.Flags().IntVar(&genCount, "count", 20, "Number of values per file")
	genCmd.Flags().Int64Var(&genSeed, "seed", 42, "Seed for the generator")

	rootCmd.AddCommand(genCmd)
}
