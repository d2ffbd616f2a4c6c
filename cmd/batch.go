package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/extsort-sim/extsort-sim/sim"
	"github.com/extsort-sim/extsort-sim/sim/datafile"
	"github.com/extsort-sim/extsort-sim/sim/trace"
)

var (
	batchParallelism int
	batchMemory      int
	batchFanIn       int
	batchRequireData bool
	batchTraces      bool
)

// batchOptions controls one batch invocation.
type batchOptions struct {
	Config      sim.Config
	Parallelism int
	RequireData bool // reject empty input files
	WriteTraces bool // write <name>.trace.jsonl beside each input
}

// batchResult is the outcome for one input file.
type batchResult struct {
	Input     string
	Output    string
	TracePath string // empty unless traces were written
	Result    sim.Result
	Trace     *trace.TraceSummary // phase-level summary of the sort
}

var batchCmd = &cobra.Command{
	Use:   "batch FILE...",
	Short: "Sort several binary files concurrently, one engine per file",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fc := loadConfigOrExit()
		setupLogging(cmd, fc)
		opts := batchOptions{
			Config:      fc.engineConfig(batchMemory, batchFanIn, cmd.Flags().Changed("memory-limit"), cmd.Flags().Changed("fan-in")),
			Parallelism: batchParallelism,
			RequireData: batchRequireData,
			WriteTraces: batchTraces,
		}
		results, err := sortFiles(cmd.Context(), args, opts)
		if err != nil {
			logrus.Fatalf("Batch failed: %v", err)
		}
		printBatch(os.Stdout, results)
	},
}

// sortedOutputPath places the result beside its input as <name>.sorted.bin.
func sortedOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".sorted.bin"
}

// tracePathFor places the phase trace beside its input as <name>.trace.jsonl.
func tracePathFor(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".trace.jsonl"
}

// sortFiles sorts each path with its own Engine. At most opts.Parallelism
// sorts run at once; the first failure cancels the files not yet started.
// Results are returned in input order.
func sortFiles(ctx context.Context, paths []string, opts batchOptions) ([]batchResult, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Parallelism < 1 {
		return nil, fmt.Errorf("parallelism must be at least 1, got %d", opts.Parallelism)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]batchResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := sortFile(path, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// sortFile sorts one file, keeping a phase-level trace. Phase-level traces
// hold no per-element steps, so they stay small enough to keep in memory.
func sortFile(path string, opts batchOptions) (batchResult, error) {
	data, err := datafile.ReadFloat64File(path)
	if err != nil {
		return batchResult{}, err
	}
	validate := datafile.Validate
	if opts.RequireData {
		validate = datafile.ValidateNonEmpty
	}
	if err := validate(data); err != nil {
		return batchResult{}, err
	}
	engine, err := sim.NewEngine(data, opts.Config)
	if err != nil {
		return batchResult{}, err
	}
	recorder := trace.NewSortTrace(trace.TraceConfig{Level: trace.TraceLevelPhases})
	res, err := drainEngine(engine, func(st sim.Step) error {
		recorder.Record(st)
		return nil
	})
	if err != nil {
		return batchResult{}, err
	}

	out := sortedOutputPath(path)
	if err := datafile.WriteFloat64File(out, res.Sorted); err != nil {
		return batchResult{}, err
	}
	br := batchResult{Input: path, Output: out, Result: res, Trace: trace.Summarize(recorder)}
	if opts.WriteTraces {
		br.TracePath = tracePathFor(path)
		if err := writeTraceFile(br.TracePath, recorder); err != nil {
			return batchResult{}, err
		}
	}
	logrus.Infof("Sorted %s -> %s (%d elements, %d steps)", path, out, len(res.Sorted), res.Steps)
	return br, nil
}

func writeTraceFile(path string, recorder *trace.SortTrace) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trace file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close trace file: %w", cerr)
		}
	}()
	return trace.WriteJSONL(f, recorder)
}

func printBatch(w io.Writer, results []batchResult) {
	fmt.Fprintln(w, "=== Batch Summary ===")
	for _, r := range results {
		merges, carries := 0, 0
		if r.Trace != nil {
			merges, carries = r.Trace.Merges, r.Trace.SingleRunCarries
		}
		fmt.Fprintf(w, "%s -> %s: N=%d runs=%d passes=%d merges=%d carries=%d comparisons=%d io=%d\n",
			r.Input, r.Output, len(r.Result.Sorted), r.Result.Runs, r.Result.Passes,
			merges, carries, r.Result.Stats.Comparisons, r.Result.Stats.IOCount())
	}
}

func init() {
	batchCmd.Flags().IntVar(&batchParallelism, "parallelism", 4, "Maximum number of files sorted at once")
	batchCmd.Flags().IntVarP(&batchMemory, "memory-limit", "m", sim.DefaultMemoryLimit, "Elements that fit in memory at once (M)")
	batchCmd.Flags().IntVarP(&batchFanIn, "fan-in", "k", sim.DefaultFanIn, "Runs merged per batch (K)")
	batchCmd.Flags().BoolVar(&batchRequireData, "require-data", false, "Fail the batch if any input file is empty")
	batchCmd.Flags().BoolVar(&batchTraces, "trace", false, "Write a phase-level <name>.trace.jsonl beside each input")

	rootCmd.AddCommand(batchCmd)
}
