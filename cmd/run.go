package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/extsort-sim/extsort-sim/sim"
	"github.com/extsort-sim/extsort-sim/sim/datafile"
	"github.com/extsort-sim/extsort-sim/sim/store"
	"github.com/extsort-sim/extsort-sim/sim/trace"
)

var (
	inputPath      string // Binary float64 input file
	randomCount    int    // Number of random values when no input file is given
	seed           int64  // Seed for random data
	memoryLimit    int    // Elements that fit in memory (M)
	fanIn          int    // Runs merged per batch (K)
	outputPath     string // Sorted binary output
	textOutputPath string // Sorted text output, one value per line
	tracePath      string // JSONL step trace
	traceLevel     string // Which steps the trace keeps
	saveResultPath string // YAML result record
	checksumAlgo   string // Digest used for the result checksum
)

// runOptions is everything one sort needs, resolved from flags and config.
type runOptions struct {
	InputPath      string
	RandomCount    int
	Seed           int64
	Config         sim.Config
	OutputPath     string
	TextOutputPath string
	TracePath      string
	TraceLevel     string
	SaveResultPath string
	Checksum       string
}

// runReport is what a finished sort prints.
type runReport struct {
	Summary  sim.Summary // counters plus M, K and N
	Result   sim.Result
	Checksum string
	Algo     string
	Trace    *trace.TraceSummary // nil when no trace was written
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sort a binary float64 file or random data step by step",
	Run: func(cmd *cobra.Command, args []string) {
		fc := loadConfigOrExit()
		setupLogging(cmd, fc)
		opts := resolveRunOptions(cmd, fc)
		report, err := runSort(opts)
		if err != nil {
			logrus.Fatalf("Sort failed: %v", err)
		}
		report.Print(os.Stdout)
	},
}

// resolveRunOptions layers flag values over config values. A flag the user
// set explicitly always wins.
func resolveRunOptions(cmd *cobra.Command, fc *FileConfig) runOptions {
	flags := cmd.Flags()
	opts := runOptions{
		InputPath:      inputPath,
		RandomCount:    randomCount,
		Seed:           seed,
		Config:         fc.engineConfig(memoryLimit, fanIn, flags.Changed("memory-limit"), flags.Changed("fan-in")),
		OutputPath:     outputPath,
		TextOutputPath: textOutputPath,
		TracePath:      tracePath,
		TraceLevel:     traceLevel,
		SaveResultPath: saveResultPath,
		Checksum:       checksumAlgo,
	}
	if fc == nil {
		return opts
	}
	if fc.RandomCount != nil && !flags.Changed("random") {
		opts.RandomCount = *fc.RandomCount
	}
	if fc.Seed != nil && !flags.Changed("seed") {
		opts.Seed = *fc.Seed
	}
	if fc.Checksum != "" && !flags.Changed("checksum") {
		opts.Checksum = fc.Checksum
	}
	if fc.TraceLevel != "" && !flags.Changed("trace-level") {
		opts.TraceLevel = fc.TraceLevel
	}
	return opts
}

// loadInput reads the input file, or generates RandomCount values when no
// file is given.
func loadInput(opts runOptions) ([]float64, error) {
	if opts.InputPath != "" {
		data, err := datafile.ReadFloat64File(opts.InputPath)
		if err != nil {
			return nil, err
		}
		logrus.Infof("Loaded %d elements (%s) from %s",
			len(data), datafile.FormatSize(int64(len(data))*datafile.ElementSize), opts.InputPath)
		return data, nil
	}
	if opts.RandomCount < 0 {
		return nil, fmt.Errorf("random count must be non-negative, got %d", opts.RandomCount)
	}
	rng := datafile.NewSources(opts.Seed).For(datafile.PrimaryStream)
	logrus.Infof("Generated %d random elements with seed %d", opts.RandomCount, opts.Seed)
	return datafile.Generate(rng, opts.RandomCount), nil
}

// runSort drives one engine to completion and writes the requested outputs.
// The trace is streamed to disk as the engine runs; only its summary is kept.
func runSort(opts runOptions) (report *runReport, err error) {
	if !datafile.ValidDigestAlgorithms[opts.Checksum] {
		return nil, fmt.Errorf("unknown checksum algorithm %q (valid: %v)", opts.Checksum, datafile.DigestNames())
	}
	if !trace.IsValidTraceLevel(opts.TraceLevel) {
		return nil, fmt.Errorf("unknown trace level %q", opts.TraceLevel)
	}
	data, err := loadInput(opts)
	if err != nil {
		return nil, err
	}
	if err := datafile.Validate(data); err != nil {
		return nil, err
	}
	engine, err := sim.NewEngine(data, opts.Config)
	if err != nil {
		return nil, err
	}

	var sink *traceSink
	if opts.TracePath != "" {
		sink, err = openTraceSink(opts.TracePath, opts.TraceLevel)
		if err != nil {
			return nil, err
		}
		defer func() {
			if cerr := sink.close(); cerr != nil && err == nil {
				report, err = nil, cerr
			}
		}()
	}

	res, err := drainEngine(engine, func(st sim.Step) error {
		logStep(st)
		if sink != nil {
			return sink.record(st)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	algo := opts.Checksum
	if algo == "" {
		algo = datafile.DefaultDigest
	}
	sum, err := datafile.Digest(algo, res.Sorted)
	if err != nil {
		return nil, err
	}
	report = &runReport{
		Summary:  engine.Summary(),
		Result:   res,
		Checksum: store.FormatChecksum(sum),
		Algo:     algo,
	}
	if sink != nil {
		report.Trace = sink.summary
	}

	if err := writeOutputs(opts, res); err != nil {
		return nil, err
	}
	if opts.SaveResultPath != "" {
		rec, err := store.NewRecord(res, opts.Config, algo, time.Now())
		if err != nil {
			return nil, err
		}
		if err := store.Save(opts.SaveResultPath, rec); err != nil {
			return nil, err
		}
		logrus.Infof("Saved result record to %s", opts.SaveResultPath)
	}
	return report, nil
}

// drainEngine runs engine to completion, handing every Step to observe.
// An observe error stops the sort.
func drainEngine(engine *sim.Engine, observe func(sim.Step) error) (sim.Result, error) {
	steps := 0
	for st := range engine.Steps() {
		steps++
		if err := observe(st); err != nil {
			return sim.Result{}, err
		}
	}
	return sim.Result{
		Sorted: engine.SortedData(),
		Stats:  engine.Statistics(),
		Runs:   engine.RunCount(),
		Passes: engine.Passes(),
		Steps:  steps,
	}, nil
}

// traceSink streams kept Steps to a JSONL file and summarizes them on the way.
type traceSink struct {
	cfg     trace.TraceConfig
	path    string
	f       *os.File
	w       *trace.JSONLWriter
	summary *trace.TraceSummary
}

// openTraceSink creates path. An empty level keeps every Step.
func openTraceSink(path, level string) (*traceSink, error) {
	lvl := trace.TraceLevel(level)
	if lvl == "" {
		lvl = trace.TraceLevelSteps
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create trace file: %w", err)
	}
	return &traceSink{
		cfg:     trace.TraceConfig{Level: lvl},
		path:    path,
		f:       f,
		w:       trace.NewJSONLWriter(f),
		summary: trace.NewTraceSummary(),
	}, nil
}

func (s *traceSink) record(st sim.Step) error {
	if !s.cfg.Keeps(st) {
		return nil
	}
	if err := s.w.Write(st); err != nil {
		return err
	}
	s.summary.Add(st)
	return nil
}

// close flushes buffered lines and closes the file.
func (s *traceSink) close() error {
	flushErr := s.w.Flush()
	closeErr := s.f.Close()
	if flushErr != nil {
		return fmt.Errorf("flush trace file: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close trace file: %w", closeErr)
	}
	logrus.Infof("Wrote %d trace steps to %s", s.w.Count(), s.path)
	return nil
}

// logStep narrates a Step. Fine-grained steps only show at trace level.
func logStep(st sim.Step) {
	switch st.Kind {
	case sim.KindSortStart, sim.KindSortKey, sim.KindSortCompare, sim.KindSortInsert, sim.KindSortComplete,
		sim.KindMergeCompare, sim.KindMergeSelect:
		logrus.Tracef("[%d] %s", st.Seq, st.Message)
	case sim.KindReadChunk, sim.KindWriteRun, sim.KindMergeStart, sim.KindMergeComplete, sim.KindSingleRun:
		logrus.Debugf("[%d] %s", st.Seq, st.Message)
	default:
		logrus.Infof("[%d] %s", st.Seq, st.Message)
	}
}

func writeOutputs(opts runOptions, res sim.Result) error {
	if opts.OutputPath != "" {
		if err := datafile.WriteFloat64File(opts.OutputPath, res.Sorted); err != nil {
			return err
		}
		logrus.Infof("Wrote sorted output to %s", opts.OutputPath)
	}
	if opts.TextOutputPath != "" {
		if err := datafile.WriteTextFile(opts.TextOutputPath, res.Sorted); err != nil {
			return err
		}
		logrus.Infof("Wrote text output to %s", opts.TextOutputPath)
	}
	return nil
}

// Print displays the outcome of the sort.
func (r *runReport) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Sort Summary ===")
	fmt.Fprintf(w, "Elements (N)         : %d\n", r.Summary.OriginalSize)
	fmt.Fprintf(w, "Memory Limit (M)     : %d\n", r.Summary.MemoryLimit)
	fmt.Fprintf(w, "Fan-in (K)           : %d\n", r.Summary.FanIn)
	fmt.Fprintf(w, "Runs                 : %d\n", r.Result.Runs)
	fmt.Fprintf(w, "Merge Passes         : %d\n", r.Result.Passes)
	fmt.Fprintf(w, "Steps                : %d\n", r.Result.Steps)
	fmt.Fprintf(w, "Comparisons          : %d\n", r.Summary.Comparisons)
	fmt.Fprintf(w, "Reads                : %d\n", r.Summary.Reads)
	fmt.Fprintf(w, "Writes               : %d\n", r.Summary.Writes)
	fmt.Fprintf(w, "I/O Operations       : %d\n", r.Summary.IOCount())
	fmt.Fprintf(w, "Checksum (%s) : %s\n", r.Algo, r.Checksum)
	if r.Trace != nil {
		fmt.Fprintf(w, "Trace Steps Kept     : %d\n", r.Trace.TotalSteps)
	}
}

func init() {
	runCmd.Flags().StringVar(&inputPath, "input", "", "Binary little-endian float64 input file")
	runCmd.Flags().IntVar(&randomCount, "random", 20, "Number of random values to sort when --input is not given")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random data")
	runCmd.Flags().IntVarP(&memoryLimit, "memory-limit", "m", sim.DefaultMemoryLimit, "Elements that fit in memory at once (M)")
	runCmd.Flags().IntVarP(&fanIn, "fan-in", "k", sim.DefaultFanIn, "Runs merged per batch (K)")
	runCmd.Flags().StringVar(&outputPath, "output", "", "Write sorted data as binary float64")
	runCmd.Flags().StringVar(&textOutputPath, "text-output", "", "Write sorted data as text, one value per line")
	runCmd.Flags().StringVar(&tracePath, "trace", "", "Write the step trace as JSON lines")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "", "Trace detail: steps (default when --trace is set), phases, none")
	runCmd.Flags().StringVar(&saveResultPath, "save-result", "", "Save the result record as YAML")
	runCmd.Flags().StringVar(&checksumAlgo, "checksum", datafile.DefaultDigest, "Checksum algorithm: xxhash64, xxh3, murmur3")

	rootCmd.AddCommand(runCmd)
}
