// Package main provides the command line driver for acc8sim, an
// emulator for a tiny 8-bit accumulator machine with step execution
// and named breakpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"

	"github.com/microarch-lab/acc8sim/emu"
	"github.com/microarch-lab/acc8sim/loader"
	"github.com/microarch-lab/acc8sim/timing/cache"
	"github.com/microarch-lab/acc8sim/timing/core"
	"github.com/microarch-lab/acc8sim/timing/latency"
)

// runChunk bounds how many steps execute between cancellation checks.
const runChunk = 256

// breakpointFlags collects repeated -break address:name arguments.
type breakpointFlags []string

func (b *breakpointFlags) String() string {
	return strings.Join(*b, ",")
}

func (b *breakpointFlags) Set(value string) error {
	*b = append(*b, value)
	return nil
}

var (
	statePath  = flag.String("state", "", "state file to load before running")
	savePath   = flag.String("save", "", "state file to write after running")
	steps      = flag.Int("steps", 0, "maximum number of instructions to execute")
	printProg  = flag.Bool("print", false, "print the program listing")
	timingMode = flag.Bool("timing", false, "estimate cycle timing while running")
	configPath = flag.String("config", "", "path to timing configuration JSON file")
	debug      = flag.Bool("v", false, "verbose (debug) logging")
	quiet      = flag.Bool("q", false, "log errors only")
)

func main() {
	var breaks breakpointFlags
	flag.Var(&breaks, "break", "breakpoint as address:name (repeatable)")
	flag.Parse()

	logger := createLogger(*debug, *quiet)
	ctx := app.Context()

	emulator := emu.NewEmulator()

	if *statePath != "" {
		snap, err := loader.Load(*statePath)
		if err != nil {
			logger.Fatal("Loading state failed", log.Err(err))
		}
		if err := emulator.Restore(snap); err != nil {
			logger.Fatal("Restoring state failed", log.Err(err))
		}
		logger.Debug("State loaded", log.String("file", *statePath),
			log.Int("cycles", emulator.Cycles()))
	}

	for _, spec := range breaks {
		address, name, err := parseBreakpoint(spec)
		if err != nil {
			logger.Fatal(err.Error())
		}
		if !emulator.Breakpoints().Insert(address, name) {
			logger.Fatal("Breakpoint rejected", log.String("spec", spec))
		}
	}

	if *steps > 0 {
		if err := run(ctx, logger, emulator); err != nil {
			logger.Error("Run stopped abnormally", log.Err(err))
		}
	}

	if *printProg {
		if err := emulator.PrintProgram(); err != nil {
			logger.Fatal("Printing program failed", log.Err(err))
		}
	}

	if *savePath != "" {
		if err := loader.Save(*savePath, emulator.Snapshot()); err != nil {
			logger.Fatal("Saving state failed", log.Err(err))
		}
		logger.Debug("State saved", log.String("file", *savePath))
	}
}

// createLogger creates a logger with a level matching the flags.
func createLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// parseBreakpoint splits an address:name flag value.
func parseBreakpoint(spec string) (int, string, error) {
	addrStr, name, ok := strings.Cut(spec, ":")
	if !ok || name == "" {
		return 0, "", fmt.Errorf("breakpoint %q is not address:name", spec)
	}

	address, err := strconv.Atoi(addrStr)
	if err != nil {
		return 0, "", fmt.Errorf("breakpoint address %q is not an integer", addrStr)
	}

	return address, name, nil
}

// run executes the requested number of steps, in chunks so Ctrl+C can
// interrupt a long run, and logs a report.
func run(ctx context.Context, logger *log.Logger, emulator *emu.Emulator) error {
	var timingCore *core.Core
	if *timingMode {
		opts, err := timingOptions()
		if err != nil {
			return err
		}
		timingCore = core.NewCore(emulator, opts...)
	}

	result := emu.RunResult{Reason: emu.StopStepLimit}
	remaining := *steps

	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			logger.Info("Run interrupted")
			break
		}

		chunk := remaining
		if chunk > runChunk {
			chunk = runChunk
		}

		var r emu.RunResult
		if timingCore != nil {
			r = timingCore.Run(chunk)
		} else {
			r = emulator.Run(chunk)
		}

		result.Steps += r.Steps
		result.Reason = r.Reason
		remaining -= chunk

		if r.Reason != emu.StopStepLimit {
			break
		}
	}

	logger.Info("Run finished",
		log.String("reason", result.Reason.String()),
		log.Int("executed", result.Steps),
		log.Int("cycles", emulator.Cycles()),
		log.Int("acc", emulator.ReadAcc()),
		log.Int("pc", emulator.ReadPC()))

	if timingCore != nil {
		reportTiming(timingCore.Stats())
	}

	if !result.Reason.Normal() {
		return fmt.Errorf("execution stopped: %s", result.Reason)
	}
	return nil
}

// timingOptions builds the timing core options from the -config file,
// or the defaults when no file is given.
func timingOptions() ([]core.Option, error) {
	if *configPath == "" {
		return nil, nil
	}

	config, err := latency.LoadConfig(*configPath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return []core.Option{
		core.WithLatencyTable(latency.NewTableWithConfig(config)),
		core.WithCacheConfig(cacheConfigFrom(config)),
	}, nil
}

// cacheConfigFrom applies the configured hit and miss latencies to the
// default cache geometry.
func cacheConfigFrom(config *latency.TimingConfig) cache.Config {
	cacheConfig := cache.DefaultConfig()
	cacheConfig.HitLatency = config.CacheHitLatency
	cacheConfig.MissLatency = config.CacheMissLatency
	return cacheConfig
}

// reportTiming prints the cycle estimate in the same spirit as the
// functional run report.
func reportTiming(stats core.Stats) {
	fmt.Fprintf(os.Stdout, "\n")
	fmt.Fprintf(os.Stdout, "Instructions: %d\n", stats.Instructions)
	fmt.Fprintf(os.Stdout, "Estimated cycles: %d\n", stats.Cycles)
	fmt.Fprintf(os.Stdout, "CPI: %.2f\n", stats.CPI())
	fmt.Fprintf(os.Stdout, "Fetches: %d\n", stats.Fetches)
	fmt.Fprintf(os.Stdout, "Memory reads: %d, writes: %d\n",
		stats.MemReads, stats.MemWrites)
	fmt.Fprintf(os.Stdout, "Cache hits: %d, misses: %d\n",
		stats.CacheHits, stats.CacheMisses)
	fmt.Fprintf(os.Stdout, "Taken jumps: %d\n", stats.Redirects)
}
