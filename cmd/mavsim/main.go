// cmd/mavsim/main.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// mavsim flies one or more simulated aircraft with a fixed control input,
// optionally through Dryden turbulence, and reports how each flight
// evolved.

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/tjbonner/FlightDynamics/log"
	"github.com/tjbonner/FlightDynamics/math"
	"github.com/tjbonner/FlightDynamics/mav"
	"github.com/tjbonner/FlightDynamics/sim"
	"github.com/tjbonner/FlightDynamics/util"
	"github.com/tjbonner/FlightDynamics/wx"

	"github.com/goforj/godump"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	paramsFile  = flag.String("params", "", "JSON airframe parameter file (optionally .zst); defaults to the Aerosonde")
	dumpParams  = flag.Bool("dumpparams", false, "print the resolved airframe parameters and exit")
	saveParams  = flag.String("saveparams", "", "write the resolved airframe parameters as JSON to this file and exit")
	timeStep    = flag.Float64("dt", 0.01, "integration time step, seconds")
	steps       = flag.Int("steps", 1000, "number of steps to simulate")
	seed        = flag.Int64("seed", 1, "random seed for the gust generator (first seed when -runs > 1)")
	gusts       = flag.Bool("gusts", false, "fly through Dryden turbulence")
	windSpeed   = flag.Float64("windspeed", -1, "steady wind speed, m/s (negative keeps the gust model default)")
	windDir     = flag.Float64("winddir", 0, "direction the steady wind blows from, degrees true")
	runs        = flag.Int("runs", 1, "number of runs, with consecutive seeds")
	parallel    = flag.Int("parallel", 0, "maximum concurrent runs (0 for no limit)")
	outputFile  = flag.String("output", "", "write trajectories to this file (msgpack+zstd); the seed is appended when -runs > 1")
	metricsFile = flag.String("metrics", "", "write Prometheus metrics in text format to this file")
	logLevel    = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir      = flag.String("logdir", "", "log file directory")
	cpuprofile  = flag.String("cpuprofile", "", "write CPU profile to file")
	memprofile  = flag.String("memprofile", "", "write memory profile to this file")
)

func main() {
	flag.Parse()

	lg := log.New(*logLevel, *logDir)
	defer lg.CatchAndReportCrash()

	if err := run(lg); err != nil {
		lg.Errorf("%v", err)
		fmt.Fprintf(os.Stderr, "mavsim: %v\n", err)
		os.Exit(1)
	}
}

func run(lg *log.Logger) error {
	profiler, err := util.CreateProfiler(*cpuprofile, *memprofile)
	if err != nil {
		return err
	}
	defer profiler.Cleanup()

	params := mav.Aerosonde()
	if *paramsFile != "" {
		if params, err = mav.LoadParams(*paramsFile); err != nil {
			return err
		}
	}
	if *dumpParams {
		godump.Dump(params)
		return nil
	}
	if *saveParams != "" {
		if err := mav.SaveParams(*saveParams, params); err != nil {
			return err
		}
		lg.Info("wrote airframe parameters", "path", *saveParams, "airframe", params.Name)
		return nil
	}

	opts := sim.DefaultOptions()
	opts.Params = params
	opts.TimeStep = *timeStep
	opts.Seed = *seed
	opts.Record = *outputFile != ""
	if *gusts || *windSpeed >= 0 {
		g := wx.DefaultGustParams()
		if *windSpeed >= 0 {
			g.Steady = wx.SteadyWind(*windSpeed, *windDir, 0)
		}
		if !*gusts {
			g.SigmaU, g.SigmaV, g.SigmaW = 0, 0, 0
		}
		opts.Gusts = &g
	}
	if lg.DebugEnabled() {
		lg.Debug("resolved options", "options", godump.DumpStr(opts))
	}

	var metrics *sim.Metrics
	if *metricsFile != "" {
		if metrics, err = sim.NewMetrics(prometheus.NewRegistry()); err != nil {
			return err
		}
		defer func() {
			if err := metrics.WriteFile(*metricsFile); err != nil {
				lg.Errorf("%s: %v", *metricsFile, err)
			}
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *runs < 1 {
		return fmt.Errorf("-runs %d: must be at least 1", *runs)
	}
	seeds := make([]int64, *runs)
	for i := range seeds {
		seeds[i] = *seed + int64(i)
	}

	results, runErr := sim.RunBatch(ctx, opts, seeds, *steps, *parallel, metrics, lg)

	fmt.Printf("%6s %7s %9s %9s %10s %10s %8s %9s %9s\n", "seed", "steps", "min Va", "max Va", "north", "east",
		"h", "drift", "hdg deg")
	for _, res := range results {
		if !res.Started {
			continue
		}
		s := res.Summary
		fmt.Printf("%6d %7d %9.3f %9.3f %10.2f %10.2f %8.2f %9.4f %9.3f\n", s.Seed, s.Steps, s.MinVa, s.MaxVa,
			s.Final.Pn, s.Final.Pe, s.Final.H, s.AltitudeDrift, math.Degrees(s.HeadingDrift))

		if *outputFile != "" {
			path := outputPath(*outputFile, s.Seed, len(seeds) > 1)
			if err := res.Recorder.WriteFile(path); err != nil {
				runErr = errors.Join(runErr, err)
			} else {
				lg.Info("wrote trajectory", "path", path, "records", res.Recorder.Len())
			}
		}
	}

	return runErr
}

// outputPath inserts "-<seed>" before the extensions of path when
// writing several runs, so traj.msgpack.zst becomes traj-7.msgpack.zst.
func outputPath(path string, seed int64, multi bool) string {
	if !multi {
		return path
	}
	dir, base := filepath.Split(path)
	stem, ext, _ := strings.Cut(base, ".")
	if ext != "" {
		ext = "." + ext
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, seed, ext))
}
