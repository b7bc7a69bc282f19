// sim/sim.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tjbonner/FlightDynamics/log"
	"github.com/tjbonner/FlightDynamics/math"
	"github.com/tjbonner/FlightDynamics/mav"
	"github.com/tjbonner/FlightDynamics/rand"
	"github.com/tjbonner/FlightDynamics/wx"

	"github.com/brunoga/deep"
)

// Options configures a single simulated flight.
type Options struct {
	Params   mav.Params
	TimeStep float64
	Seed     int64

	// Gusts gives the turbulence model; nil flies in calm air.
	Gusts *wx.GustParams
	// Control is held for the whole run; nil uses the airframe's trim.
	Control *mav.ControlInput
	// Record keeps every TrueState for later writing with the Recorder.
	Record bool
}

func DefaultOptions() Options {
	return Options{
		Params:   mav.Aerosonde(),
		TimeStep: 0.01,
		Seed:     1,
	}
}

// Runner drives one aircraft: it draws the wind for each step, applies
// the control input and advances the dynamics. It is single-threaded;
// use RunBatch to fly several at once.
type Runner struct {
	opts     Options
	dyn      *mav.Dynamics
	gusts    *wx.GustGenerator // nil in calm air
	control  mav.ControlInput
	recorder *Recorder
	metrics  *Metrics
	lg       *log.Logger
}

// Summary describes a completed (or failed) run.
type Summary struct {
	Seed          int64
	Steps         int
	Final         mav.TrueState
	MinVa, MaxVa  float64
	AltitudeDrift float64 // final minus initial altitude
	HeadingDrift  float64 // radians, in [-pi, pi)
}

func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("seed", s.Seed),
		slog.Int("steps", s.Steps),
		slog.Float64("min_va", s.MinVa),
		slog.Float64("max_va", s.MaxVa),
		slog.Float64("altitude_drift", s.AltitudeDrift),
		slog.Float64("heading_drift", s.HeadingDrift),
		slog.Float64("pn", s.Final.Pn),
		slog.Float64("pe", s.Final.Pe),
		slog.Float64("h", s.Final.H))
}

// NewRunner returns a Runner for opts. metrics may be nil.
func NewRunner(opts Options, metrics *Metrics, lg *log.Logger) (*Runner, error) {
	dyn, err := mav.NewDynamics(opts.Params, opts.TimeStep, lg)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		opts:    opts,
		dyn:     dyn,
		control: opts.Params.Trim,
		metrics: metrics,
		lg:      lg.With(slog.Int64("seed", opts.Seed)),
	}
	if opts.Control != nil {
		r.control = *opts.Control
	}
	if opts.Gusts != nil {
		if r.gusts, err = wx.NewGustGenerator(*opts.Gusts, opts.TimeStep, rand.Make(opts.Seed)); err != nil {
			return nil, err
		}
	}
	if opts.Record {
		r.recorder = NewRecorder(opts.Params.Name, opts.TimeStep, opts.Seed)
		r.recorder.Add(0, dyn.TrueState(), r.control)
	}

	return r, nil
}

func (r *Runner) Dynamics() *mav.Dynamics {
	return r.dyn
}

// Recorder returns the run's recorder, or nil if recording is off.
func (r *Runner) Recorder() *Recorder {
	return r.recorder
}

// RunnerSnapshot captures a Runner mid-flight so that it can later be
// rewound: the dynamics, the gust filters together with their noise
// source, and the number of records kept so far.
type RunnerSnapshot struct {
	Dynamics mav.DynamicsSnapshot

	gusts   *wx.GustGenerator
	records int
}

func (r *Runner) TakeSnapshot() RunnerSnapshot {
	snap := RunnerSnapshot{
		Dynamics: r.dyn.TakeSnapshot(),
		gusts:    deep.MustCopy(r.gusts),
	}
	if r.recorder != nil {
		snap.records = r.recorder.Len()
	}
	return snap
}

// RestoreSnapshot rewinds the Runner to snap. A snapshot may be restored
// any number of times; subsequent steps draw the same winds each time.
func (r *Runner) RestoreSnapshot(snap RunnerSnapshot) {
	r.dyn.RestoreSnapshot(snap.Dynamics)
	r.gusts = deep.MustCopy(snap.gusts)
	if r.recorder != nil {
		r.recorder.truncate(snap.records)
	}
	r.lg.Debug("restored snapshot", "steps", snap.Dynamics.Steps)
}

// Step advances the simulation by one time step.
func (r *Runner) Step() error {
	var wind mav.WindVector
	if r.gusts != nil {
		wind = r.gusts.Update()
	}

	if err := r.dyn.UpdateState(r.control, wind); err != nil {
		if errors.Is(err, mav.ErrDegenerateFlightCondition) {
			r.metrics.ObserveDegenerate()
		}
		return err
	}

	ts := r.dyn.TrueState()
	r.metrics.ObserveStep(ts.Va)
	if r.recorder != nil {
		r.recorder.Add(r.dyn.Time(), ts, r.control)
	}
	return nil
}

// Run takes n steps, stopping early if ctx is canceled or a step fails.
// The returned Summary covers the steps that completed.
func (r *Runner) Run(ctx context.Context, n int) (Summary, error) {
	if n < 0 {
		return Summary{}, fmt.Errorf("%d: %w", n, ErrInvalidStepCount)
	}

	start := r.dyn.TrueState()
	sum := Summary{
		Seed:  r.opts.Seed,
		Final: start,
		MinVa: start.Va,
		MaxVa: start.Va,
	}
	r.lg.Info("starting run", "steps", n, "airframe", r.opts.Params.Name, "gusts", r.gusts != nil)

	finish := func(err error) (Summary, error) {
		sum.Final = r.dyn.TrueState()
		sum.AltitudeDrift = sum.Final.H - start.H
		sum.HeadingDrift = math.WrapAngle(sum.Final.Psi - start.Psi)

		result := "ok"
		switch {
		case err == nil:
			r.lg.Info("run complete", "summary", sum)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			result = "canceled"
			r.lg.Warn("run canceled", "summary", sum, "error", err)
		default:
			result = "failed"
			r.lg.Error("run failed", "summary", sum, "error", err)
		}
		r.metrics.ObserveRun(result)
		return sum, err
	}

	for i := range n {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
		if err := r.Step(); err != nil {
			return finish(fmt.Errorf("step %d: %w", i, err))
		}

		sum.Steps++
		va := r.dyn.AirData().Va
		sum.MinVa = math.Min(sum.MinVa, va)
		sum.MaxVa = math.Max(sum.MaxVa, va)
	}

	return finish(nil)
}
