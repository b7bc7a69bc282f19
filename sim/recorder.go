// sim/recorder.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"

	"github.com/tjbonner/FlightDynamics/mav"
	"github.com/tjbonner/FlightDynamics/util"
)

type Record struct {
	Time    float64          `msgpack:"t"`
	State   mav.TrueState    `msgpack:"s"`
	Control mav.ControlInput `msgpack:"c"`
}

// Trajectory is what a Recorder writes: the run's identifying settings
// followed by one Record per step, starting with the initial state.
type Trajectory struct {
	Airframe string   `msgpack:"airframe"`
	TimeStep float64  `msgpack:"dt"`
	Seed     int64    `msgpack:"seed"`
	Records  []Record `msgpack:"records"`
}

type Recorder struct {
	traj Trajectory
}

func NewRecorder(airframe string, dt float64, seed int64) *Recorder {
	return &Recorder{traj: Trajectory{Airframe: airframe, TimeStep: dt, Seed: seed}}
}

func (r *Recorder) Add(t float64, ts mav.TrueState, ctrl mav.ControlInput) {
	r.traj.Records = append(r.traj.Records, Record{Time: t, State: ts, Control: ctrl})
}

func (r *Recorder) Len() int {
	return len(r.traj.Records)
}

func (r *Recorder) truncate(n int) {
	r.traj.Records = r.traj.Records[:n]
}

func (r *Recorder) Trajectory() Trajectory {
	return r.traj
}

// WriteFile writes the trajectory to path as zstd-compressed msgpack. It
// returns ErrNoRecorder when called on the nil Recorder of a run that was
// not recording.
func (r *Recorder) WriteFile(path string) error {
	if r == nil {
		return fmt.Errorf("%s: %w", path, ErrNoRecorder)
	}
	return util.StoreObject(path, r.traj)
}

// ReadTrajectory reads a trajectory written by Recorder.WriteFile.
func ReadTrajectory(path string) (Trajectory, error) {
	var traj Trajectory
	err := util.RetrieveObject(path, &traj)
	return traj, err
}
