// cmd/mavsim/main_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"path/filepath"
	"testing"
)

func TestOutputPath(t *testing.T) {
	for _, test := range []struct {
		path     string
		seed     int64
		multi    bool
		expected string
	}{
		{"traj.msgpack.zst", 7, false, "traj.msgpack.zst"},
		{"traj.msgpack.zst", 7, true, "traj-7.msgpack.zst"},
		{filepath.Join("out", "run"), 12, true, filepath.Join("out", "run-12")},
	} {
		if got := outputPath(test.path, test.seed, test.multi); got != test.expected {
			t.Errorf("outputPath(%q, %d, %v): got %q, expected %q", test.path, test.seed, test.multi, got, test.expected)
		}
	}
}
