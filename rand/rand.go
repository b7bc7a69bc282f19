// rand/rand.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rand

import (
	gomath "math"

	"github.com/MichaelTJones/pcg"
)

///////////////////////////////////////////////////////////////////////////
// Random numbers.

// Rand is a seedable PCG32 generator. Two Rands given the same seed
// produce identical streams, which is what makes gust sequences
// reproducible.
type Rand struct {
	r *pcg.PCG32

	// Marsaglia's polar method yields normals in pairs; the second one is
	// held here for the next call.
	spare    float64
	hasSpare bool
}

func New() *Rand {
	return &Rand{r: pcg.NewPCG32()}
}

// Make returns a Rand that has already been seeded with s.
func Make(s int64) *Rand {
	r := New()
	r.Seed(s)
	return r
}

func (r *Rand) Seed(s int64) {
	r.r.Seed(uint64(s), 0xda3e39cb94b95bdb)
	r.hasSpare = false
}

// Float64 returns a uniform value in [0, 1).
func (r *Rand) Float64() float64 {
	// 53 bits from two draws.
	hi := uint64(r.r.Random()) >> 5
	lo := uint64(r.r.Random()) >> 6
	return float64(hi<<26|lo) / (1 << 53)
}

// NormFloat64 returns a standard normal (mean 0, variance 1) sample.
func (r *Rand) NormFloat64() float64 {
	if r.hasSpare {
		r.hasSpare = false
		return r.spare
	}

	for {
		u := 2*r.Float64() - 1
		v := 2*r.Float64() - 1
		s := u*u + v*v
		if s == 0 || s >= 1 {
			continue
		}
		f := gomath.Sqrt(-2 * gomath.Log(s) / s)
		r.spare = v * f
		r.hasSpare = true
		return u * f
	}
}
