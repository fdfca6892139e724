package suggest

import "math/rand"

// Next picks a suggestion index uniformly from [0, n) excluding prev. With a
// single suggestion (or none) it returns 0. A prev outside the range excludes
// nothing.
func Next(rng *rand.Rand, n, prev int) int {
	if n <= 1 {
		return 0
	}
	if prev < 0 || prev >= n {
		return rng.Intn(n)
	}
	i := rng.Intn(n - 1)
	if i >= prev {
		i++
	}
	return i
}

// Rotation is the per-session "which suggestion is on screen" state. It is owned by
// the caller and passed in explicitly; Previous is -1 before the first advance.
type Rotation struct {
	Current  int `json:"current"`
	Previous int `json:"previous"`
}

// Initial picks a random starting suggestion.
func Initial(rng *rand.Rand, n int) Rotation {
	return Rotation{Current: Next(rng, n, -1), Previous: -1}
}

// Advance moves to a different suggestion than the one currently shown.
func (r Rotation) Advance(rng *rand.Rand, n int) Rotation {
	return Rotation{Current: Next(rng, n, r.Index(n)), Previous: r.Index(n)}
}

// Index clamps Current into [0, n); suggestion lists can shrink between renders.
func (r Rotation) Index(n int) int {
	if r.Current < 0 || r.Current >= n {
		return 0
	}
	return r.Current
}

// Valid reports whether the rotation points into a list of n suggestions.
func (r Rotation) Valid(n int) bool {
	return r.Current >= 0 && r.Current < n
}
