package engine

import "math/rand/v2"

// NewSeededRandom returns a mulberry32 generator for seed.
// Each call yields the next float in [0, 1). Two generators built from the
// same seed produce identical streams; the generator shares no state with
// anything outside its own closure.
//
// The arithmetic is plain uint32 wraparound, so the stream matches the
// browser client bit for bit.
func NewSeededRandom(seed uint32) func() float64 {
	state := seed
	return func() float64 {
		state += 0x6d2b79f5
		t := state
		t = (t ^ (t >> 15)) * (t | 1)
		t ^= t + (t^(t>>7))*(t|61)
		return float64(t^(t>>14)) / 4294967296
	}
}

// GenerateSeed draws a fresh board seed from the process-wide random source.
// It is the only non-deterministic entry point of the engine.
func GenerateSeed() uint32 {
	return rand.Uint32()
}
