// Package config resolves the CLI's numeric knobs (transpose, speed,
// cachesize, binsize) from flag values and an optional soundfont's own
// [arguments] section, the same blending role the teacher's
// cmd/internal/config plays for the reverb flag.
package config

import "github.com/sampleforge-dev/sampleforge/soundfont"

// Render holds the resolved knobs a render pass needs, after merging
// command-line flags with a soundfont's [arguments] overrides.
type Render struct {
	Transpose int
	Speed     float64
	CacheSize int // seconds
	BinSize   int
	FullClip  bool
}

// Resolve merges flags with a soundfont's [arguments] section. A flag
// named in flagsSet (one given on the command line, whatever its value)
// always wins; otherwise the
// soundfont's override (if any) applies, matching swood's documented
// precedence of explicit CLI input over the font's own suggested defaults.
func Resolve(flags Render, flagsSet map[string]bool, args *soundfont.Arguments) Render {
	out := flags
	if args == nil {
		return out
	}
	if !flagsSet["transpose"] && args.Transpose != nil {
		out.Transpose = *args.Transpose
	}
	if !flagsSet["speed"] && args.Speed != nil {
		out.Speed = *args.Speed
	}
	if !flagsSet["cachesize"] && args.CacheSize != nil {
		out.CacheSize = int(*args.CacheSize)
	}
	if !flagsSet["binsize"] && args.BinSize != nil {
		out.BinSize = *args.BinSize
	}
	return out
}
