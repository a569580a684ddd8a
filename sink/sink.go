// Package sink implements the output side of a render pass: an additive,
// clipped write contract shared by three interchangeable back-ends (a
// direct in-memory array, a fixed-size chunked write-through file, and a
// memory-mapped file), each finalizing a standard RIFF/WAVE PCM container.
package sink

import "math"

// Sink is the renderer's mixing target. AddData is an additive write,
// clipped per-channel to [0, total_frames) and to cutoffs[c]; Save
// finalizes the container (a no-op for variants with nothing left to
// flush).
type Sink interface {
	AddData(start int, data [][]int32, cutoffs []int)
	Save() error
}

// clipLength returns how many frames of an n-long, cutoff-long write
// starting at start actually land inside [0, total).
func clipLength(start, total, n, cutoff int) int {
	length := n
	if cutoff < length {
		length = cutoff
	}
	remaining := total - start
	if remaining < 0 {
		remaining = 0
	}
	if remaining < length {
		length = remaining
	}
	if length < 0 {
		length = 0
	}
	return length
}

func addSaturating(dst, src []int32) {
	for i := range dst {
		dst[i] = saturatingAddInt32(dst[i], src[i])
	}
}

func saturatingAddInt32(a, b int32) int32 {
	sum := int64(a) + int64(b)
	if sum > math.MaxInt32 {
		return math.MaxInt32
	}
	if sum < math.MinInt32 {
		return math.MinInt32
	}
	return int32(sum)
}
