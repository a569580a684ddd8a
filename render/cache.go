package render

import "github.com/sampleforge-dev/sampleforge/midi"

// cacheKey is the Note-equivalence key from spec.md §3: two Notes are
// cache-equivalent iff length, pitch, sample-start, instrument identity,
// and percussion flag all match. Instrument is compared by interface
// identity (the dynamic pointer), not by value.
type cacheKey struct {
	length      int
	pitch       float64
	sampleStart int
	instrument  midi.Instrument
	percussion  bool
}

func keyOf(n *midi.Note) cacheKey {
	return cacheKey{
		length:      n.Length,
		pitch:       n.Pitch,
		sampleStart: n.SampleStart,
		instrument:  n.Instrument,
		percussion:  n.Percussion,
	}
}

// CachedNote is one rendered note held in the bounded render cache.
type CachedNote struct {
	Data    [][]int32
	Cutoffs []int
	Used    int
	Age     int // schedule-time (output sample index) at insertion
}

// cache is the renderer's bounded, process-local render cache. It is not
// safe to share across concurrent renderers, matching spec.md §5's
// shared-resource policy.
type cache struct {
	entries map[cacheKey]*CachedNote
	sweeps  int
}

func newCache() *cache {
	return &cache{entries: make(map[cacheKey]*CachedNote)}
}

func (c *cache) get(k cacheKey) (*CachedNote, bool) {
	cn, ok := c.entries[k]
	if ok {
		cn.Used++
	}
	return cn, ok
}

func (c *cache) put(k cacheKey, cn *CachedNote) {
	cn.Used = 1
	c.entries[k] = cn
}

// gc evicts any entry whose (now - Age) exceeds horizonFrames and whose
// Used is below 3, the policy from spec.md §4.3.
func (c *cache) gc(now, horizonFrames int) {
	for k, cn := range c.entries {
		if now-cn.Age > horizonFrames && cn.Used < 3 {
			delete(c.entries, k)
		}
	}
}

// tick advances the bucket-iteration counter and runs a GC sweep every 15
// iterations.
func (c *cache) tick(now, horizonFrames int) {
	c.sweeps++
	if c.sweeps%15 == 0 {
		c.gc(now, horizonFrames)
	}
}
