// Package interval collapses sorted identifier sequences into minimal
// sequences of disjoint closed intervals.
//
// The compressor is a single-pass streaming algorithm: values are fed one at
// a time in non-decreasing order and the finished interval sequence is
// flushed at the end. It never looks ahead or backtracks, so arbitrarily
// large inputs compress in O(n) time and O(intervals) space.
package interval

import (
	"fmt"
	"sort"

	"github.com/hupe1980/denyset/core"
)

// Interval is a closed range [Low, High] of consecutive identifiers, all of
// which are members of the source set. Low == High represents a singleton.
type Interval struct {
	Low  core.ID
	High core.ID
}

// Len returns the number of identifiers covered by the interval.
func (iv Interval) Len() int {
	return int(iv.High-iv.Low) + 1
}

// Contains reports whether v lies inside the interval.
func (iv Interval) Contains(v core.ID) bool {
	return iv.Low <= v && v <= iv.High
}

// String implements fmt.Stringer.
func (iv Interval) String() string {
	if iv.Low == iv.High {
		return fmt.Sprintf("[%#x]", uint32(iv.Low))
	}
	return fmt.Sprintf("[%#x, %#x]", uint32(iv.Low), uint32(iv.High))
}

// Compressor accumulates a non-decreasing stream of identifiers into
// maximal intervals.
//
// Feed each value in order, then call Finish to flush the final open run.
// Duplicates are ignored. The zero value is ready to use, and a Compressor
// may be reused for a new stream after Finish.
type Compressor struct {
	low, high core.ID
	open      bool
	out       []Interval
}

// Feed adds the next value of the stream.
//
// Values must arrive in non-decreasing order; feeding out of order corrupts
// the output (the precondition is the caller's, matching a pre-sorted,
// deduplicated source list).
func (c *Compressor) Feed(v core.ID) {
	switch {
	case !c.open:
		c.low, c.high = v, v
		c.open = true
	case v == c.high:
		// duplicate
	case v == c.high+1:
		c.high = v
	default:
		c.out = append(c.out, Interval{Low: c.low, High: c.high})
		c.low, c.high = v, v
	}
}

// Finish flushes the open run and returns the completed interval sequence.
// A stream that never fed a value yields nil.
func (c *Compressor) Finish() []Interval {
	if c.open {
		c.out = append(c.out, Interval{Low: c.low, High: c.high})
		c.open = false
	}
	out := c.out
	c.out = nil
	return out
}

// Compress is the one-shot form of Feed/Finish over an already sorted,
// possibly duplicated value slice.
//
// The result is minimal and sound: intervals are pairwise disjoint, strictly
// increasing with at least one missing value between neighbors, and their
// union is exactly the set of distinct input values.
func Compress(values []core.ID) []Interval {
	var c Compressor
	for _, v := range values {
		c.Feed(v)
	}
	return c.Finish()
}

// Contains reports whether v is covered by the sorted interval sequence ivs.
// It runs in O(log len(ivs)).
func Contains(ivs []Interval, v core.ID) bool {
	i := sort.Search(len(ivs), func(i int) bool { return ivs[i].High >= v })
	return i < len(ivs) && ivs[i].Low <= v
}

// Cardinality returns the total number of identifiers covered by ivs.
func Cardinality(ivs []Interval) int {
	n := 0
	for _, iv := range ivs {
		n += iv.Len()
	}
	return n
}
