package denyset

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/denyset/bitset"
	"github.com/hupe1980/denyset/core"
	"github.com/hupe1980/denyset/interval"
)

// mapSet is the reference strategy: a plain hash set.
type mapSet struct {
	m map[core.ID]struct{}
}

func newMapSet(values []core.ID) *mapSet {
	m := make(map[core.ID]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return &mapSet{m: m}
}

func (s *mapSet) Contains(id core.ID) bool {
	_, ok := s.m[id]
	return ok
}

func (s *mapSet) Name() string { return "map" }

func (s *mapSet) Cardinality() int { return len(s.m) }

// intervalSet answers membership by binary search over the compressed
// interval sequence.
type intervalSet struct {
	ivs  []interval.Interval
	card int
}

func (s *intervalSet) Contains(id core.ID) bool {
	return interval.Contains(s.ivs, id)
}

func (s *intervalSet) Name() string { return "interval" }

func (s *intervalSet) Cardinality() int { return s.card }

// bitsetSet answers membership via the grouped bitset index.
type bitsetSet struct {
	idx *bitset.Index
}

func (s *bitsetSet) Contains(id core.ID) bool {
	return s.idx.Contains(id)
}

func (s *bitsetSet) Name() string { return "bitset" }

func (s *bitsetSet) Cardinality() int { return s.idx.Cardinality() }

// roaringSet answers membership via a roaring bitmap.
type roaringSet struct {
	rb *roaring.Bitmap
}

func newRoaringSet(values []core.ID) *roaringSet {
	ids := make([]uint32, len(values))
	for i, v := range values {
		ids[i] = uint32(v)
	}
	rb := roaring.New()
	rb.AddMany(ids)
	return &roaringSet{rb: rb}
}

func (s *roaringSet) Contains(id core.ID) bool {
	return s.rb.Contains(uint32(id))
}

func (s *roaringSet) Name() string { return "roaring" }

func (s *roaringSet) Cardinality() int { return int(s.rb.GetCardinality()) }
