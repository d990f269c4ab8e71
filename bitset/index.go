// Package bitset builds grouped fixed-size bit blocks for O(1) membership
// queries over sparse identifier sets.
//
// An identifier is split into a coarse group key (by default its high bits)
// and a local index into a fixed-width bit block. Blocks are allocated only
// for groups that actually occur, so storage is proportional to the number
// of distinct groups times the block size, independent of the domain width.
package bitset

import (
	"slices"

	"github.com/hupe1980/denyset/core"
)

const wordBits = 64

// DefaultGroupShift splits an identifier into a high-byte group and a
// low-byte local index, giving 256-bit blocks. This matches the byte/byte
// split of two-byte cipher-suite identifiers.
const DefaultGroupShift = 8

// Options configure Build.
type Options struct {
	// GroupShift partitions a value v into group v>>GroupShift and local
	// index v & (1<<GroupShift - 1). Ignored for the respective part when
	// GroupFunc or LocalFunc is set.
	GroupShift uint32

	// BlockBits is the fixed bit width of each group's block. Zero means
	// 1 << GroupShift. A value whose local index falls outside
	// [0, BlockBits) fails the build with ErrInvalidDomain.
	BlockBits uint32

	// GroupFunc overrides the shift-based group derivation.
	GroupFunc func(core.ID) uint32

	// LocalFunc overrides the shift-based local index derivation.
	LocalFunc func(core.ID) uint32

	// MaxValue, when non-zero, rejects any larger value at build time with
	// ErrInvalidDomain.
	MaxValue core.ID

	// AllowedGroups, when non-empty, rejects values outside the listed
	// groups with ErrUnexpectedGroup. When empty, any group is accepted.
	AllowedGroups []uint32
}

// DefaultOptions are the options used by Build when no overrides are given.
var DefaultOptions = Options{
	GroupShift: DefaultGroupShift,
}

// Index is an immutable mapping from group key to a fixed-size bit block.
// Bit k of group g's block is set iff the identifier partitioning to (g, k)
// was present in the build input.
//
// An Index is safe for concurrent readers once Build has returned.
type Index struct {
	blocks    map[uint32][]uint64
	group     func(core.ID) uint32
	local     func(core.ID) uint32
	blockBits uint32
	shift     uint32
	shifted   bool
	card      int
}

// Build constructs an Index from values. Construction is batch-only: the
// index has no update operations afterwards.
//
// Values may arrive in any order and may contain duplicates. Build fails
// with ErrInvalidDomain or ErrUnexpectedGroup on the first offending value.
func Build(values []core.ID, optFns ...func(*Options)) (*Index, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	blockBits := opts.BlockBits
	if blockBits == 0 {
		blockBits = 1 << opts.GroupShift
	}

	idx := &Index{
		blocks:    make(map[uint32][]uint64),
		blockBits: blockBits,
		shift:     opts.GroupShift,
		shifted:   opts.GroupFunc == nil && opts.LocalFunc == nil,
	}

	shift := opts.GroupShift
	idx.group = opts.GroupFunc
	if idx.group == nil {
		idx.group = func(v core.ID) uint32 { return uint32(v >> shift) }
	}
	idx.local = opts.LocalFunc
	if idx.local == nil {
		mask := core.ID(1)<<shift - 1
		idx.local = func(v core.ID) uint32 { return uint32(v & mask) }
	}

	var allowed map[uint32]struct{}
	if len(opts.AllowedGroups) > 0 {
		allowed = make(map[uint32]struct{}, len(opts.AllowedGroups))
		for _, g := range opts.AllowedGroups {
			allowed[g] = struct{}{}
		}
	}

	words := int((blockBits + wordBits - 1) / wordBits)
	for _, v := range values {
		if opts.MaxValue != 0 && v > opts.MaxValue {
			return nil, &ErrInvalidDomain{Value: uint32(v), MaxValue: uint32(opts.MaxValue)}
		}
		g, k := idx.group(v), idx.local(v)
		if k >= blockBits {
			return nil, &ErrInvalidDomain{Value: uint32(v), Local: k, BlockBits: blockBits}
		}
		if allowed != nil {
			if _, ok := allowed[g]; !ok {
				return nil, &ErrUnexpectedGroup{Value: uint32(v), Group: g}
			}
		}
		blk := idx.blocks[g]
		if blk == nil {
			blk = make([]uint64, words)
			idx.blocks[g] = blk
		}
		if mask := uint64(1) << (k & (wordBits - 1)); blk[k/wordBits]&mask == 0 {
			blk[k/wordBits] |= mask
			idx.card++
		}
	}

	return idx, nil
}

// Contains reports whether v was present in the build input. A value whose
// group has no block is not a member; this is never an error.
func (x *Index) Contains(v core.ID) bool {
	blk, ok := x.blocks[x.group(v)]
	if !ok {
		return false
	}
	k := x.local(v)
	if k >= x.blockBits {
		return false
	}
	return blk[k/wordBits]&(uint64(1)<<(k&(wordBits-1))) != 0
}

// Cardinality returns the number of distinct identifiers stored.
func (x *Index) Cardinality() int {
	return x.card
}

// BlockBits returns the fixed bit width of each block.
func (x *Index) BlockBits() uint32 {
	return x.blockBits
}

// GroupShift returns the shift of the value partition and whether the index
// uses the shift-based partition at all. Indexes built with GroupFunc or
// LocalFunc report false; their partition is not introspectable.
func (x *Index) GroupShift() (uint32, bool) {
	return x.shift, x.shifted
}

// Groups returns the group keys with at least one stored identifier, in
// ascending order.
func (x *Index) Groups() []uint32 {
	gs := make([]uint32, 0, len(x.blocks))
	for g := range x.blocks {
		gs = append(gs, g)
	}
	slices.Sort(gs)
	return gs
}

// Block returns group g's bit words. The returned slice is the index's
// backing storage and must not be modified.
func (x *Index) Block(g uint32) ([]uint64, bool) {
	blk, ok := x.blocks[g]
	return blk, ok
}
