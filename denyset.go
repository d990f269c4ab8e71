package denyset

import (
	"context"
	"slices"

	"github.com/hupe1980/denyset/bitset"
	"github.com/hupe1980/denyset/core"
	"github.com/hupe1980/denyset/interval"
)

// Set is one membership-test strategy over a fixed identifier set.
// Implementations are immutable and safe for concurrent readers.
type Set interface {
	// Contains reports whether id is a member.
	Contains(id core.ID) bool
	// Name identifies the strategy (e.g. "bitset", "roaring").
	Name() string
	// Cardinality returns the number of distinct members.
	Cardinality() int
}

// Denylist bundles the membership strategies built from one value set.
type Denylist struct {
	values    []core.ID
	intervals []interval.Interval
	index     *bitset.Index
	sets      []Set
	logger    *Logger
}

// New builds all enabled strategies from values. The input need not be
// sorted or deduplicated; an empty input yields an empty denylist.
func New(values []core.ID, optFns ...Option) (*Denylist, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	vs := slices.Clone(values)
	slices.Sort(vs)
	vs = slices.Compact(vs)

	ivs := interval.Compress(vs)

	idx, err := bitset.Build(vs, o.bitsetOptions()...)
	if err != nil {
		err = translateError(err)
		o.logger.LogBuild(len(vs), 0, 0, err)
		return nil, err
	}

	sets := []Set{
		newMapSet(vs),
		&intervalSet{ivs: ivs, card: len(vs)},
		&bitsetSet{idx: idx},
	}
	if !o.noRoaring {
		sets = append(sets, newRoaringSet(vs))
	}

	o.logger.LogBuild(len(vs), len(ivs), len(idx.Groups()), nil)

	return &Denylist{
		values:    vs,
		intervals: ivs,
		index:     idx,
		sets:      sets,
		logger:    o.logger,
	}, nil
}

// Contains reports whether id is a member, using the bitset fast path.
func (d *Denylist) Contains(id core.ID) bool {
	return d.index.Contains(id)
}

// Cardinality returns the number of distinct members.
func (d *Denylist) Cardinality() int {
	return len(d.values)
}

// Values returns the sorted distinct member identifiers.
func (d *Denylist) Values() []core.ID {
	return slices.Clone(d.values)
}

// Intervals returns the minimal interval sequence covering the members.
func (d *Denylist) Intervals() []interval.Interval {
	return slices.Clone(d.intervals)
}

// Index returns the grouped bitset index.
func (d *Denylist) Index() *bitset.Index {
	return d.index
}

// Sets returns every built strategy, reference strategy first.
func (d *Denylist) Sets() []Set {
	return slices.Clone(d.sets)
}

// Verify sweeps [0, domainMax] and checks that every strategy agrees with
// the reference. See Verify for the error contract.
func (d *Denylist) Verify(ctx context.Context, domainMax core.ID) error {
	err := Verify(ctx, domainMax, d.sets...)
	d.logger.LogVerify(uint32(domainMax), len(d.sets), err)
	return err
}
