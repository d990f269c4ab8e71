package interval

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/denyset/core"
)

func TestCompress(t *testing.T) {
	tests := []struct {
		name   string
		values []core.ID
		want   []Interval
	}{
		{
			name:   "empty",
			values: nil,
			want:   nil,
		},
		{
			name:   "singleton",
			values: []core.ID{5},
			want:   []Interval{{5, 5}},
		},
		{
			name:   "consecutive runs",
			values: []core.ID{2, 3, 4, 7, 8, 20},
			want:   []Interval{{2, 4}, {7, 8}, {20, 20}},
		},
		{
			name:   "duplicates ignored",
			values: []core.ID{1, 1, 2, 2, 3},
			want:   []Interval{{1, 3}},
		},
		{
			name:   "single run",
			values: []core.ID{10, 11, 12, 13},
			want:   []Interval{{10, 13}},
		},
		{
			name:   "all gaps",
			values: []core.ID{1, 3, 5, 7},
			want:   []Interval{{1, 1}, {3, 3}, {5, 5}, {7, 7}},
		},
		{
			name:   "max value",
			values: []core.ID{core.MaxID - 1, core.MaxID},
			want:   []Interval{{core.MaxID - 1, core.MaxID}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compress(tt.values))
		})
	}
}

func TestCompressIdempotentOnDistinctSorted(t *testing.T) {
	values := []core.ID{1, 1, 2, 2, 3, 9, 9, 20, 21}

	distinct := slices.Compact(slices.Clone(values))
	assert.Equal(t, Compress(values), Compress(distinct))
}

func TestCompressorIncremental(t *testing.T) {
	var c Compressor
	for _, v := range []core.ID{2, 3, 4, 7, 8, 20} {
		c.Feed(v)
	}
	assert.Equal(t, []Interval{{2, 4}, {7, 8}, {20, 20}}, c.Finish())

	// Reusable for a fresh stream after Finish.
	c.Feed(42)
	assert.Equal(t, []Interval{{42, 42}}, c.Finish())
}

func TestFinishWithoutFeed(t *testing.T) {
	var c Compressor
	assert.Nil(t, c.Finish())
}

func TestCompressProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 100; trial++ {
		n := rng.Intn(200)
		values := make([]core.ID, n)
		for i := range values {
			values[i] = core.ID(rng.Intn(500))
		}
		slices.Sort(values)

		ivs := Compress(values)

		distinct := slices.Compact(slices.Clone(values))

		// Coverage: the union of intervals equals the distinct input.
		var covered []core.ID
		for _, iv := range ivs {
			for v := uint64(iv.Low); v <= uint64(iv.High); v++ {
				covered = append(covered, core.ID(v))
			}
		}
		require.True(t, slices.Equal(distinct, covered), "trial %d: got %v, want %v", trial, covered, distinct)

		// Minimality: adjacent intervals are separated by a gap.
		for i := 1; i < len(ivs); i++ {
			require.Less(t, uint64(ivs[i-1].High)+1, uint64(ivs[i].Low), "trial %d", trial)
		}

		require.Equal(t, len(distinct), Cardinality(ivs))
	}
}

func TestContains(t *testing.T) {
	ivs := Compress([]core.ID{2, 3, 4, 7, 8, 20})

	for _, v := range []core.ID{2, 3, 4, 7, 8, 20} {
		assert.True(t, Contains(ivs, v), "value %d", v)
	}
	for _, v := range []core.ID{0, 1, 5, 6, 9, 19, 21, 1000} {
		assert.False(t, Contains(ivs, v), "value %d", v)
	}

	assert.False(t, Contains(nil, 0))
}

func TestIntervalString(t *testing.T) {
	assert.Equal(t, "[0x2f]", Interval{0x2F, 0x2F}.String())
	assert.Equal(t, "[0x30, 0x38]", Interval{0x30, 0x38}.String())
}

func BenchmarkContains(b *testing.B) {
	values := make([]core.ID, 0, 4096)
	for v := core.ID(0); v < 1<<16; v += 13 {
		values = append(values, v)
	}
	ivs := Compress(values)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Contains(ivs, core.ID(i)&0xFFFF)
	}
}
