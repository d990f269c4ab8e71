package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/denyset/bitset"
	"github.com/hupe1980/denyset/core"
	"github.com/hupe1980/denyset/interval"
)

func TestExpr(t *testing.T) {
	tests := []struct {
		name   string
		values []core.ID
		want   string
	}{
		{
			name:   "empty is constant false",
			values: nil,
			want:   "0",
		},
		{
			name:   "singleton is an equality test",
			values: []core.ID{0x2F},
			want:   "id == 0x002f",
		},
		{
			name:   "pair stays as two equality tests",
			values: []core.ID{0x2F, 0x30},
			want:   "id == 0x002f || id == 0x0030",
		},
		{
			name:   "run of three becomes a range compare",
			values: []core.ID{0x30, 0x31, 0x32},
			want:   "(0x0030 <= id && id <= 0x0032)",
		},
		{
			name:   "mixed",
			values: []core.ID{0x04, 0x30, 0x31, 0x32, 0x9C},
			want:   "id == 0x0004 || (0x0030 <= id && id <= 0x0032) || id == 0x009c",
		},
		{
			name:   "wraps after three terms",
			values: []core.ID{1, 3, 5, 7},
			want:   "id == 0x0001 || id == 0x0003 || id == 0x0005 ||\n    id == 0x0007",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Expr(interval.Compress(tt.values), "id"))
		})
	}
}

func TestExprOptions(t *testing.T) {
	ivs := interval.Compress([]core.ID{0x30, 0x31})

	// Threshold 2 turns the pair into a range compare.
	got := Expr(ivs, "x", func(o *ExprOptions) {
		o.RangeThreshold = 2
	})
	assert.Equal(t, "(0x0030 <= x && x <= 0x0031)", got)

	// No wrapping.
	ivs = interval.Compress([]core.ID{1, 3, 5, 7, 9})
	got = Expr(ivs, "id", func(o *ExprOptions) {
		o.TermsPerLine = 0
	})
	assert.NotContains(t, got, "\n")
	assert.Equal(t, 4, strings.Count(got, "||"))
}

func TestTables(t *testing.T) {
	idx, err := bitset.Build([]core.ID{0x2F, 0xC02B})
	require.NoError(t, err)

	src, err := Tables(idx, "deny")
	require.NoError(t, err)

	assert.Contains(t, src, "static const uint8_t deny_blk_00[32]")
	assert.Contains(t, src, "static const uint8_t deny_blk_c0[32]")
	assert.Contains(t, src, "static int deny_contains(uint32_t id)")
	assert.Contains(t, src, "case 0x00:")
	assert.Contains(t, src, "case 0xc0:")
	assert.Contains(t, src, "switch (id >> 8)")

	// 0x2F is bit 7 of byte 5: 1<<7 == 0x80.
	assert.Contains(t, src, "0x80,")
}

func TestTablesRejectsCustomPartition(t *testing.T) {
	idx, err := bitset.Build([]core.ID{1}, func(o *bitset.Options) {
		o.GroupFunc = func(v core.ID) uint32 { return 0 }
	})
	require.NoError(t, err)

	_, err = Tables(idx, "deny")
	require.Error(t, err)
}

func TestTablesRejectsUnalignedBlock(t *testing.T) {
	idx, err := bitset.Build([]core.ID{1}, func(o *bitset.Options) {
		o.BlockBits = 100
	})
	require.NoError(t, err)

	_, err = Tables(idx, "deny")
	require.Error(t, err)
}

func TestHarness(t *testing.T) {
	values := []core.ID{0x04, 0x2F, 0x30, 0x31, 0x9C, 0xC02B}

	src, err := Harness(HarnessConfig{Values: values})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(src, "/* Generated by denygen. DO NOT EDIT. */"))
	for _, want := range []string{
		"#define DENY_COUNT 6",
		"#define DENY_DOMAIN_MAX 0xffffu",
		"static const uint32_t deny_values[6]",
		"static int deny_linear(uint32_t id)",
		"static int deny_bsearch(uint32_t id)",
		"static int deny_expr(uint32_t id)",
		"static int deny_contains(uint32_t id)",
		"int main(void)",
	} {
		assert.Contains(t, src, want)
	}

	// Deterministic output.
	again, err := Harness(HarnessConfig{Values: values})
	require.NoError(t, err)
	assert.Equal(t, src, again)
}

func TestHarnessEmpty(t *testing.T) {
	src, err := Harness(HarnessConfig{})
	require.NoError(t, err)

	assert.Contains(t, src, "#define DENY_COUNT 0")
	assert.Contains(t, src, "static const uint32_t deny_values[1]")
}

func TestHarnessCustomName(t *testing.T) {
	src, err := Harness(HarnessConfig{Name: "banned", Values: []core.ID{1}})
	require.NoError(t, err)

	assert.Contains(t, src, "#define BANNED_COUNT 1")
	assert.Contains(t, src, "static int banned_contains(uint32_t id)")
	assert.NotContains(t, src, "deny_")
}
