// Package codegen renders membership-test structures as C source.
//
// It mirrors the output side of the historical generator: the interval
// sequence becomes a compact disjunctive test expression, the bitset index
// becomes per-group byte tables with a switch-based lookup, and Harness
// combines every strategy into a self-contained benchmark program that
// cross-checks them against a linear scan before timing.
//
// Output is deterministic: identical inputs yield byte-identical source.
package codegen

import (
	"fmt"
	"strings"

	"github.com/hupe1980/denyset/bitset"
	"github.com/hupe1980/denyset/core"
	"github.com/hupe1980/denyset/interval"
)

// ExprOptions configure Expr.
type ExprOptions struct {
	// RangeThreshold is the minimum run length rendered as a range
	// comparison; shorter runs render as per-value equality tests, which
	// are cheaper for one or two values.
	RangeThreshold int

	// TermsPerLine wraps the expression after this many terms.
	// Zero disables wrapping.
	TermsPerLine int

	// HexWidth is the zero-padded width of rendered identifiers.
	HexWidth int
}

// DefaultExprOptions are the options used by Expr when no overrides are
// given. The threshold of 3 keeps singletons and pairs as equality tests.
var DefaultExprOptions = ExprOptions{
	RangeThreshold: 3,
	TermsPerLine:   3,
	HexWidth:       4,
}

// Expr renders the interval sequence as a C boolean expression over ident.
// An empty sequence renders as "0" (constant false).
func Expr(ivs []interval.Interval, ident string, optFns ...func(*ExprOptions)) string {
	opts := DefaultExprOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if len(ivs) == 0 {
		return "0"
	}

	var terms []string
	for _, iv := range ivs {
		if opts.RangeThreshold > 0 && iv.Len() >= opts.RangeThreshold {
			terms = append(terms, fmt.Sprintf("(0x%0*x <= %s && %s <= 0x%0*x)",
				opts.HexWidth, uint32(iv.Low), ident, ident, opts.HexWidth, uint32(iv.High)))
			continue
		}
		for v := uint64(iv.Low); v <= uint64(iv.High); v++ {
			terms = append(terms, fmt.Sprintf("%s == 0x%0*x", ident, opts.HexWidth, v))
		}
	}

	var b strings.Builder
	for i, t := range terms {
		if i > 0 {
			if opts.TermsPerLine > 0 && i%opts.TermsPerLine == 0 {
				b.WriteString(" ||\n    ")
			} else {
				b.WriteString(" || ")
			}
		}
		b.WriteString(t)
	}
	return b.String()
}

// Tables renders the bitset index as per-group byte tables plus a lookup
// function named <name>_contains. Byte k>>3, bit k&7 of a group's table
// corresponds to local index k, so lookups are a shift, a mask, and one
// indexed load.
//
// Only shift-partitioned indexes with a byte-aligned block width can be
// rendered.
func Tables(idx *bitset.Index, name string) (string, error) {
	shift, ok := idx.GroupShift()
	if !ok {
		return "", fmt.Errorf("codegen: index with custom partition functions cannot be rendered")
	}
	blockBits := idx.BlockBits()
	if blockBits%8 != 0 {
		return "", fmt.Errorf("codegen: block width %d is not byte-aligned", blockBits)
	}
	blockBytes := blockBits / 8

	var b strings.Builder
	groups := idx.Groups()
	for _, g := range groups {
		words, _ := idx.Block(g)
		fmt.Fprintf(&b, "static const uint8_t %s_blk_%02x[%d] = {", name, g, blockBytes)
		for i := uint32(0); i < blockBytes; i++ {
			if i%12 == 0 {
				b.WriteString("\n    ")
			} else {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "0x%02x,", uint8(words[i/8]>>(8*(i%8))))
		}
		b.WriteString("\n};\n\n")
	}

	fmt.Fprintf(&b, "static int %s_contains(uint32_t id) {\n", name)
	fmt.Fprintf(&b, "    uint32_t lo = id & 0x%x;\n", uint64(1)<<shift-1)
	if blockBits < 1<<shift {
		fmt.Fprintf(&b, "    if (lo >= %d) {\n        return 0;\n    }\n", blockBits)
	}
	fmt.Fprintf(&b, "    switch (id >> %d) {\n", shift)
	for _, g := range groups {
		fmt.Fprintf(&b, "    case 0x%02x:\n", g)
		fmt.Fprintf(&b, "        return (%s_blk_%02x[lo >> 3] >> (lo & 7)) & 1;\n", name, g)
	}
	b.WriteString("    default:\n        return 0;\n    }\n}\n")

	return b.String(), nil
}

// HarnessConfig configures Harness.
type HarnessConfig struct {
	// Name prefixes every generated C symbol. Default: "deny".
	Name string

	// Values are the sorted distinct member identifiers.
	Values []core.ID

	// Intervals is the compressed form of Values. Computed when nil.
	Intervals []interval.Interval

	// Index is the grouped bitset form of Values. Built with defaults
	// when nil.
	Index *bitset.Index

	// DomainMax bounds the correctness sweep and the benchmark loop.
	// Default: 0xFFFF.
	DomainMax core.ID

	// Iterations is the number of full-domain benchmark passes.
	// Default: 200.
	Iterations int

	// Expr tweaks the rendered test expression.
	Expr []func(*ExprOptions)
}

// Harness renders a self-contained C benchmark program comparing a linear
// scan, binary search, the interval expression and the bitset tables over
// the same value set. The program first sweeps the whole domain verifying
// that all strategies agree with the linear scan, then times each one.
func Harness(cfg HarnessConfig) (string, error) {
	name := cfg.Name
	if name == "" {
		name = "deny"
	}
	domainMax := cfg.DomainMax
	if domainMax == 0 {
		domainMax = 0xFFFF
	}
	iterations := cfg.Iterations
	if iterations == 0 {
		iterations = 200
	}

	ivs := cfg.Intervals
	if ivs == nil {
		ivs = interval.Compress(cfg.Values)
	}
	idx := cfg.Index
	if idx == nil {
		var err error
		idx, err = bitset.Build(cfg.Values)
		if err != nil {
			return "", err
		}
	}

	tables, err := Tables(idx, name)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("/* Generated by denygen. DO NOT EDIT. */\n\n")
	b.WriteString("#include <stdint.h>\n#include <stdio.h>\n#include <time.h>\n\n")
	fmt.Fprintf(&b, "#define %s_COUNT %d\n", strings.ToUpper(name), len(cfg.Values))
	fmt.Fprintf(&b, "#define %s_DOMAIN_MAX 0x%xu\n", strings.ToUpper(name), uint32(domainMax))
	fmt.Fprintf(&b, "#define %s_ITERATIONS %d\n\n", strings.ToUpper(name), iterations)

	// Sorted value array; a single padding zero keeps the declaration
	// legal for an empty set.
	n := max(len(cfg.Values), 1)
	fmt.Fprintf(&b, "static const uint32_t %s_values[%d] = {", name, n)
	if len(cfg.Values) == 0 {
		b.WriteString("0")
	}
	for i, v := range cfg.Values {
		if i%8 == 0 {
			b.WriteString("\n    ")
		} else {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "0x%04x,", uint32(v))
	}
	b.WriteString("\n};\n\n")

	fmt.Fprintf(&b, `static int %[1]s_linear(uint32_t id) {
    for (int i = 0; i < %[2]s_COUNT; i++) {
        if (%[1]s_values[i] == id) {
            return 1;
        }
    }
    return 0;
}

static int %[1]s_bsearch(uint32_t id) {
    int lo = 0, hi = %[2]s_COUNT - 1;
    while (lo <= hi) {
        int mid = lo + (hi - lo) / 2;
        if (%[1]s_values[mid] == id) {
            return 1;
        }
        if (%[1]s_values[mid] < id) {
            lo = mid + 1;
        } else {
            hi = mid - 1;
        }
    }
    return 0;
}

`, name, strings.ToUpper(name))

	fmt.Fprintf(&b, "static int %s_expr(uint32_t id) {\n    return %s;\n}\n\n",
		name, Expr(ivs, "id", cfg.Expr...))

	b.WriteString(tables)
	b.WriteString("\n")

	fmt.Fprintf(&b, `typedef int (*%[1]s_fn)(uint32_t);

static volatile unsigned long %[1]s_sink;

static int %[1]s_check(void) {
    for (uint32_t id = 0;; id++) {
        int want = %[1]s_linear(id);
        if (%[1]s_bsearch(id) != want || %[1]s_expr(id) != want || %[1]s_contains(id) != want) {
            fprintf(stderr, "strategy mismatch at 0x%%04x\n", id);
            return 1;
        }
        if (id == %[2]s_DOMAIN_MAX) {
            return 0;
        }
    }
}

static double %[1]s_bench(%[1]s_fn fn) {
    unsigned long hits = 0;
    clock_t start = clock();
    for (int iter = 0; iter < %[2]s_ITERATIONS; iter++) {
        for (uint32_t id = 0;; id++) {
            hits += (unsigned long)fn(id);
            if (id == %[2]s_DOMAIN_MAX) {
                break;
            }
        }
    }
    clock_t end = clock();
    %[1]s_sink += hits;
    return (double)(end - start) / CLOCKS_PER_SEC;
}

int main(void) {
    if (%[1]s_check()) {
        return 1;
    }
    printf("%%-8s %%8.3fs\n", "linear", %[1]s_bench(%[1]s_linear));
    printf("%%-8s %%8.3fs\n", "bsearch", %[1]s_bench(%[1]s_bsearch));
    printf("%%-8s %%8.3fs\n", "expr", %[1]s_bench(%[1]s_expr));
    printf("%%-8s %%8.3fs\n", "table", %[1]s_bench(%[1]s_contains));
    return 0;
}
`, name, strings.ToUpper(name))

	return b.String(), nil
}
