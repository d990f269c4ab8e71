/*
denygen reads a master list of suite identifiers and a deny list selecting
a subset, cross-checks every generated membership strategy over the whole
domain, and emits a self-contained C benchmark program comparing them.
Usage is

	denygen -master <file> -deny <file> [-o <name>] [flags]

-master <file> names every known identifier ("0x00,0x2F NAME" per line);

-deny <file> selects the subset, by value or by name;

-o <name> defines the output file name, default is deny_bench.c;

-name <prefix> prefixes generated C symbols, default "deny";

-shift <n> sets the group/local split of the bitset index, default 8;

-threshold <n> sets the minimum run length rendered as a range compare;

-max <id> rejects identifiers above this bound, default 0xFFFF;

-domain <id> bounds the verification sweep, default equal to -max;

-snapshot <file> additionally saves the bitset index;

-compress <none|lz4|zstd> selects the snapshot codec, default zstd;

-v enables verbose logging.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/hupe1980/denyset"
	"github.com/hupe1980/denyset/codegen"
	"github.com/hupe1980/denyset/core"
	"github.com/hupe1980/denyset/snapshot"
	"github.com/hupe1980/denyset/suitefile"
)

var (
	masterFile, denyFile, outFile, symName string
	snapshotFile, compression              string
	maxFlag, domainFlag                    string
	groupShift, rangeThreshold             int
	verbose                                bool
)

func main() {
	flag.StringVar(&masterFile, "master", "", "master list file")
	flag.StringVar(&denyFile, "deny", "", "deny list file")
	flag.StringVar(&outFile, "o", "deny_bench.c", "output file name")
	flag.StringVar(&symName, "name", "deny", "prefix for generated C symbols")
	flag.IntVar(&groupShift, "shift", 8, "group/local bit split of the bitset index")
	flag.IntVar(&rangeThreshold, "threshold", 3, "minimum run length rendered as a range compare")
	flag.StringVar(&maxFlag, "max", "0xFFFF", "maximum accepted identifier")
	flag.StringVar(&domainFlag, "domain", "", "verification sweep bound, default same as -max")
	flag.StringVar(&snapshotFile, "snapshot", "", "also save the bitset index to this file")
	flag.StringVar(&compression, "compress", "zstd", "snapshot compression: none, lz4 or zstd")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.Parse()

	if masterFile == "" || denyFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "denygen:", err)
		os.Exit(1)
	}
}

func run() error {
	logger := denyset.NoopLogger()
	if verbose {
		logger = denyset.NewTextLogger(slog.LevelDebug)
	}

	maxID, err := parseID(maxFlag)
	if err != nil {
		return fmt.Errorf("-max: %w", err)
	}
	domainMax := maxID
	if domainFlag != "" {
		if domainMax, err = parseID(domainFlag); err != nil {
			return fmt.Errorf("-domain: %w", err)
		}
	}

	master, err := suitefile.Load(masterFile)
	if err != nil {
		return err
	}
	deny, err := suitefile.Load(denyFile)
	if err != nil {
		return err
	}
	values, err := suitefile.Resolve(master, deny)
	if err != nil {
		return err
	}
	logger.Debug("lists resolved",
		"master", len(master),
		"deny", len(deny),
		"values", len(values),
	)

	dl, err := denyset.New(values,
		denyset.WithLogger(logger),
		denyset.WithGroupShift(uint32(groupShift)),
		denyset.WithMaxValue(maxID),
	)
	if err != nil {
		return err
	}

	if err := dl.Verify(context.Background(), domainMax); err != nil {
		return err
	}

	src, err := codegen.Harness(codegen.HarnessConfig{
		Name:      symName,
		Values:    dl.Values(),
		Intervals: dl.Intervals(),
		Index:     dl.Index(),
		DomainMax: domainMax,
		Expr: []func(*codegen.ExprOptions){func(o *codegen.ExprOptions) {
			o.RangeThreshold = rangeThreshold
		}},
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(outFile, []byte(src), 0o666); err != nil {
		return err
	}
	logger.Info("benchmark written", "file", outFile, "bytes", len(src))

	if snapshotFile != "" {
		comp, err := parseCompression(compression)
		if err != nil {
			return err
		}
		err = snapshot.Save(snapshotFile, dl.Index(), func(o *snapshot.Options) {
			o.Compression = comp
		})
		if err != nil {
			return err
		}
		logger.Info("snapshot written", "file", snapshotFile)
	}

	return nil
}

func parseID(s string) (core.ID, error) {
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("malformed identifier %q", s)
	}
	return core.ID(n), nil
}

func parseCompression(s string) (snapshot.Compression, error) {
	switch s {
	case "none":
		return snapshot.CompressionNone, nil
	case "lz4":
		return snapshot.CompressionLZ4, nil
	case "zstd":
		return snapshot.CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", s)
	}
}
