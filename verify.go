package denyset

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/denyset/core"
)

// verifyChunk is the number of identifiers checked per goroutine task.
const verifyChunk = 1 << 13

// MismatchError reports a disagreement between a strategy and the baseline
// during a Verify sweep.
type MismatchError struct {
	Value    core.ID
	Baseline string
	Strategy string
	Want     bool
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("strategy %q disagrees with %q on value %#x: want %t",
		e.Strategy, e.Baseline, uint32(e.Value), e.Want)
}

// Verify checks that every strategy agrees with the first one on every
// identifier in [0, domainMax]. The sweep is chunked across GOMAXPROCS
// goroutines; the first disagreement cancels the rest and is returned as a
// *MismatchError.
//
// With fewer than two strategies there is nothing to compare and Verify
// returns nil.
func Verify(ctx context.Context, domainMax core.ID, sets ...Set) error {
	if len(sets) < 2 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for lo := uint64(0); lo <= uint64(domainMax); lo += verifyChunk {
		lo, hi := lo, min(lo+verifyChunk-1, uint64(domainMax))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for v := lo; v <= hi; v++ {
				id := core.ID(v)
				want := sets[0].Contains(id)
				for _, s := range sets[1:] {
					if s.Contains(id) != want {
						return &MismatchError{
							Value:    id,
							Baseline: sets[0].Name(),
							Strategy: s.Name(),
							Want:     want,
						}
					}
				}
			}
			return nil
		})
	}

	return g.Wait()
}
