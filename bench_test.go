package denyset

import (
	"math/rand"
	"testing"

	"github.com/hupe1980/denyset/core"
)

// benchValues is a denylist-shaped workload: a few dense runs plus sparse
// stragglers across the 16-bit domain.
func benchValues() []core.ID {
	rng := rand.New(rand.NewSource(42))
	var values []core.ID
	for base := core.ID(0x2F); base < 0x40; base++ {
		values = append(values, base)
	}
	for base := core.ID(0xC000); base < 0xC040; base++ {
		values = append(values, base)
	}
	for i := 0; i < 100; i++ {
		values = append(values, core.ID(rng.Intn(1<<16)))
	}
	return values
}

func BenchmarkStrategies(b *testing.B) {
	dl, err := New(benchValues())
	if err != nil {
		b.Fatal(err)
	}

	for _, s := range dl.Sets() {
		b.Run(s.Name(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				s.Contains(core.ID(i) & 0xFFFF)
			}
		})
	}
}

func BenchmarkNew(b *testing.B) {
	values := benchValues()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := New(values); err != nil {
			b.Fatal(err)
		}
	}
}
