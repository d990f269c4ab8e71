// Package denyset builds compact membership tests over sparse sets of
// bounded integer identifiers, such as denylists of 16-bit TLS cipher-suite
// IDs.
//
// From one value set it derives several equivalent strategies:
//
//   - a minimal interval sequence (binary search, and the source of compact
//     disjunctive test expressions),
//   - a grouped fixed-size bitset index (O(1) lookups),
//   - a roaring bitmap,
//   - a plain hash set used as the reference.
//
// # Quick Start
//
//	dl, _ := denyset.New([]core.ID{0x2F, 0x30, 0x31, 0x9C})
//	dl.Contains(0x30) // true
//	dl.Intervals()    // [[0x2f, 0x31] [0x9c]]
//
// All strategies are immutable after New and safe for concurrent readers.
// Verify sweeps the whole domain and checks that every strategy agrees:
//
//	err := dl.Verify(ctx, 0xFFFF)
//
// The codegen package renders the interval and bitset representations as a
// self-contained C benchmark program, and the snapshot package persists the
// bitset index; the denygen command ties both to the suite-list file format.
package denyset
