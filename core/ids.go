package core

// ID is an integer identifier tested for set membership.
// It is strictly 32-bit. The motivating dataset (TLS cipher-suite IDs) fits
// in 16 bits, but none of the algorithms in this module assume that bound.
type ID uint32

// MaxID is the maximum possible value for an ID.
const MaxID = ^ID(0)
