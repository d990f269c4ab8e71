package bitset

import "fmt"

// ErrInvalidDomain indicates a value presented to Build that cannot be
// represented by the configured partition: either its local index falls
// outside the block width, or it exceeds the declared maximum value.
//
// Build fails fast on the first such value; no partial index is returned.
type ErrInvalidDomain struct {
	Value     uint32
	Local     uint32
	BlockBits uint32
	MaxValue  uint32
}

func (e *ErrInvalidDomain) Error() string {
	if e.MaxValue != 0 && e.Value > e.MaxValue {
		return fmt.Sprintf("invalid domain: value %#x exceeds maximum %#x", e.Value, e.MaxValue)
	}
	return fmt.Sprintf("invalid domain: value %#x maps to local index %d outside block of %d bits", e.Value, e.Local, e.BlockBits)
}

// ErrUnexpectedGroup indicates a value whose group key is outside the
// allow-list configured with AllowedGroups. Only reported when an allow-list
// is set; otherwise unknown groups simply allocate a new block.
type ErrUnexpectedGroup struct {
	Value uint32
	Group uint32
}

func (e *ErrUnexpectedGroup) Error() string {
	return fmt.Sprintf("unexpected group: value %#x belongs to group %#x, which is not in the allow-list", e.Value, e.Group)
}
