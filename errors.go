package denyset

import (
	"errors"
	"fmt"

	"github.com/hupe1980/denyset/bitset"
)

var (
	// ErrInvalidDomain is returned when a value cannot be represented by
	// the configured bitset partition or exceeds the declared maximum.
	ErrInvalidDomain = errors.New("invalid domain")

	// ErrUnexpectedGroup is returned when a value's group is outside the
	// configured allow-list.
	ErrUnexpectedGroup = errors.New("unexpected group")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var id *bitset.ErrInvalidDomain
	if errors.As(err, &id) {
		return fmt.Errorf("%w: %w", ErrInvalidDomain, err)
	}
	var ug *bitset.ErrUnexpectedGroup
	if errors.As(err, &ug) {
		return fmt.Errorf("%w: %w", ErrUnexpectedGroup, err)
	}

	return err
}
