package denyset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/denyset/core"
)

// oddSet deliberately disagrees with every honest strategy.
type oddSet struct{}

func (oddSet) Contains(id core.ID) bool { return id%2 == 1 }
func (oddSet) Name() string             { return "odd" }
func (oddSet) Cardinality() int         { return 0 }

func TestVerify(t *testing.T) {
	dl, err := New([]core.ID{2, 3, 4, 7, 8, 20})
	require.NoError(t, err)

	require.NoError(t, Verify(context.Background(), 0xFFFF, dl.Sets()...))
}

func TestVerifyMismatch(t *testing.T) {
	dl, err := New([]core.ID{2, 3, 4})
	require.NoError(t, err)

	sets := append(dl.Sets(), oddSet{})
	err = Verify(context.Background(), 0xFF, sets...)

	var merr *MismatchError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "map", merr.Baseline)
	assert.Equal(t, "odd", merr.Strategy)
}

func TestVerifyFewSets(t *testing.T) {
	assert.NoError(t, Verify(context.Background(), 0xFFFF))

	dl, err := New([]core.ID{1})
	require.NoError(t, err)
	assert.NoError(t, Verify(context.Background(), 0xFFFF, dl.Sets()[0]))
}

func TestVerifyCanceled(t *testing.T) {
	dl, err := New([]core.ID{1, 2, 3})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = Verify(ctx, core.MaxID, dl.Sets()...)
	require.ErrorIs(t, err, context.Canceled)
}
