package multiplex

import (
	"testing"

	"github.com/pgunzip/pgunzip/internal/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAndResolveRoundTrip(t *testing.T) {
	sym := window.NewSymbolic(16, window.DefaultAlphabet)
	require.True(t, sym.CopyMatch(100, 2)) // two unresolved symbols, same offset family
	sym.PushByte('A')
	require.True(t, sym.CopyMatch(50, 1))

	m, err := Build(sym)
	require.NoError(t, err)

	packed := m.Pack(sym)
	assert.Len(t, packed, 4)
	assert.Equal(t, byte('A'), packed[2])

	var ctx [window.ContextSize]byte
	ctx[window.ContextSize-100] = 'x'
	ctx[window.ContextSize-99] = 'y'
	ctx[window.ContextSize-47] = 'z'
	lut := m.FinalLookup(ctx)
	Resolve(packed, lut)
	assert.Equal(t, []byte("xyAz"), packed)
}

func TestBuildRejectsTooManyOffsets(t *testing.T) {
	sym := window.NewSymbolic(MaxCodepoints+10, window.DefaultAlphabet)
	for i := 1; i <= MaxCodepoints+1; i++ {
		// Each call's distance grows faster than wrPos advances, so
		// every iteration lands on a distinct unresolved back-distance.
		require.True(t, sym.CopyMatch(2000+2*i, 1))
	}
	_, err := Build(sym)
	assert.ErrorIs(t, err, ErrTooManyOffsets)
}
