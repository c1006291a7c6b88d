package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcreteCopyMatchOverlap(t *testing.T) {
	c := NewConcrete(16, nil, DefaultAlphabet)
	for _, b := range []byte("ab") {
		c.PushByte(b)
	}
	require.True(t, c.CopyMatch(2, 5)) // "ababa"
	assert.Equal(t, []byte("abababa"), c.Bytes())
}

func TestConcreteCopyMatchRejectsTooFarBack(t *testing.T) {
	c := NewConcrete(16, nil, DefaultAlphabet)
	c.PushByte('a')
	assert.False(t, c.CopyMatch(5, 1))
}

func TestSymbolicResolvesUnresolvedBackreference(t *testing.T) {
	s := NewSymbolic(16, DefaultAlphabet)
	// A match whose distance reaches before the window's own start
	// encodes an unresolved reference into the eventual context.
	require.True(t, s.CopyMatch(100, 3))
	assert.Equal(t, 3, s.UnresolvedCount())

	var ctx [ContextSize]byte
	ctx[ContextSize-100] = 'x'
	ctx[ContextSize-99] = 'y'
	ctx[ContextSize-98] = 'z'
	resolved := s.Resolve(ctx)
	assert.Equal(t, []byte("xyz"), resolved)
}

func TestSymbolicPropagatesResolvedBytesThroughMatch(t *testing.T) {
	s := NewSymbolic(16, DefaultAlphabet)
	s.PushByte('a')
	s.PushByte('b')
	require.True(t, s.CopyMatch(2, 4)) // copies a,b,a,b
	var ctx [ContextSize]byte
	assert.Equal(t, []byte("ababab"), s.Resolve(ctx))
}

func TestSymbolicOnMatchHookFires(t *testing.T) {
	s := NewSymbolic(16, DefaultAlphabet)
	var gotLength, gotDist int
	s.OnMatch = func(length, dist int) { gotLength, gotDist = length, dist }
	s.PushByte('a')
	s.CopyMatch(1, 3)
	assert.Equal(t, 3, gotLength)
	assert.Equal(t, 1, gotDist)
}

func TestDummyRejectsOutOfRangeDistance(t *testing.T) {
	d := NewDummy(100, DefaultAlphabet)
	assert.False(t, d.CopyMatch(ContextSize+1, 3))
	assert.True(t, d.CopyMatch(1, 3))
}

func TestDummyReportsFullAtCapacity(t *testing.T) {
	d := NewDummy(4, DefaultAlphabet)
	d.PushByte('a')
	assert.False(t, d.Full())
	d.PushByte('b')
	d.PushByte('c')
	d.PushByte('d')
	assert.True(t, d.Full())
}
