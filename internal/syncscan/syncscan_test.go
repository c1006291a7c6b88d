package syncscan

import (
	"testing"

	"github.com/pgunzip/pgunzip/internal/deflate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storedBlock builds the raw bytes of a single stored block.
func storedBlock(final bool, payload []byte) []byte {
	header := byte(0x00)
	if final {
		header = 0x01
	}
	buf := []byte{header}
	length := uint16(len(payload))
	nlength := ^length
	buf = append(buf, byte(length), byte(length>>8), byte(nlength), byte(nlength>>8))
	return append(buf, payload...)
}

func TestScanAcceptsKnownBoundaryAtExactPosition(t *testing.T) {
	first := storedBlock(false, []byte("hello world this is chunk data"))
	second := storedBlock(true, []byte("more"))
	data := append(first, second...)

	opts := Options{
		MinBlockBytes: 10,
		ConfirmBlocks: 1,
		DummyCapacity: 1 << 20,
		Alphabet:      deflate.DefaultAlphabet,
	}
	pos, err := Scan(data, 0, 1, opts)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos)
}

func TestScanFindsBoundaryAfterGarbagePrefix(t *testing.T) {
	garbage := []byte{0xFF, 0xFF, 0xFF} // every bit position here is reserved-type or fails
	first := storedBlock(false, []byte("hello world this is chunk data"))
	second := storedBlock(true, []byte("more"))
	data := append(garbage, append(first, second...)...)

	opts := Options{
		MinBlockBytes: 10,
		ConfirmBlocks: 1,
		DummyCapacity: 1 << 20,
		Alphabet:      deflate.DefaultAlphabet,
	}
	startBits := int64(len(garbage)) * 8
	pos, err := Scan(data, startBits, 1, opts)
	require.NoError(t, err)
	assert.Equal(t, startBits, pos)
}

func TestScanReturnsErrNoSyncWhenRangeExhausted(t *testing.T) {
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	opts := Options{
		MinBlockBytes: 10,
		ConfirmBlocks: 1,
		DummyCapacity: 1 << 20,
		Alphabet:      deflate.DefaultAlphabet,
	}
	_, err := Scan(data, 0, 32, opts)
	assert.ErrorIs(t, err, ErrNoSync)
}
