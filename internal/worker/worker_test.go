package worker

import (
	"testing"
	"time"

	"github.com/pgunzip/pgunzip/internal/deflate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func TestHandoffRoundTrip(t *testing.T) {
	h := NewHandoff()
	done := make(chan struct{})
	var ctx [32768]byte
	ctx[0] = 'z'

	go func() {
		h.PostContext(ctx, 12345)
		close(done)
	}()

	gotCtx, gotPos := h.WaitContext()
	<-done
	assert.Equal(t, int64(12345), gotPos)
	assert.Equal(t, byte('z'), gotCtx[0])
}

func TestHandoffPeekSyncGuessNonBlocking(t *testing.T) {
	h := NewHandoff()
	_, ready := h.PeekSyncGuess()
	assert.False(t, ready)

	h.ReportSyncGuess(42)
	pos, ready := h.PeekSyncGuess()
	assert.True(t, ready)
	assert.Equal(t, int64(42), pos)
}

func TestFirstChunkWorkerDecodesToFinalBlock(t *testing.T) {
	data := storedBlock(true, []byte("hello world"))
	downstream := NewHandoff()

	output, _, stopPos, err := FirstChunkWorker(data, 0, 64, deflate.DefaultAlphabet, 0, 0, downstream)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), output)
	assert.Equal(t, int64(len(data))*8, stopPos)
}

func TestFirstChunkWorkerStopsWhenDownstreamCatchesUp(t *testing.T) {
	first := storedBlock(false, []byte("aaaaaaaaaa"))
	second := storedBlock(true, []byte("bbbbbbbbbb"))
	data := append(first, second...)

	downstream := NewHandoff()
	downstream.ReportSyncGuess(int64(len(first)) * 8)

	output, _, stopPos, err := FirstChunkWorker(data, 0, 64, deflate.DefaultAlphabet, 0, 0, downstream)
	require.NoError(t, err)
	assert.Equal(t, []byte("aaaaaaaaaa"), output)
	assert.Equal(t, int64(len(first))*8, stopPos)
}

func TestFirstChunkWorkerStopsGraceBlocksPastRequestedCutoff(t *testing.T) {
	blocks := [][]byte{
		storedBlock(false, []byte("aaaaaaaaaa")),
		storedBlock(false, []byte("bbbbbbbbbb")),
		storedBlock(false, []byte("cccccccccc")),
		storedBlock(true, []byte("dddddddddd")),
	}
	var data []byte
	for _, b := range blocks {
		data = append(data, b...)
	}

	// Ask to stop right after the first block; with a 1-block grace
	// window, decoding should run one further block (the second) and
	// then stop at that boundary, never reaching the final block.
	stopAfterBits := int64(len(blocks[0])) * 8
	output, _, stopPos, err := FirstChunkWorker(data, 0, 64, deflate.DefaultAlphabet, stopAfterBits, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("aaaaaaaaaabbbbbbbbbb"), output)
	assert.Equal(t, int64(len(blocks[0])+len(blocks[1]))*8, stopPos)
}

func TestHandoffWaitContextBlocksUntilPosted(t *testing.T) {
	h := NewHandoff()
	result := make(chan int64, 1)
	go func() {
		_, pos := h.WaitContext()
		result <- pos
	}()

	select {
	case <-result:
		t.Fatal("WaitContext returned before PostContext was called")
	case <-time.After(20 * time.Millisecond):
	}

	var ctx [32768]byte
	h.PostContext(ctx, 7)
	select {
	case pos := <-result:
		assert.Equal(t, int64(7), pos)
	case <-time.After(time.Second):
		t.Fatal("WaitContext did not unblock after PostContext")
	}
}
