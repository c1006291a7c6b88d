package coordinator

import (
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/pgunzip/pgunzip/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipOf(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDecompressSequentialRoundTrips(t *testing.T) {
	want := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog\n"), 50)
	gz := gzipOf(t, want)

	got, degraded, err := Decompress(gz, config.Options{Threads: 1})
	require.NoError(t, err)
	assert.False(t, degraded)
	assert.Equal(t, want, got)
}

func TestDecompressRejectsBadMagic(t *testing.T) {
	_, _, err := Decompress([]byte{0x00, 0x00, 0x00, 0x00}, config.Options{Threads: 1})
	assert.Error(t, err)
}

func TestPlanSectionsCoversWholePayloadWithoutGaps(t *testing.T) {
	sections := planSections(1000, 4, 0)
	require.Len(t, sections, 4)
	assert.Equal(t, int64(0), sections[0].startBits)
	for i := 1; i < len(sections); i++ {
		assert.Equal(t, sections[i-1].endBits, sections[i].startBits)
	}
	assert.Equal(t, int64(1000*8), sections[len(sections)-1].endBits)
}

func TestPlanSectionsSingleThread(t *testing.T) {
	sections := planSections(100, 1, 0)
	require.Len(t, sections, 1)
	assert.Equal(t, int64(0), sections[0].startBits)
	assert.Equal(t, int64(800), sections[0].endBits)
}

func TestDecompressParallelSingleSectionFallsBackToRawDeflate(t *testing.T) {
	want := bytes.Repeat([]byte("abcdefgh"), 100)
	gz := gzipOf(t, want)

	got, degraded, err := Decompress(gz, config.Options{Threads: 2, SectionBytes: int64(len(gz))})
	require.NoError(t, err)
	assert.False(t, degraded)
	assert.Equal(t, want, got)
}
