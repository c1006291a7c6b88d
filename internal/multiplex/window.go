package multiplex

import "github.com/pgunzip/pgunzip/internal/window"

// NarrowWindow is the `Window<u8>` a RandomAccessChunkWorker switches
// to once Build succeeds on its initial symbolic window: every symbol
// from that point on, resolved literal or multiplexed codepoint, is
// stored as a plain byte, since a copy_match only moves existing bytes
// around and does not care what they mean.
//
// A match reaching further back than this window's own start is
// rejected (unlike Symbolic, which records it as an unresolved
// reference): the multiplexer only has codepoints for offsets already
// seen by the time it was built. As with Symbolic, a window that
// overflows its buffer is treated as corrupt input, not flushed and
// retried.
type NarrowWindow struct {
	buf      []byte
	wrPos    int
	written  int64
	target   int
	alphabet window.Alphabet
}

// NewNarrowWindow returns a NarrowWindow pre-seeded with packed (the
// Pack output of the symbolic window it replaces), holding capacity
// bytes in total, packed included (or len(packed) if that is larger).
func NewNarrowWindow(packed []byte, capacity int, alphabet window.Alphabet) *NarrowWindow {
	size := capacity
	if size < len(packed) {
		size = len(packed)
	}
	w := &NarrowWindow{buf: make([]byte, size), target: capacity, alphabet: alphabet}
	n := copy(w.buf, packed)
	w.wrPos = n
	w.written = int64(n)
	return w
}

func (w *NarrowWindow) PushByte(b byte) bool {
	if b < w.alphabet.Lo || b > w.alphabet.Hi {
		return false
	}
	if w.wrPos >= len(w.buf) {
		return false
	}
	w.buf[w.wrPos] = b
	w.wrPos++
	w.written++
	return true
}

func (w *NarrowWindow) CopyMatch(dist, length int) bool {
	if dist < 1 || dist > w.wrPos {
		return false
	}
	if w.wrPos+length > len(w.buf) {
		return false
	}
	src := w.wrPos - dist
	for i := 0; i < length; i++ {
		w.buf[w.wrPos+i] = w.buf[src+i]
	}
	w.wrPos += length
	w.written += int64(length)
	return true
}

func (w *NarrowWindow) Len() int64 { return w.written }

func (w *NarrowWindow) Full() bool { return w.written >= int64(w.target) }

// Resolve applies lut, built from the upstream neighbor's final
// context once it is known, translating every still-multiplexed
// codepoint into its real byte.
func (w *NarrowWindow) Resolve(lut [256]byte) []byte {
	out := make([]byte, w.wrPos)
	copy(out, w.buf[:w.wrPos])
	Resolve(out, lut)
	return out
}
