package window

// maxMatchLength is the largest length a single DEFLATE back-reference
// can carry (RFC 1951 length codes top out at 258), the amount of
// headroom flush must always leave past the retained context.
const maxMatchLength = 258

// Concrete is a sliding window of real bytes, used by FirstChunkWorker
// (which always has a fully resolved context: either the start of the
// file, or nothing at all). Its head holds the trailing context plus
// headroom for one match; once that fills, flush evicts everything
// before the trailing ContextSize bytes into flushed rather than
// failing outright, so a chunk's true output size need not be
// guessed up front.
//
// The ring buffer and its wrap-around copy logic are grounded on a
// forked standard-library flate dict_decoder (see DESIGN.md); the
// flush-and-retry behavior mirrors the original tool's own flush().
type Concrete struct {
	hist     []byte
	wrPos    int
	written  int64
	target   int
	alphabet Alphabet
	// flushed holds everything evicted out of hist by a prior flush,
	// in order; Bytes() is flushed plus whatever's still in hist.
	flushed []byte
}

// NewConcrete returns a Concrete window that considers itself Full
// once it has produced capacity bytes — a sizing heuristic, not a hard
// limit, since the window flushes its head to make room rather than
// reject further writes. seed, if non-empty, pre-fills the window's
// start as the upstream context (so back-references at the very start
// of the chunk's own output can resolve into it); seed's length must be
// exactly ContextSize. PushByte rejects any byte outside alphabet.
func NewConcrete(capacity int, seed []byte, alphabet Alphabet) *Concrete {
	headSize := capacity
	if headSize < ContextSize+maxMatchLength {
		headSize = ContextSize + maxMatchLength
	}
	c := &Concrete{hist: make([]byte, headSize), target: capacity, alphabet: alphabet}
	if len(seed) > 0 {
		copy(c.hist, seed)
		c.wrPos = len(seed)
		c.written = int64(len(seed))
	}
	return c
}

// flush evicts everything before the trailing ContextSize bytes to
// flushed and slides the retained context to the head of hist,
// mirroring the original tool's flush(): retain the trailing 32768
// bytes as context, move them to the buffer head, reset next.
func (c *Concrete) flush() {
	if c.wrPos <= ContextSize {
		return
	}
	evict := c.wrPos - ContextSize
	c.flushed = append(c.flushed, c.hist[:evict]...)
	copy(c.hist, c.hist[evict:c.wrPos])
	c.wrPos = ContextSize
}

func (c *Concrete) PushByte(b byte) bool {
	if !c.alphabet.contains(b) {
		return false
	}
	if c.wrPos >= len(c.hist) {
		c.flush()
	}
	c.hist[c.wrPos] = b
	c.wrPos++
	c.written++
	return true
}

// CopyMatch flushes and retries once before giving up, so a long run
// of back-references doesn't fail just because hist's fixed head
// doesn't have length more bytes of room; a genuine WindowOverflow
// (distance beyond even the retained context, or length alone wider
// than hist) is still reported as failure.
func (c *Concrete) CopyMatch(dist, length int) bool {
	if dist < 1 || dist > c.wrPos {
		return false
	}
	if c.wrPos+length > len(c.hist) {
		c.flush()
		if dist > c.wrPos || c.wrPos+length > len(c.hist) {
			return false
		}
	}
	src := c.wrPos - dist
	for i := 0; i < length; i++ {
		c.hist[c.wrPos+i] = c.hist[src+i]
	}
	c.wrPos += length
	c.written += int64(length)
	return true
}

func (c *Concrete) Len() int64 { return c.written }

func (c *Concrete) Full() bool { return c.written >= int64(c.target) }

// Bytes returns everything written so far, oldest first.
func (c *Concrete) Bytes() []byte {
	out := make([]byte, 0, len(c.flushed)+c.wrPos)
	out = append(out, c.flushed...)
	out = append(out, c.hist[:c.wrPos]...)
	return out
}

// Context returns the last ContextSize bytes produced, suitable for
// handing off to a downstream worker. Panics if fewer than
// ContextSize bytes have been written; callers check Len() first.
func (c *Concrete) Context() [ContextSize]byte {
	var ctx [ContextSize]byte
	copy(ctx[:], c.hist[c.wrPos-ContextSize:c.wrPos])
	return ctx
}
