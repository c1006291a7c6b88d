package window

// Dummy counts what a speculative block parse would have produced
// without materializing any of it, so the blind sync scanner can
// judge a candidate bit position (decoded enough bytes?) at a fraction
// of the cost of a real decode.
//
// It still validates that a match's distance is within the 32768-byte
// range DEFLATE allows, since a scan that never notices an
// out-of-range distance would accept far more false positives than
// one that does.
type Dummy struct {
	capacity int
	written  int64
	alphabet Alphabet
}

// NewDummy returns a Dummy window that considers itself Full once it
// would have produced capacity bytes. PushByte rejects any byte
// outside alphabet.
func NewDummy(capacity int, alphabet Alphabet) *Dummy {
	return &Dummy{capacity: capacity, alphabet: alphabet}
}

func (d *Dummy) PushByte(c byte) bool {
	if !d.alphabet.contains(c) {
		return false
	}
	d.written++
	return true
}

func (d *Dummy) CopyMatch(dist, length int) bool {
	if dist < 1 || dist > ContextSize {
		return false
	}
	d.written += int64(length)
	return true
}

func (d *Dummy) Len() int64 { return d.written }

func (d *Dummy) Full() bool { return d.written >= int64(d.capacity) }
