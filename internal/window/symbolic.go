package window

// unresolvedBase is the first symbolic code that denotes an
// unresolved back-reference rather than a literal byte value. Using
// 256 (rather than the original tool's MAX_ASCII+1) keeps the
// encoding correct for any byte value, not just the printable ASCII
// range the sync scanner additionally validates at the bitstream
// layer.
const unresolvedBase = 256

// Symbolic is a sliding window a RandomAccessChunkWorker decodes into
// before it has received its upstream neighbor's real 32KiB context.
// Codes in [0,255] are resolved literal bytes; a code in
// [257, 256+32768] encodes "this byte is (code-unresolvedBase) bytes
// before the start of my own output, inside whatever context my
// upstream neighbor eventually hands me" — see BackDistance.
type Symbolic struct {
	hist     []uint16
	wrPos    int
	written  int64
	alphabet Alphabet

	// OnMatch, if set, is called after every successful CopyMatch with
	// the match's length and distance, mirroring the original tool's
	// instrumented window used to decide whether compressing the
	// window's back-references is worthwhile.
	OnMatch func(length, dist int)
}

// NewSymbolic returns a Symbolic window with room for capacity codes.
// PushByte rejects any byte outside alphabet.
func NewSymbolic(capacity int, alphabet Alphabet) *Symbolic {
	return &Symbolic{hist: make([]uint16, capacity), alphabet: alphabet}
}

func (s *Symbolic) PushByte(b byte) bool {
	if !s.alphabet.contains(b) {
		return false
	}
	s.hist[s.wrPos] = uint16(b)
	s.wrPos++
	s.written++
	return true
}

func (s *Symbolic) CopyMatch(dist, length int) bool {
	if dist < 1 || dist > ContextSize {
		return false
	}
	if s.wrPos+length > len(s.hist) {
		return false
	}
	for i := 0; i < length; i++ {
		srcAbsPos := s.wrPos - dist + i
		if srcAbsPos < 0 {
			backDistance := -srcAbsPos
			s.hist[s.wrPos+i] = unresolvedBase + uint16(backDistance)
		} else {
			s.hist[s.wrPos+i] = s.hist[srcAbsPos]
		}
	}
	s.wrPos += length
	s.written += int64(length)
	if s.OnMatch != nil {
		s.OnMatch(length, dist)
	}
	return true
}

func (s *Symbolic) Len() int64 { return s.written }

func (s *Symbolic) Full() bool { return s.wrPos >= len(s.hist) }

// Symbols returns every code produced so far, oldest first.
func (s *Symbolic) Symbols() []uint16 { return s.hist[:s.wrPos] }

// IsResolved reports whether code is a literal byte value rather than
// an unresolved back-reference.
func IsResolved(code uint16) bool { return code < unresolvedBase }

// BackDistance returns how many bytes before the window's own start
// an unresolved code refers to. Only valid when !IsResolved(code).
func BackDistance(code uint16) int { return int(code - unresolvedBase) }

// Resolve translates every symbol into a real byte, given the
// upstream neighbor's final 32KiB context: resolved codes pass
// through, unresolved codes are looked up at
// context[ContextSize-backDistance].
func (s *Symbolic) Resolve(context [ContextSize]byte) []byte {
	out := make([]byte, s.wrPos)
	for i, code := range s.hist[:s.wrPos] {
		if IsResolved(code) {
			out[i] = byte(code)
			continue
		}
		out[i] = context[ContextSize-BackDistance(code)]
	}
	return out
}

// UnresolvedCount returns how many distinct unresolved back-references
// the window holds, which is how many codepoints a BackrefMultiplexer
// built from it needs.
func (s *Symbolic) UnresolvedCount() int {
	seen := make(map[uint16]bool)
	for _, code := range s.hist[:s.wrPos] {
		if !IsResolved(code) {
			seen[code] = true
		}
	}
	return len(seen)
}
