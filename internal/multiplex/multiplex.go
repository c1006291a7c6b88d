// Package multiplex implements the BackrefMultiplexer: compressing a
// symbolic window's 16-bit back-reference codes down to 8-bit
// codepoints once it is known the window contains at most 126
// distinct unresolved offsets, then building the final byte-to-byte
// lookup once the real upstream context arrives.
//
// Grounded on the original tool's instr_deflate_window.hpp
// buffer_counts/backref_origins bookkeeping (see DESIGN.md).
package multiplex

import (
	"errors"
	"sort"

	"github.com/pgunzip/pgunzip/internal/window"
)

// MaxCodepoints is the largest number of distinct unresolved offsets
// this multiplexer can compress into a single byte's worth of
// codespace, reserving the remaining 256-126=130 values for resolved
// literal bytes plus headroom.
const MaxCodepoints = 126

// ErrTooManyOffsets is returned when a symbolic window references more
// distinct unresolved offsets than fit in one byte's reserved range.
var ErrTooManyOffsets = errors.New("multiplex: symbolic window references more than 126 distinct offsets")

// Multiplexer assigns each distinct unresolved back-distance in a
// symbolic window a one-byte codepoint in [129, 129+126), leaving
// [0,128] free for resolved literal byte values (the window's
// payload is ASCII, never exceeding 0x7E).
type Multiplexer struct {
	// offsetToCode maps an unresolved back-distance to its assigned
	// codepoint.
	offsetToCode map[int]byte
	codeToOffset []int
}

const codepointBase = 129

// Build scans sym for its distinct unresolved back-distances and
// assigns each a codepoint, most-frequent first so that if a caller
// ever wants to truncate to fewer codepoints the most valuable ones
// survive. Returns ErrTooManyOffsets if there are more than
// MaxCodepoints distinct offsets.
func Build(sym *window.Symbolic) (*Multiplexer, error) {
	counts := map[int]int{}
	for _, code := range sym.Symbols() {
		if !window.IsResolved(code) {
			counts[window.BackDistance(code)]++
		}
	}
	if len(counts) > MaxCodepoints {
		return nil, ErrTooManyOffsets
	}

	offsets := make([]int, 0, len(counts))
	for off := range counts {
		offsets = append(offsets, off)
	}
	sort.Slice(offsets, func(i, j int) bool {
		if counts[offsets[i]] != counts[offsets[j]] {
			return counts[offsets[i]] > counts[offsets[j]]
		}
		return offsets[i] < offsets[j]
	})

	m := &Multiplexer{
		offsetToCode: make(map[int]byte, len(offsets)),
		codeToOffset: offsets,
	}
	for i, off := range offsets {
		m.offsetToCode[off] = byte(codepointBase + i)
	}
	return m, nil
}

// Pack translates a symbolic window's codes into one byte per symbol:
// resolved bytes pass through unchanged, unresolved offsets become
// their assigned codepoint.
func (m *Multiplexer) Pack(sym *window.Symbolic) []byte {
	symbols := sym.Symbols()
	out := make([]byte, len(symbols))
	for i, code := range symbols {
		if window.IsResolved(code) {
			out[i] = byte(code)
			continue
		}
		out[i] = m.offsetToCode[window.BackDistance(code)]
	}
	return out
}

// FinalLookup builds the 256-entry byte-to-byte table that resolves
// every codepoint this multiplexer assigned into a real byte, given
// the upstream neighbor's final 32KiB context. Entries for codepoints
// never assigned, and for values below codepointBase, are the
// identity (the caller only consults entries it knows are
// multiplexed codes).
func (m *Multiplexer) FinalLookup(context [window.ContextSize]byte) [256]byte {
	var lut [256]byte
	for i := range lut {
		lut[i] = byte(i)
	}
	for off, code := range m.offsetToCode {
		lut[code] = context[window.ContextSize-off]
	}
	return lut
}

// Resolve applies FinalLookup's table to packed data in place.
func Resolve(packed []byte, lut [256]byte) {
	for i, b := range packed {
		packed[i] = lut[b]
	}
}
