// Package window implements the sliding-window family a DEFLATE block
// parser writes its decoded output into: a concrete window holding
// real bytes, a symbolic window that can represent back-references
// into a not-yet-known 32KiB context, and a dummy window that only
// counts what a speculative parse would have produced.
//
// Grounded on the ring-buffer mechanics of a forked standard-library
// flate dict_decoder (see DESIGN.md) and on the original tool's
// deflate_window.hpp/instr_deflate_window.hpp for the symbolic
// variant's unresolved back-reference encoding.
package window

// ContextSize is the size of the context a window hands off to its
// downstream neighbor: the last 32768 bytes it produced, the maximum
// distance a DEFLATE back-reference can reach.
const ContextSize = 32768

// Alphabet bounds the literal byte values a window will accept through
// PushByte. A push outside [Lo, Hi] is rejected rather than stored,
// which is how a speculative parse through the wrong bit position gets
// caught: garbled Huffman output drifts outside the narrow byte range
// real payload text is known to stay within.
type Alphabet struct{ Lo, Hi byte }

// DefaultAlphabet accepts tab through tilde, the printable-ASCII range
// FASTQ text is expected to stay within.
var DefaultAlphabet = Alphabet{Lo: '\t', Hi: '~'}

func (a Alphabet) contains(b byte) bool { return b >= a.Lo && b <= a.Hi }

// Sink is what a block parser writes decoded output into. All three
// window variants implement it, so the parser is written once and
// reused for first-chunk decoding, random-access decoding, and blind
// sync scanning alike.
type Sink interface {
	// PushByte appends one resolved literal byte. Returns false if c
	// falls outside the window's configured Alphabet, which the caller
	// treats as corrupt input (or, during a speculative parse, as
	// grounds to reject the candidate).
	PushByte(c byte) bool
	// CopyMatch appends a length-byte back-reference at distance dist
	// (1 <= dist <= 32768). Returns false if dist is not yet
	// satisfiable (farther back than anything ever written or
	// available from context), which the caller treats as corrupt
	// input. Unlike PushByte, a match's bytes are not re-validated
	// against the alphabet: they were already checked when first
	// pushed.
	CopyMatch(dist, length int) bool
	// Len is the number of bytes produced so far.
	Len() int64
	// Full reports whether the sink has reached its configured
	// capacity; the chunk workers stop decoding once it does.
	Full() bool
}
