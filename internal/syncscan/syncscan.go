// Package syncscan implements the blind synchronization scanner: a
// bit-by-bit search for a DEFLATE block boundary in a byte range whose
// true boundaries are unknown, using speculative parses as a
// probabilistic oracle and a run of further successful parses to
// confirm a candidate before accepting it.
//
// Grounded on the original tool's do_skip<Window> (see DESIGN.md):
// the scanner tries ShouldFail parses at increasing bit positions
// until one produces enough decoded output, then switches to
// ShouldSucceed parses to rule out a false positive before accepting
// the first position that survives confirmation.
package syncscan

import (
	"errors"

	"github.com/pgunzip/pgunzip/internal/bitstream"
	"github.com/pgunzip/pgunzip/internal/deflate"
	"github.com/pgunzip/pgunzip/internal/huffman"
	"github.com/pgunzip/pgunzip/internal/window"
)

// ErrNoSync is returned when no bit position within the scan range
// produced a confirmed block boundary.
var ErrNoSync = errors.New("syncscan: no valid block boundary found in range")

// maxBlocksPerCandidate bounds how many blocks in a row a single
// candidate position is allowed to decode while still under
// MinBlockBytes, so a candidate that happens to parse as an endless
// run of tiny (but individually valid) blocks doesn't stall the scan.
const maxBlocksPerCandidate = 64

// Options configures a scan.
type Options struct {
	// MinBlockBytes is how much decoded output a candidate must
	// produce before it is considered promising enough to confirm.
	MinBlockBytes int
	// ConfirmBlocks is how many additional blocks, beyond the
	// candidate's own, must parse successfully before the candidate is
	// accepted.
	ConfirmBlocks int
	// DummyCapacity is the capacity given to the window.Dummy a
	// candidate's speculative parses count into. Scan does not consult
	// the Dummy's Full, so this does not cap how much a candidate's
	// parse run produces.
	DummyCapacity int
	Alphabet      deflate.Alphabet
}

// Scan searches data for a confirmed block boundary at a bit position
// in [startBits, startBits+rangeBits), returning the first such
// position found.
func Scan(data []byte, startBits, rangeBits int64, opts Options) (int64, error) {
	end := startBits + rangeBits
	for pos := startBits; pos < end; pos++ {
		if bfinal, ok := peekBFinal(data, pos); ok && bfinal {
			// A position immediately preceding the stream's own final
			// block is implausible as a section boundary (sections sit
			// in the middle of a much larger stream); skip the full
			// speculative parse for it.
			continue
		}
		if ok := tryCandidate(data, pos, opts); ok {
			return pos, nil
		}
	}
	return 0, ErrNoSync
}

// peekBFinal reads the single BFINAL bit a block at pos would start
// with, without constructing a Reader: bit pos of the stream is bit
// (pos&7) of byte data[pos>>3], least-significant-bit first.
func peekBFinal(data []byte, pos int64) (bfinal bool, ok bool) {
	idx := pos >> 3
	if idx < 0 || int(idx) >= len(data) {
		return false, false
	}
	return (data[idx]>>(uint(pos)&7))&1 != 0, true
}

// tryCandidate attempts to decode enough from pos to call it
// promising, then confirms it with further successful parses.
func tryCandidate(data []byte, pos int64, opts Options) bool {
	br := bitstream.New(data)
	br.SetPositionBits(pos)
	tables := huffman.New()
	dummy := window.NewDummy(opts.DummyCapacity, opts.Alphabet)

	promising := false
	for i := 0; i < maxBlocksPerCandidate; i++ {
		final, err := deflate.ParseBlock(br, tables, dummy, deflate.ShouldFail, opts.Alphabet)
		if err != nil {
			return false
		}
		if dummy.Len() >= int64(opts.MinBlockBytes) {
			promising = true
			break
		}
		if final {
			// Ran out of stream before reaching the threshold; a tiny
			// final block at the very end of the file is a legitimate
			// boundary, and no further blocks follow it to confirm
			// against, so accept the candidate.
			return true
		}
	}
	if !promising {
		return false
	}

	for i := 0; i < opts.ConfirmBlocks; i++ {
		final, err := deflate.ParseBlock(br, tables, dummy, deflate.ShouldSucceed, opts.Alphabet)
		if err != nil {
			return false
		}
		if final {
			// The confirmation run reached the stream's actual end; a
			// candidate near the true tail of the input can't produce
			// ConfirmBlocks more blocks to parse, but running out of
			// stream this way is success, not a reason to keep calling
			// ParseBlock past it.
			return true
		}
	}
	return true
}
