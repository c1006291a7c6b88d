package worker

import (
	"github.com/pgunzip/pgunzip/internal/bitstream"
	"github.com/pgunzip/pgunzip/internal/deflate"
	"github.com/pgunzip/pgunzip/internal/huffman"
	"github.com/pgunzip/pgunzip/internal/multiplex"
	"github.com/pgunzip/pgunzip/internal/syncscan"
	"github.com/pgunzip/pgunzip/internal/window"
)

// multiplexAfterBlocks is how many blocks a speculative decode runs
// into a 16-bit symbolic window before it first attempts to compress
// that window down to 8-bit codepoints, per spec's "after a small
// number of blocks (e.g. 8)" guidance.
const multiplexAfterBlocks = 8

// speculativeResult is whichever window representation a speculative
// decode ended up in: the 16-bit symbolic window it always starts
// with, or the 8-bit narrow window it switches to once the
// BackrefMultiplexer compresses away the need for 16-bit codes.
type speculativeResult struct {
	sym    *window.Symbolic
	narrow *multiplex.NarrowWindow
	mult   *multiplex.Multiplexer
}

func (r speculativeResult) full() bool {
	if r.narrow != nil {
		return r.narrow.Full()
	}
	return r.sym.Full()
}

func (r speculativeResult) resolve(context [window.ContextSize]byte) []byte {
	if r.narrow != nil {
		return r.narrow.Resolve(r.mult.FinalLookup(context))
	}
	return r.sym.Resolve(context)
}

// RandomAccessChunkWorker decodes a section whose true start is
// unknown: it blind-syncs to find a candidate block boundary, reports
// that guess to its upstream neighbor, decodes speculatively into a
// symbolic window while the upstream neighbor is still working, then
// resolves its output once the upstream neighbor's real context
// arrives.
//
// If the upstream neighbor's authoritative boundary disagrees with
// this worker's own guess, this worker re-syncs exactly at the
// authoritative position and re-decodes from there — the
// "conservative strategy" for the sync scanner's occasional false
// positives.
//
// Grounded on the original tool's decompress_chunks: do_skip to find
// a boundary, signal_first_decoded_sequence to the upstream neighbor,
// a decompress_loop racing to catch up with the downstream neighbor,
// then translating the symbolic window's back-references into real
// bytes once prev_sync->with_context fires.
func RandomAccessChunkWorker(data []byte, sectionStartBits, sectionEndBits int64, capacity int, scanOpts syncscan.Options, upstream, downstream *Handoff) (output []byte, context [window.ContextSize]byte, stoppedAtBits int64, resynced bool, err error) {
	scanPos, err := syncscan.Scan(data, sectionStartBits, sectionEndBits-sectionStartBits, scanOpts)
	if err != nil {
		return nil, context, 0, false, err
	}
	upstream.ReportSyncGuess(scanPos)

	result, stopPos := decodeSpeculative(data, scanPos, capacity, scanOpts.Alphabet, downstream)

	upstreamContext, authoritativeBoundary := upstream.WaitContext()
	if authoritativeBoundary != scanPos {
		resynced = true
		result, stopPos = decodeSpeculative(data, authoritativeBoundary, capacity, scanOpts.Alphabet, downstream)
	}

	resolved := result.resolve(upstreamContext)
	stoppedAtBits = stopPos

	if len(resolved) >= window.ContextSize {
		copy(context[:], resolved[len(resolved)-window.ContextSize:])
	} else {
		// Not enough output of our own yet to hand a full context
		// downstream; splice the tail of the upstream context with
		// what little we produced, matching the original's
		// clone_context behavior for short chunks.
		copy(context[:], upstreamContext[len(resolved):])
		copy(context[window.ContextSize-len(resolved):], resolved)
	}
	if downstream != nil {
		downstream.PostContext(context, stoppedAtBits)
	}
	return resolved, context, stoppedAtBits, resynced, nil
}

// decodeSpeculative decodes from startBits into a fresh symbolic
// window until either the stream's final block or the downstream
// neighbor's reported catch-up point. After multiplexAfterBlocks
// blocks it attempts BackrefMultiplexer.Build on what it has decoded
// so far; on success the rest of the section decodes into the cheaper
// 8-bit narrow window instead. A window that already references more
// than 126 distinct unresolved offsets can't be compressed, and the
// whole section stays in the 16-bit representation.
func decodeSpeculative(data []byte, startBits int64, capacity int, alphabet deflate.Alphabet, downstream *Handoff) (speculativeResult, int64) {
	br := bitstream.New(data)
	br.SetPositionBits(startBits)
	tables := huffman.New()
	sym := window.NewSymbolic(capacity, alphabet)
	result := speculativeResult{sym: sym}

	blocks := 0
	triedMultiplex := false
	for {
		var sink window.Sink = sym
		if result.narrow != nil {
			sink = result.narrow
		}

		final, perr := deflate.ParseBlock(br, tables, sink, deflate.MustSucceed, alphabet)
		if perr != nil {
			break
		}
		blocks++

		if !triedMultiplex && blocks >= multiplexAfterBlocks {
			triedMultiplex = true
			if m, merr := multiplex.Build(sym); merr == nil {
				packed := m.Pack(sym)
				result.narrow = multiplex.NewNarrowWindow(packed, capacity, alphabet)
				result.mult = m
				result.sym = nil
			}
		}

		if final {
			break
		}
		if downstream != nil {
			if guess, ready := downstream.PeekSyncGuess(); ready && br.PositionBits() >= guess {
				break
			}
		}
		if result.full() {
			break
		}
	}
	return result, br.PositionBits()
}
