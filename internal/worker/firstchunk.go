package worker

import (
	"github.com/pgunzip/pgunzip/internal/bitstream"
	"github.com/pgunzip/pgunzip/internal/deflate"
	"github.com/pgunzip/pgunzip/internal/huffman"
	"github.com/pgunzip/pgunzip/internal/window"
)

// FirstChunkWorker decodes from a known-good boundary: either byte 0
// of a gzip member's DEFLATE payload, or (when chained behind another
// FirstChunkWorker in a single-threaded fallback) wherever the
// previous worker left off. It never needs to sync, and decodes
// straight into a concrete window.
//
// stopAfterBits, if positive, is a compressed-bit position the caller
// wants decoding to stop shortly after (the CLI's -u flag): once
// passed, decoding continues for graceBlocks further blocks before
// stopping at the next block boundary, rather than cutting the
// bitstream off mid-block. A non-positive stopAfterBits disables this
// and decoding runs to completion (or to final/downstream-catch-up) as
// usual.
//
// Grounded on the original tool's decompress_first_chunk: no sync
// step, a plain decompress_loop, then posting its trailing context to
// the downstream neighbor.
func FirstChunkWorker(data []byte, startBits int64, capacity int, alphabet deflate.Alphabet, stopAfterBits int64, graceBlocks int, downstream *Handoff) (output []byte, context [window.ContextSize]byte, stoppedAtBits int64, err error) {
	br := bitstream.New(data)
	br.SetPositionBits(startBits)
	tables := huffman.New()
	sink := window.NewConcrete(capacity, nil, alphabet)

	graceRemaining := -1
	for {
		final, perr := deflate.ParseBlock(br, tables, sink, deflate.MustSucceed, alphabet)
		if perr != nil {
			return nil, context, 0, perr
		}
		if stopAfterBits > 0 {
			if graceRemaining < 0 && br.PositionBits() >= stopAfterBits {
				graceRemaining = graceBlocks
			}
			if graceRemaining == 0 {
				break
			}
			if graceRemaining > 0 {
				graceRemaining--
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
		if sink.Full() {
			break
		}
	}

	stoppedAtBits = br.PositionBits()
	if sink.Len() >= window.ContextSize {
		context = sink.Context()
	} else {
		out := sink.Bytes()
		copy(context[window.ContextSize-len(out):], out)
	}
	if downstream != nil {
		downstream.PostContext(context, stoppedAtBits)
	}
	return sink.Bytes(), context, stoppedAtBits, nil
}
