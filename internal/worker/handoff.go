// Package worker implements the two chunk-worker variants
// (FirstChunkWorker and RandomAccessChunkWorker) and the handoff
// rendezvous between adjacent workers.
//
// Grounded on the original tool's common/synchronizer.hpp (the
// upstream/downstream signaling protocol) and
// lib/deflate_decompress.cpp's decompress_first_chunk/decompress_chunks
// (see DESIGN.md).
package worker

import (
	"sync"

	"github.com/pgunzip/pgunzip/internal/window"
)

// Handoff is the rendezvous point between a worker and its downstream
// neighbor. Two things cross it, in opposite directions:
//
//  1. The downstream neighbor's own blind-sync guess at where its
//     section's first real block begins, reported upstream so the
//     upstream worker knows when it has decoded far enough to stop.
//  2. The upstream worker's authoritative stopping position and its
//     trailing 32KiB context, reported downstream once decoding
//     finishes, so the downstream worker can resolve any symbolic
//     back-references it had to guess at and can tell whether its own
//     guess agreed with the upstream's authoritative answer.
//
// Realized with a Mutex+Cond rather than a channel because the
// "stays borrowed until released" lifecycle the original describes
// needs explicit handshaking in both directions, not a one-shot send;
// in Go the context crosses by value (a fixed-size array copy), so
// there is no actual memory to keep borrowed the way the original's
// raw pointer required, and Handoff has no release step.
type Handoff struct {
	mu   sync.Mutex
	cond *sync.Cond

	guessSet bool
	guessPos int64

	contextSet bool
	context    [window.ContextSize]byte
	boundary   int64
}

func NewHandoff() *Handoff {
	h := &Handoff{}
	h.cond = sync.NewCond(&h.mu)
	return h
}

// ReportSyncGuess is called once by the downstream worker after its
// own blind sync scan, to tell the upstream worker where it believes
// the boundary between their two sections actually falls.
func (h *Handoff) ReportSyncGuess(pos int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.guessPos = pos
	h.guessSet = true
	h.cond.Broadcast()
}

// PeekSyncGuess non-blockingly reports whether the downstream worker
// has reported its guess yet, so the upstream worker's decode loop
// can keep making progress while waiting rather than blocking.
func (h *Handoff) PeekSyncGuess() (pos int64, ready bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.guessPos, h.guessSet
}

// PostContext is called once by the upstream worker once it has
// stopped decoding, with the bit position it actually stopped at and
// its trailing context.
func (h *Handoff) PostContext(context [window.ContextSize]byte, boundary int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.context = context
	h.boundary = boundary
	h.contextSet = true
	h.cond.Broadcast()
}

// WaitContext blocks until the upstream worker has posted its
// context, then returns it along with the authoritative boundary
// position.
func (h *Handoff) WaitContext() (context [window.ContextSize]byte, boundary int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for !h.contextSet {
		h.cond.Wait()
	}
	return h.context, h.boundary
}
