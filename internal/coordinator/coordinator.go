// Package coordinator partitions a gzip-wrapped DEFLATE stream into
// sections, one per worker thread, and decodes them in parallel: the
// first section with a FirstChunkWorker (it already knows its
// boundary), every other section with a RandomAccessChunkWorker
// chained to its neighbors through a worker.Handoff.
//
// Grounded on the teacher's internal/compress.compressParallelWithBatch
// /decompressParallel: an errgroup.Group fans work out across workers,
// and results are collected in section order once every worker
// finishes. Unlike the teacher's streaming collector (which flushes
// compressed blocks to an io.Writer incrementally as they become
// available in order), this coordinator holds every section's output
// in memory and concatenates once all workers finish — the random-
// access decompressor inherently needs the whole compressed input
// addressable at once (see bitstream's doc comment), so there is
// nothing to stream incrementally on the way out either.
package coordinator

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync/atomic"

	kzflate "github.com/klauspost/compress/flate"
	kzgzip "github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"

	"github.com/pgunzip/pgunzip/internal/config"
	"github.com/pgunzip/pgunzip/internal/gzipheader"
	"github.com/pgunzip/pgunzip/internal/syncscan"
	"github.com/pgunzip/pgunzip/internal/window"
	"github.com/pgunzip/pgunzip/internal/worker"
)

// capacityFactor estimates decompressed size from compressed size so
// window capacities can be allocated up front; FASTQ text typically
// compresses 3-4x, so 6x leaves headroom without wildly over-allocating.
const capacityFactor = 6

// Decompress decodes the gzip member at the start of data (random
// access requires the whole compressed stream addressable at once, so
// this takes a byte slice rather than an io.Reader) using opts to
// choose how many sections to split it into. Degraded reports whether
// any section's blind sync guess disagreed with its upstream
// neighbor's authoritative boundary and had to re-decode — the result
// is still correct, but the caller may want to report it (CLI exit
// code 2, matching the original tool's warning-only status).
func Decompress(data []byte, opts config.Options) (output []byte, degraded bool, err error) {
	opts = config.Resolve(opts, int64(len(data)))
	_, payloadStart, err := gzipheader.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, false, err
	}

	if len(data) < 8 {
		return nil, false, errors.New("coordinator: input too short to contain a gzip footer")
	}
	payload := data[payloadStart : len(data)-8]

	if opts.Threads <= 1 {
		output, err = decompressSequential(data)
		return output, false, err
	}

	// StopAfterBytes is a compressed-byte offset into the whole input
	// file (the CLI's -u flag, matching -s's SkipBytes framing); convert
	// it to an offset within payload, since that's the coordinate space
	// every worker below operates in.
	var stopAfterPayloadBytes int64
	if opts.StopAfterBytes > payloadStart {
		stopAfterPayloadBytes = opts.StopAfterBytes - payloadStart
	}
	return decompressParallel(payload, opts, stopAfterPayloadBytes)
}

func decompressSequential(data []byte) ([]byte, error) {
	r, err := kzgzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// section is one worker's share of the payload, expressed as a bit
// range (sections other than the first must be scanned for their
// real starting boundary, so the range is a search window, not an
// exact block boundary).
type section struct {
	startBits int64
	endBits   int64
}

func planSections(payloadLen int, threads int, sectionBytes int64) []section {
	if sectionBytes <= 0 {
		sectionBytes = int64(payloadLen) / int64(threads)
	}
	if sectionBytes < 1 {
		sectionBytes = int64(payloadLen)
	}

	var sections []section
	var startByte int64
	for i := 0; i < threads && startByte < int64(payloadLen); i++ {
		endByte := startByte + sectionBytes
		if i == threads-1 || endByte > int64(payloadLen) {
			endByte = int64(payloadLen)
		}
		sections = append(sections, section{startBits: startByte * 8, endBits: endByte * 8})
		startByte = endByte
	}
	return sections
}

func decompressParallel(payload []byte, opts config.Options, stopAfterPayloadBytes int64) ([]byte, bool, error) {
	sections := planSections(len(payload), opts.Threads, opts.SectionBytes)
	n := len(sections)
	if n == 0 {
		return nil, false, nil
	}
	if n == 1 {
		out, err := decompressRawDeflate(payload)
		return out, false, err
	}

	handoffs := make([]*worker.Handoff, n-1)
	for i := range handoffs {
		handoffs[i] = worker.NewHandoff()
	}
	results := make([][]byte, n)
	var degraded atomic.Bool

	g, _ := errgroup.WithContext(context.Background())
	for i, sec := range sections {
		i, sec := i, sec
		g.Go(func() error {
			capacity := int(sec.endBits-sec.startBits)/8*capacityFactor + window.ContextSize
			var upstream, downstream *worker.Handoff
			if i > 0 {
				upstream = handoffs[i-1]
			}
			if i < n-1 {
				downstream = handoffs[i]
			}

			if i == 0 {
				var stopAfterBits int64
				if stopAfterPayloadBytes > 0 {
					stopAfterBits = stopAfterPayloadBytes * 8
				}
				out, _, _, err := worker.FirstChunkWorker(payload, sec.startBits, capacity, opts.ToDeflateAlphabet(), stopAfterBits, opts.StopGraceBlocks, downstream)
				if err != nil {
					return err
				}
				results[i] = out
				return nil
			}

			scanOpts := syncscan.Options{
				MinBlockBytes: opts.MinBlockBytes,
				ConfirmBlocks: opts.ConfirmBlocks,
				DummyCapacity: capacity,
				Alphabet:      opts.ToDeflateAlphabet(),
			}
			out, _, _, resynced, err := worker.RandomAccessChunkWorker(payload, sec.startBits, sec.endBits, capacity, scanOpts, upstream, downstream)
			if err != nil {
				return err
			}
			if resynced {
				degraded.Store(true)
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	var total int
	for _, r := range results {
		total += len(r)
	}
	out := make([]byte, 0, total)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, degraded.Load(), nil
}

// decompressRawDeflate decodes a bare DEFLATE payload (the gzip header
// and footer already stripped off by the caller) via klauspost's raw
// flate reader, used for the degenerate single-section case instead
// of spinning up this package's own sequential decode_loop a second
// time.
func decompressRawDeflate(payload []byte) ([]byte, error) {
	r := kzflate.NewReader(bytes.NewReader(payload))
	defer r.Close()
	return io.ReadAll(r)
}
