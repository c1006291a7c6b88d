// Package config resolves run options shared by the coordinator and
// the CLI, the way the teacher's compress.Options/DecompressOptions
// resolve a worker count from runtime.NumCPU().
package config

import (
	"runtime"

	"github.com/pgunzip/pgunzip/internal/deflate"
)

// minBytesPerThread is the smallest compressed-input size this tool
// will split across more than one thread; below it, the overhead of
// blind-syncing a second worker isn't worth it and the coordinator
// falls back to a single sequential pass.
const minBytesPerThread = 32 << 20 // 32 MiB

// stopGraceBlocks is how many extra blocks a FirstChunkWorker decodes
// past StopAfterBytes before actually stopping, matching the original
// CLI's -u semantics: the requested cutoff is a compressed-byte
// position, not a block boundary, so decoding continues until the
// next convenient stopping point past it.
const stopGraceBlocks = 20

// AsciiRange bounds the byte values FASTQ payload text is expected to
// stay within. Parameterized rather than hardcoded so a caller can
// widen or narrow it without touching the decoder.
type AsciiRange struct{ Lo, Hi byte }

// Options is a fully resolved set of run parameters.
type Options struct {
	Threads        int
	SkipBytes      int64
	StopAfterBytes int64
	StopGraceBlocks int
	Alphabet       AsciiRange
	MinBlockBytes  int
	ConfirmBlocks  int
	SectionBytes   int64
}

// Default returns the options a plain invocation with no flags
// resolves to for a stream of fileSize compressed bytes.
func Default(fileSize int64) Options {
	return Resolve(Options{}, fileSize)
}

// Resolve fills in zero-valued fields of want with defaults scaled to
// fileSize, leaving any field the caller already set untouched.
func Resolve(want Options, fileSize int64) Options {
	out := want

	if out.Threads == 0 {
		out.Threads = runtime.NumCPU()
		if fileSize < minBytesPerThread {
			out.Threads = 1
		}
	}
	if out.Threads < 1 {
		out.Threads = 1
	}

	if out.Alphabet == (AsciiRange{}) {
		out.Alphabet = AsciiRange{Lo: deflate.DefaultAlphabet.Lo, Hi: deflate.DefaultAlphabet.Hi}
	}
	if out.MinBlockBytes == 0 {
		out.MinBlockBytes = 1 << 16 // 64 KiB: comfortably past one window's worth of context
	}
	if out.ConfirmBlocks == 0 {
		out.ConfirmBlocks = 2
	}
	if out.StopGraceBlocks == 0 {
		out.StopGraceBlocks = stopGraceBlocks
	}
	if out.SectionBytes == 0 {
		out.SectionBytes = fileSize / int64(out.Threads)
		if out.SectionBytes < 1 {
			out.SectionBytes = fileSize
		}
	}
	return out
}

// ToDeflateAlphabet converts the resolved alphabet into the form
// internal/deflate expects.
func (o Options) ToDeflateAlphabet() deflate.Alphabet {
	return deflate.Alphabet{Lo: o.Alphabet.Lo, Hi: o.Alphabet.Hi}
}
