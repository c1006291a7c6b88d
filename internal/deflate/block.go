// Package deflate implements the DEFLATE block parser: the state
// machine that decodes one compressed block (stored, static-Huffman,
// or dynamic-Huffman) from a bitstream.Reader into a window.Sink.
//
// Grounded on the original tool's decompress_impl.h (do_uncompressed,
// prepare_dynamic, do_block) and deflate_decompress.cpp's templated
// "might" policy, realized here as the explicit Mode argument.
package deflate

import (
	"github.com/pgunzip/pgunzip/internal/bitstream"
	"github.com/pgunzip/pgunzip/internal/huffman"
	"github.com/pgunzip/pgunzip/internal/window"
)

// blockType values from RFC 1951 §3.2.3.
const (
	blockStored  = 0
	blockStatic  = 1
	blockDynamic = 2
	blockReserved = 3
)

// Alphabet bounds the bytes a block's literals may carry. It is the
// same type window.Sink implementations check in PushByte, so a single
// configured range gates both the stored-block bulk pre-check below
// and every window's own per-byte enforcement.
type Alphabet = window.Alphabet

// DefaultAlphabet accepts tab through tilde, the printable-ASCII range
// FASTQ text is expected to stay within.
var DefaultAlphabet = window.DefaultAlphabet

// ParseBlock decodes exactly one DEFLATE block starting at br's
// current position into sink, using tables as scratch space (tables
// is overwritten: by a dynamic block's header, and by
// tables.BuildStatic() at the start of every static block — cheap,
// since it's just two table builds from fixed constants).
//
// Returns whether this was the final block in the stream, and an
// error describing why the parse failed. A ShouldFail-mode parse is
// expected to return an error most of the time; that is not logged,
// merely reported to the caller to act on.
func ParseBlock(br *bitstream.Reader, tables *huffman.Tables, sink window.Sink, mode Mode, alphabet Alphabet) (final bool, err error) {
	br.EnsureBits(3)
	final = br.PopBits(1) != 0
	btype := br.PopBits(2)

	switch btype {
	case blockStored:
		err = parseStored(br, sink, mode, alphabet)
	case blockStatic:
		tables.BuildStatic()
		err = decodeBody(br, tables, sink)
	case blockDynamic:
		if _, _, herr := readDynamicHeader(br, tables); herr != nil {
			return final, herr
		}
		err = decodeBody(br, tables, sink)
	default:
		err = ErrReservedBlockType
	}
	return final, err
}

func parseStored(br *bitstream.Reader, sink window.Sink, mode Mode, alphabet Alphabet) error {
	br.AlignInput()
	if br.Available() < 4 {
		return ErrTruncated
	}
	length := br.PopUint16()
	nlength := br.PopUint16()
	if length != ^nlength {
		return ErrBadStoredLength
	}
	if br.Available() < int(length) {
		return ErrTruncated
	}
	if mode.validatesASCII() && !br.CheckASCII(int(length), alphabet.Lo, alphabet.Hi) {
		return ErrNonASCIIPayload
	}
	buf := make([]byte, length)
	br.Copy(buf)
	for _, b := range buf {
		if !sink.PushByte(b) {
			return ErrNonASCIIPayload
		}
	}
	return nil
}

// decodeBody runs the Huffman decode loop shared by static and
// dynamic blocks once their tables are built.
func decodeBody(br *bitstream.Reader, tables *huffman.Tables, sink window.Sink) error {
	for {
		entry, sym := tables.LitLenEntry(br)
		br.RemoveBits(entry.Length())

		if sym == 256 {
			return nil
		}
		if entry.Literal() {
			if !sink.PushByte(entry.LiteralByte()) {
				return ErrNonASCIIPayload
			}
			continue
		}
		_ = sym // always -1 here: literal and end-of-block are handled above

		base, extra := entry.LengthBaseAndExtra()
		br.EnsureBits(extra)
		length := int(base) + int(br.PopBits(extra))

		offEntry := tables.OffsetEntry(br)
		br.RemoveBits(offEntry.Length())
		obase, oextra := offEntry.OffsetBaseAndExtra()
		br.EnsureBits(oextra)
		dist := int(obase) + int(br.PopBits(oextra))

		if !sink.CopyMatch(dist, length) {
			return ErrInvalidDistance
		}
	}
}
