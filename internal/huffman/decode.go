package huffman

import "github.com/pgunzip/pgunzip/internal/bitstream"

// Tables holds the three decode tables needed to parse one dynamic (or
// static) DEFLATE block: precode codeword lengths are only used while
// decoding a dynamic block's header, litlen and offset decode the block
// body itself.
type Tables struct {
	precode [precodeTableSize]Entry
	litlen  [litlenTableSize]Entry
	offset  [offsetTableSize]Entry

	litlenUsed int
	offsetUsed int
}

// BuildPrecode constructs the precode decode table from the 19 codeword
// lengths transmitted at the start of a dynamic block's header.
func (t *Tables) BuildPrecode(lens [MaxPrecodeSyms]uint8) bool {
	_, ok := buildDecodeTable(t.precode[:], lens[:], MaxPrecodeSyms, PrecodeTableBits, MaxPrecodeCodeLen,
		func(sym int, length uint32) Entry { return newPrecodeEntry(length, byte(sym)) })
	return ok
}

// BuildLitLen constructs the literal/length decode table. numSyms is
// the number of symbols actually transmitted (257 + HLIT for a dynamic
// block, or 288 for the fixed tree).
func (t *Tables) BuildLitLen(lens []uint8, numSyms int) bool {
	used, ok := buildDecodeTable(t.litlen[:], lens, numSyms, LitLenTableBits, MaxLitLenCodeLen, litlenPayload)
	t.litlenUsed = used
	return ok
}

// BuildOffset constructs the offset decode table. numSyms is the
// number of symbols actually transmitted (1 + HDIST for a dynamic
// block, or 32 for the fixed tree).
func (t *Tables) BuildOffset(lens []uint8, numSyms int) bool {
	used, ok := buildDecodeTable(t.offset[:], lens, numSyms, OffsetTableBits, MaxOffsetCodeLen, offsetPayload)
	t.offsetUsed = used
	return ok
}

func litlenPayload(sym int, length uint32) Entry {
	if sym < 256 {
		return newLiteralEntry(length, byte(sym))
	}
	if sym == 256 {
		// End-of-block: a match entry with base 0, a value no real
		// length symbol ever uses, so litlenSymbolOf can recognize it.
		return newLengthEntry(length, 0, 0)
	}
	i := sym - 257
	if i >= len(lengthBaseTable) {
		// Reserved symbols 286 and 287 still get codes in the fixed
		// tree; they decode like symbol 285 (length 258).
		i = len(lengthBaseTable) - 1
	}
	return newLengthEntry(length, lengthBaseTable[i], lengthExtraBits[i])
}

func offsetPayload(sym int, length uint32) Entry {
	if sym >= len(offsetBaseTable) {
		// Reserved symbols 30 and 31 decode as distance 0, which every
		// window.Sink rejects.
		return newOffsetEntry(length, 0, 0)
	}
	return newOffsetEntry(length, offsetBaseTable[sym], offsetExtraBits[sym])
}

// PrecodeSymbol decodes one precode symbol (0..18) from br, consuming
// PrecodeTableBits at most (the precode table never needs a subtable:
// its codewords are at most 7 bits and its table is 7 bits wide).
func (t *Tables) PrecodeSymbol(br *bitstream.Reader) byte {
	br.EnsureBits(PrecodeTableBits)
	e := t.precode[br.Bits(PrecodeTableBits)]
	br.RemoveBits(e.Length())
	return byte(e.Payload())
}

// LitLenEntry decodes one literal/length entry from br, resolving
// subtable indirection if needed. The caller still owns RemoveBits for
// the final entry's Length(), since the entry may encode a literal, a
// match, or end-of-block and the removal must happen after the caller
// has read whichever fields it needs (this mirrors the main decode
// loop's combined end-of-block/overflow check in the block parser).
func (t *Tables) LitLenEntry(br *bitstream.Reader) (entry Entry, symbol int) {
	br.EnsureBits(LitLenTableBits)
	e := t.litlen[br.Bits(LitLenTableBits)]
	if e.SubtablePointer() {
		br.RemoveBits(LitLenTableBits)
		br.EnsureBits(e.Length())
		e = t.litlen[e.SubtableStart()+br.Bits(e.Length())]
	}
	return e, litlenSymbolOf(e)
}

// OffsetEntry decodes one offset entry from br, resolving subtable
// indirection if needed.
func (t *Tables) OffsetEntry(br *bitstream.Reader) Entry {
	br.EnsureBits(OffsetTableBits)
	e := t.offset[br.Bits(OffsetTableBits)]
	if e.SubtablePointer() {
		br.RemoveBits(OffsetTableBits)
		br.EnsureBits(e.Length())
		e = t.offset[e.SubtableStart()+br.Bits(e.Length())]
	}
	return e
}

// litlenSymbolOf recovers the decoded symbol from a litlen entry: a
// literal byte value, 256 for end-of-block, or -1 for a real match
// (whose length the caller decodes separately via
// LengthBaseAndExtra). No real match entry has base 0, so the
// all-zero payload litlenPayload gives symbol 256 is unambiguous.
func litlenSymbolOf(e Entry) int {
	if e.Literal() {
		return int(e.LiteralByte())
	}
	base, extra := e.LengthBaseAndExtra()
	if base == 0 && extra == 0 {
		return 256
	}
	return -1
}
