// Package huffman builds canonical-Huffman decode tables for DEFLATE's
// three alphabets (precode, literal/length, offset): a main lookup table
// plus subtable indirection for codewords too long to fit the main
// table's index width.
package huffman

// Entry is a packed 32-bit decode table slot:
//
//	bits  0-7  : codeword length (main-table entries) or, for a
//	             subtable-pointer entry, the number of extra bits the
//	             caller must consume before re-indexing into the subtable.
//	bit   30   : literal flag, set only in the litlen table.
//	bit   31   : subtable-pointer flag.
//	bits  8-29 : payload — a literal byte, a packed (length_base,
//	             extra_length_bits) pair, a packed (offset_base,
//	             extra_offset_bits) pair, or (for a subtable pointer) the
//	             subtable's start offset in the same backing array.
type Entry uint32

const (
	lengthMask      = 0xFF
	resultShift     = 8
	literalFlag     = Entry(1) << 30
	subtablePtrFlag = Entry(1) << 31

	// Match payload layout (litlen non-literal and offset entries share
	// this shape, with different field widths for the base).
	extraLengthBitsMask = 0x1F // length symbols need at most 5 extra bits
	lengthBaseShift      = 5

	offsetBaseMask          = 0x7FFF // offset bases fit in 15 bits
	extraOffsetBitsShift     = 15
)

// Length reports the number of bits the caller must RemoveBits by after
// consuming this entry (main-table codeword length, or a subtable's
// index width if SubtablePointer is set).
func (e Entry) Length() uint32 { return uint32(e) & lengthMask }

func (e Entry) SubtablePointer() bool { return e&subtablePtrFlag != 0 }

func (e Entry) Literal() bool { return e&literalFlag != 0 }

// payloadMask isolates bits 8-29 once Payload has already shifted them
// down to bits 0-21; needed because the literal/subtable-pointer flags
// (bits 30-31) land just above the payload once shifted and must not
// leak into it.
const payloadMask = (1 << 22) - 1

// Payload returns the bits 8-29 payload, shifted down.
func (e Entry) Payload() uint32 { return (uint32(e) >> resultShift) & payloadMask }

// SubtableStart returns the start offset of the subtable a
// subtable-pointer entry refers to.
func (e Entry) SubtableStart() uint32 { return e.Payload() }

// LiteralByte returns the literal value of a literal entry.
func (e Entry) LiteralByte() byte { return byte(e.Payload()) }

// LengthBaseAndExtra decodes a litlen match entry's payload into the
// base length and the number of extra bits to pop and add to it.
func (e Entry) LengthBaseAndExtra() (base uint32, extraBits uint32) {
	p := e.Payload()
	return p >> lengthBaseShift, p & extraLengthBitsMask
}

// OffsetBaseAndExtra decodes an offset table entry's payload into the
// base offset and the number of extra bits to pop and add to it.
func (e Entry) OffsetBaseAndExtra() (base uint32, extraBits uint32) {
	p := e.Payload()
	return p & offsetBaseMask, p >> extraOffsetBitsShift
}

func newLiteralEntry(length uint32, lit byte) Entry {
	return Entry(length) | literalFlag | Entry(lit)<<resultShift
}

func newLengthEntry(length uint32, lengthBase uint32, extraBits uint32) Entry {
	payload := lengthBase<<lengthBaseShift | extraBits
	return Entry(length) | Entry(payload)<<resultShift
}

func newOffsetEntry(length uint32, offsetBase uint32, extraBits uint32) Entry {
	payload := offsetBase&offsetBaseMask | extraBits<<extraOffsetBitsShift
	return Entry(length) | Entry(payload)<<resultShift
}

func newPrecodeEntry(length uint32, sym byte) Entry {
	return Entry(length) | Entry(sym)<<resultShift
}

func newSubtablePointer(extraBits uint32, subtableStart uint32) Entry {
	return Entry(extraBits) | subtablePtrFlag | Entry(subtableStart)<<resultShift
}

// Table sizes, per DEFLATE's fixed alphabets (spec.md §3).
const (
	MaxLitLenSyms  = 288
	MaxOffsetSyms  = 32
	MaxPrecodeSyms = 19

	MaxLitLenCodeLen  = 15
	MaxOffsetCodeLen  = 15
	MaxPrecodeCodeLen = 7

	PrecodeTableBits = 7
	LitLenTableBits  = 10
	OffsetTableBits  = 8

	// Overflow headroom so the main table's stride-fill never runs past
	// the end of the backing array once subtables are appended.
	precodeTableSize = 1 << PrecodeTableBits
	litlenTableSize  = (1 << LitLenTableBits) + 310
	offsetTableSize  = (1 << OffsetTableBits) + 146
)

// lengthBaseTable and lengthExtraBits give the base match length and
// extra-bit count for litlen symbols 257..285, per RFC 1951 §3.2.5.
var lengthBaseTable = [29]uint32{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13,
	15, 17, 19, 23, 27, 31, 35, 43, 51, 59,
	67, 83, 99, 115, 131, 163, 195, 227, 258,
}
var lengthExtraBits = [29]uint32{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1,
	1, 1, 2, 2, 2, 2, 3, 3, 3, 3,
	4, 4, 4, 4, 5, 5, 5, 5, 0,
}

// offsetBaseTable and offsetExtraBits give the base offset and extra-bit
// count for offset symbols 0..29, per RFC 1951 §3.2.5.
var offsetBaseTable = [30]uint32{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25,
	33, 49, 65, 97, 129, 193, 257, 385, 513, 769,
	1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}
var offsetExtraBits = [30]uint32{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3,
	4, 4, 5, 5, 6, 6, 7, 7, 8, 8,
	9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// precodeLensPermutation is the fixed order in which a dynamic Huffman
// block's precode codeword lengths are transmitted (RFC 1951 §3.2.7).
var precodeLensPermutation = [19]byte{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

// PrecodeLensPermutation exposes the fixed transmission order to the
// block parser's dynamic-header reader.
func PrecodeLensPermutation() [19]byte { return precodeLensPermutation }
