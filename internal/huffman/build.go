package huffman

// buildResult is the outcome of attempting to build a canonical decode
// table from a set of codeword lengths.
type buildResult int

const (
	buildOK buildResult = iota
	buildBadKraftSum
)

// payloadFunc returns the packed entry for symbol sym, given its
// codeword length. buildDecodeTable calls it once per symbol with a
// nonzero length: first, in symbol order, for codewords that fit the
// main table, then, in symbol order, for those that go to subtables.
type payloadFunc func(sym int, length uint32) Entry

// buildDecodeTable builds a two-level canonical-Huffman decode table
// into dst (which must already be sized for numSyms symbols plus
// subtable overflow room) from the codeword lengths in lens.
//
// The construction follows the standard five steps: histogram the
// lengths, check the Kraft equality (with the empty-code and
// single-symbol exceptions DEFLATE allows for the two fixed trees),
// assign canonical codes in (length, symbol) order, then walk that
// order filling the main table directly for codewords that fit in
// tableBits, or a subtable otherwise.
//
// Returns the number of uint32 cells of dst actually used (so the
// caller can size a Huffman table instance that embeds several
// alphabets back to back) and whether the lengths were valid.
func buildDecodeTable(dst []Entry, lens []uint8, numSyms int, tableBits uint8, maxLen uint8, makeEntry payloadFunc) (used int, ok bool) {
	var lenCount [MaxLitLenCodeLen + 2]int
	for _, l := range lens[:numSyms] {
		lenCount[l]++
	}

	numCodes := numSyms - lenCount[0]
	if numCodes == 0 {
		// Empty code: every symbol has length 0. Valid only as a
		// degenerate precode/offset table that will never be indexed;
		// fill the whole main table with a harmless zero-length entry
		// for symbol 0 so an accidental lookup doesn't panic.
		for i := range dst[:1<<tableBits] {
			dst[i] = makeEntry(0, 0)
		}
		return 1 << tableBits, true
	}

	if numCodes == 1 {
		// Single-symbol exception: DEFLATE allows a tree with exactly
		// one codeword of length 1, even though Kraft's equality would
		// demand two. Assign it code 0 and fill every main table slot.
		sym := 0
		for s, l := range lens[:numSyms] {
			if l != 0 {
				sym = s
				break
			}
		}
		entry := makeEntry(sym, 1)
		for i := range dst[:1<<tableBits] {
			dst[i] = entry
		}
		return 1 << tableBits, true
	}

	// Kraft equality: sum over codes of 2^(maxLen-len) must equal
	// 2^maxLen, i.e. the codes exactly tile the code space with no gaps
	// and no overlaps.
	sum := 0
	for length := 1; length <= int(maxLen); length++ {
		sum += lenCount[length] << (int(maxLen) - length)
	}
	if sum != 1<<maxLen {
		return 0, false
	}

	// Canonical code assignment: nextCode[length] is the next unused
	// codeword of that length, assigned in increasing order of length
	// and, within a length, increasing order of symbol.
	var nextCode [MaxLitLenCodeLen + 2]uint32
	code := uint32(0)
	for length := 1; length <= int(maxLen); length++ {
		nextCode[length] = code
		code = (code + uint32(lenCount[length])) << 1
	}

	mainTableSize := 1 << tableBits
	used = mainTableSize
	// subtableWidth[prefix] accumulates, across every codeword sharing
	// that low-tableBits-bit prefix, the widest subtable needed to fit
	// all of them.
	subtableWidth := make(map[uint32]uint8)

	for sym := 0; sym < numSyms; sym++ {
		length := lens[sym]
		if length == 0 {
			continue
		}
		c := nextCode[length]
		nextCode[length]++
		rev := reverseBits(c, uint32(length))

		if length <= tableBits {
			entry := makeEntry(sym, uint32(length))
			stride := uint32(1) << length
			for idx := rev; idx < uint32(mainTableSize); idx += stride {
				dst[idx] = entry
			}
			continue
		}

		prefix := rev & ((uint32(1) << tableBits) - 1)
		subWidth := length - tableBits
		if w, ok := subtableWidth[prefix]; !ok || subWidth > w {
			subtableWidth[prefix] = subWidth
		}
	}

	// Second pass: now that every prefix's final subtable width is
	// known, allocate contiguous subtable regions and fill them. We
	// recompute nextCode from scratch since the first pass consumed it.
	code = 0
	for length := 1; length <= int(maxLen); length++ {
		nextCode[length] = code
		code = (code + uint32(lenCount[length])) << 1
	}

	allocated := make(map[uint32]int)
	for prefix, width := range subtableWidth {
		start := used
		used += 1 << width
		allocated[prefix] = start
		entry := newSubtablePointer(uint32(width), uint32(start))
		stride := uint32(1) << (tableBits + width)
		for idx := prefix; idx < uint32(mainTableSize); idx += stride {
			dst[idx] = entry
		}
	}

	for sym := 0; sym < numSyms; sym++ {
		length := lens[sym]
		if length == 0 || length <= tableBits {
			if length != 0 {
				nextCode[length]++
			}
			continue
		}
		c := nextCode[length]
		nextCode[length]++
		rev := reverseBits(c, uint32(length))
		prefix := rev & ((uint32(1) << tableBits) - 1)
		suffix := rev >> tableBits
		width := subtableWidth[prefix]
		start := allocated[prefix]
		entry := makeEntry(sym, uint32(length)-uint32(tableBits))
		stride := uint32(1) << (length - tableBits)
		size := uint32(1) << width
		for idx := suffix; idx < size; idx += stride {
			dst[uint32(start)+idx] = entry
		}
	}

	return used, true
}

// reverseBits reverses the low n bits of v.
func reverseBits(v uint32, n uint32) uint32 {
	var r uint32
	for i := uint32(0); i < n; i++ {
		r = (r << 1) | (v & 1)
		v >>= 1
	}
	return r
}
