package deflate

import (
	"github.com/pgunzip/pgunzip/internal/bitstream"
	"github.com/pgunzip/pgunzip/internal/huffman"
)

const maxCombinedLens = huffman.MaxLitLenSyms + huffman.MaxOffsetSyms

// readDynamicHeader decodes a dynamic block's header: HLIT/HDIST/HCLEN,
// the precode's own 3-bit-per-symbol lengths in their fixed
// transmission order, then the run-length-coded litlen+offset lengths
// those precode symbols describe.
func readDynamicHeader(br *bitstream.Reader, tables *huffman.Tables) (hlit, hdist int, err error) {
	br.EnsureBits(14)
	hlit = int(br.PopBits(5)) + 257
	hdist = int(br.PopBits(5)) + 1
	hclen := int(br.PopBits(4)) + 4

	var precodeLens [huffman.MaxPrecodeSyms]uint8
	perm := huffman.PrecodeLensPermutation()
	for i := 0; i < hclen; i++ {
		br.EnsureBits(3)
		precodeLens[perm[i]] = uint8(br.PopBits(3))
	}
	if !tables.BuildPrecode(precodeLens) {
		return 0, 0, ErrBadKraftSum
	}

	var lens [maxCombinedLens]uint8
	total := hlit + hdist
	count := 0
	for count < total {
		sym := tables.PrecodeSymbol(br)
		switch {
		case sym < 16:
			lens[count] = sym
			count++
		case sym == 16:
			if count == 0 {
				return 0, 0, ErrInvalidRepeatCode
			}
			br.EnsureBits(2)
			n := int(br.PopBits(2)) + 3
			prev := lens[count-1]
			for i := 0; i < n && count < total; i++ {
				lens[count] = prev
				count++
			}
		case sym == 17:
			br.EnsureBits(3)
			n := int(br.PopBits(3)) + 3
			count += n
		case sym == 18:
			br.EnsureBits(7)
			n := int(br.PopBits(7)) + 11
			count += n
		}
	}
	if count != total {
		return 0, 0, ErrBadKraftSum
	}

	if !tables.BuildLitLen(lens[:hlit], hlit) {
		return 0, 0, ErrBadKraftSum
	}
	if !tables.BuildOffset(lens[hlit:hlit+hdist], hdist) {
		return 0, 0, ErrBadKraftSum
	}
	return hlit, hdist, nil
}
