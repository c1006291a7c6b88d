package deflate

import "errors"

// These are the block-parser error kinds from the error handling
// design: each is a distinct sentinel so a caller can tell a
// corruption signal (stop decoding, report failure) from the sync
// scanner's "this candidate is wrong" signal (keep scanning) without
// string matching.
var (
	ErrReservedBlockType = errors.New("deflate: reserved block type 3")
	ErrBadStoredLength    = errors.New("deflate: stored block LEN/NLEN mismatch")
	ErrBadKraftSum        = errors.New("deflate: huffman code lengths do not sum correctly")
	ErrInvalidLitLenSym   = errors.New("deflate: literal/length symbol out of range")
	ErrInvalidDistance    = errors.New("deflate: match distance exceeds available history")
	ErrInvalidRepeatCode  = errors.New("deflate: precode repeat code with no preceding length")
	ErrTruncated          = errors.New("deflate: input exhausted before end of block")
	ErrNonASCIIPayload    = errors.New("deflate: decoded byte outside the configured alphabet")
)
