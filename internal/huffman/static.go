package huffman

// New returns a zeroed Tables ready to be populated by BuildPrecode,
// BuildLitLen, and BuildOffset (or BuildStatic for a fixed block).
func New() *Tables { return &Tables{} }

// BuildStatic installs the fixed litlen/offset trees RFC 1951 §3.2.6
// defines for static-Huffman blocks: no header is transmitted because
// every decoder already knows these lengths.
func (t *Tables) BuildStatic() {
	var litlenLens [MaxLitLenSyms]uint8
	for i := 0; i < MaxLitLenSyms; i++ {
		switch {
		case i < 144:
			litlenLens[i] = 8
		case i < 256:
			litlenLens[i] = 9
		case i < 280:
			litlenLens[i] = 7
		default:
			litlenLens[i] = 8
		}
	}
	t.BuildLitLen(litlenLens[:], MaxLitLenSyms)

	var offsetLens [MaxOffsetSyms]uint8
	for i := range offsetLens {
		offsetLens[i] = 5
	}
	t.BuildOffset(offsetLens[:], MaxOffsetSyms)
}
