package deflate

// Mode tells ParseBlock how much it should trust the bit position it
// was handed, mirroring the "branch-weight policy" the original tool
// templated its block-parsing routine on: a speculative scan expects
// most positions to fail, a confirmation pass expects success, and a
// real decode treats any failure as corruption rather than as
// evidence about where it started.
type Mode int

const (
	// MustSucceed is used for ordinary decoding once a worker knows
	// its start position is a real block boundary (either byte 0 of
	// the stream, or handed down from an upstream neighbor). Any
	// parse failure is corrupt input.
	MustSucceed Mode = iota
	// ShouldFail is used by the blind sync scanner while probing
	// candidate bit positions: failure is the expected, cheap-to-reject
	// outcome, success is the interesting case worth investigating
	// further.
	ShouldFail
	// ShouldSucceed is used while confirming a sync scanner's
	// candidate: failure here means the candidate was a false positive
	// and scanning must resume past it.
	ShouldSucceed
)

// validatesASCII reports whether this mode should pay for the extra
// ASCII range checks a speculative parse uses to reject false
// positives early, versus a real decode that already trusts its
// starting position and skips them.
func (m Mode) validatesASCII() bool { return m != MustSucceed }
