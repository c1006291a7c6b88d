package config

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveFallsBackToOneThreadForSmallInput(t *testing.T) {
	opts := Resolve(Options{}, 1<<10)
	assert.Equal(t, 1, opts.Threads)
}

func TestResolveUsesNumCPUForLargeInput(t *testing.T) {
	opts := Resolve(Options{}, 1<<30)
	assert.Equal(t, runtime.NumCPU(), opts.Threads)
}

func TestResolvePreservesExplicitThreadCount(t *testing.T) {
	opts := Resolve(Options{Threads: 3}, 1<<10)
	assert.Equal(t, 3, opts.Threads)
}

func TestResolveDefaultsAlphabetToPrintableASCII(t *testing.T) {
	opts := Resolve(Options{}, 1<<10)
	assert.Equal(t, byte('\t'), opts.Alphabet.Lo)
	assert.Equal(t, byte('~'), opts.Alphabet.Hi)
}
