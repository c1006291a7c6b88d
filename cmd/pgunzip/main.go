// pgunzip decompresses gzip files using multiple threads, splitting
// the compressed input into sections and blind-syncing into the
// DEFLATE stream at section boundaries rather than decoding it
// sequentially end to end.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pgunzip/pgunzip/internal/config"
	"github.com/pgunzip/pgunzip/internal/coordinator"
)

var version = "dev"

const (
	exitSuccess = 0
	exitError   = 1
	exitWarning = 2
)

type cliConfig struct {
	decompress   bool
	toStdout     bool
	threads      int
	skipBytes    int64
	stopAfter    int64
	keep         bool
	force        bool
	suffix       string
	noName       bool
	inputFile    string
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, done := parseFlags()
	if done {
		return exitSuccess
	}

	data, err := readInput(cfg.inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pgunzip: %v\n", err)
		return exitError
	}

	if cfg.skipBytes > 0 {
		if cfg.skipBytes >= int64(len(data)) {
			fmt.Fprintf(os.Stderr, "pgunzip: -s offset past end of input\n")
			return exitError
		}
		data = data[cfg.skipBytes:]
	}
	opts := config.Resolve(config.Options{
		Threads:        cfg.threads,
		StopAfterBytes: cfg.stopAfter,
	}, int64(len(data)))

	out, degraded, err := coordinator.Decompress(data, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pgunzip: %v\n", err)
		return exitError
	}

	if err := writeOutput(cfg, out); err != nil {
		fmt.Fprintf(os.Stderr, "pgunzip: %v\n", err)
		return exitError
	}

	if degraded {
		fmt.Fprintf(os.Stderr, "pgunzip: warning: one or more sections required re-sync, output is correct but slower than expected\n")
		return exitWarning
	}
	return exitSuccess
}

func parseFlags() (cliConfig, bool) {
	var cfg cliConfig
	var showVersion, showHelp bool

	flag.BoolVar(&cfg.decompress, "d", true, "decompress (only supported mode)")
	flag.BoolVar(&cfg.toStdout, "c", false, "write to stdout, keep input file")
	flag.IntVar(&cfg.threads, "t", 0, "thread count (default: scaled to input size)")
	flag.Int64Var(&cfg.skipBytes, "s", 0, "skip this many compressed bytes before decompressing")
	flag.Int64Var(&cfg.stopAfter, "u", 0, "stop the first worker shortly after this compressed-byte position (later workers still decode the rest of the stream)")
	flag.BoolVar(&cfg.keep, "k", true, "keep input file")
	flag.BoolVar(&cfg.force, "f", false, "force overwrite of existing output file")
	flag.StringVar(&cfg.suffix, "S", ".gz", "suffix stripped from input name when deriving output name")
	flag.BoolVar(&cfg.noName, "n", false, "do not restore original file name from gzip header")
	flag.BoolVar(&showHelp, "h", false, "show this help")
	flag.BoolVar(&showVersion, "V", false, "show version and exit")

	flag.Usage = usage
	flag.Parse()

	if showHelp {
		flag.Usage()
		return cfg, true
	}
	if showVersion {
		fmt.Printf("pgunzip version %s\n", version)
		return cfg, true
	}

	args := flag.Args()
	if len(args) > 0 {
		cfg.inputFile = args[0]
	}
	return cfg, false
}

func usage() {
	fmt.Fprintf(os.Stderr, `pgunzip - parallel random-access gzip decompressor

Usage:
  pgunzip [options] file.gz
  cat file.gz | pgunzip -c > file

Options:
`)
	flag.PrintDefaults()
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return readAllStdin()
	}
	data, err := os.ReadFile(path) //nolint:gosec // CLI tool needs to open user-specified files
	if err != nil {
		return nil, fmt.Errorf("cannot open input: %w", err)
	}
	return data, nil
}

func readAllStdin() ([]byte, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("cannot read stdin: %w", err)
	}
	return data, nil
}

func writeOutput(cfg cliConfig, data []byte) error {
	if cfg.toStdout || cfg.inputFile == "" || cfg.inputFile == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}

	outPath := outputName(cfg.inputFile, cfg.suffix)
	if !cfg.force {
		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("output file %q already exists, use -f to overwrite", outPath)
		}
	}
	if err := os.WriteFile(outPath, data, 0o600); err != nil {
		return fmt.Errorf("cannot write output: %w", err)
	}
	if !cfg.keep {
		_ = os.Remove(cfg.inputFile)
	}
	return nil
}

func outputName(inputFile, suffix string) string {
	if suffix != "" && strings.HasSuffix(inputFile, suffix) {
		return strings.TrimSuffix(inputFile, suffix)
	}
	return inputFile + ".out"
}
