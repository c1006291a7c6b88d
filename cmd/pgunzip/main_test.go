package main

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func writeGzipFile(t *testing.T, path string, data []byte) {
	t.Helper()

	f, err := os.Create(path) //nolint:gosec // test fixture path
	if err != nil {
		t.Fatalf("create gzip file: %v", err)
	}
	defer func() { _ = f.Close() }()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write(data); err != nil {
		t.Fatalf("write gzip data: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}
}

func TestReadInputFromFile(t *testing.T) {
	want := []byte("hello world")
	path := filepath.Join(t.TempDir(), "reads.txt")
	if err := os.WriteFile(path, want, 0o600); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	got, err := readInput(path)
	if err != nil {
		t.Fatalf("readInput: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("content mismatch: got %q want %q", got, want)
	}
}

func TestReadInputMissingFile(t *testing.T) {
	_, err := readInput(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("expected error for missing input file")
	}
}

func TestOutputNameStripsSuffix(t *testing.T) {
	got := outputName("reads.fastq.gz", ".gz")
	if got != "reads.fastq" {
		t.Fatalf("outputName: got %q want %q", got, "reads.fastq")
	}
}

func TestOutputNameFallsBackWhenSuffixAbsent(t *testing.T) {
	got := outputName("reads.fastq", ".gz")
	if got != "reads.fastq.out" {
		t.Fatalf("outputName: got %q want %q", got, "reads.fastq.out")
	}
}

func TestWriteOutputRefusesToOverwriteWithoutForce(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "reads.gz")
	outPath := filepath.Join(dir, "reads")
	writeGzipFile(t, inputPath, []byte("hello"))
	if err := os.WriteFile(outPath, []byte("existing"), 0o600); err != nil {
		t.Fatalf("write existing output: %v", err)
	}

	cfg := cliConfig{inputFile: inputPath, suffix: ".gz", keep: true}
	err := writeOutput(cfg, []byte("new content"))
	if err == nil {
		t.Fatal("expected writeOutput to refuse overwrite without -f")
	}
}

func TestWriteOutputOverwritesWithForce(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "reads.gz")
	outPath := filepath.Join(dir, "reads")
	writeGzipFile(t, inputPath, []byte("hello"))
	if err := os.WriteFile(outPath, []byte("existing"), 0o600); err != nil {
		t.Fatalf("write existing output: %v", err)
	}

	cfg := cliConfig{inputFile: inputPath, suffix: ".gz", keep: true, force: true}
	if err := writeOutput(cfg, []byte("new content")); err != nil {
		t.Fatalf("writeOutput: %v", err)
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(got, []byte("new content")) {
		t.Fatalf("content mismatch: got %q", got)
	}
}
