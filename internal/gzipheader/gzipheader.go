// Package gzipheader parses the gzip container wrapper around a
// DEFLATE stream: enough to find where the compressed payload starts
// and ends, nothing more. The CRC32/ISIZE footer is surfaced for
// informational display only and is never checked against decompressed
// output, matching the compressor's "no cross-chunk verification"
// scope.
//
// Grounded on the Write/Read pattern of the teacher's
// internal/format.FileHeader (binary.LittleEndian field-by-field
// decode) and on the field layout of the original tool's
// gzip_decompress.hpp.
package gzipheader

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
)

const (
	magic0 = 0x1f
	magic1 = 0x8b

	methodDeflate = 8

	flagText    = 1 << 0
	flagHCRC    = 1 << 1
	flagExtra   = 1 << 2
	flagName    = 1 << 3
	flagComment = 1 << 4
	flagReserved = 0xE0
)

var (
	ErrBadMagic       = errors.New("gzipheader: not a gzip stream")
	ErrUnsupportedMethod = errors.New("gzipheader: unsupported compression method")
	ErrReservedFlag   = errors.New("gzipheader: reserved flag bits set")
)

// Header holds the fixed and optional fields of a gzip member header.
type Header struct {
	Flags   byte
	MTIME   uint32
	XFL     byte
	OS      byte
	Name    string
	Comment string
}

// Parse reads one gzip member header from r and returns it along with
// the byte offset (always byte-aligned, hence returned directly as a
// byte count rather than a bit position) at which the DEFLATE payload
// begins.
func Parse(r io.Reader) (*Header, int64, error) {
	br := bufio.NewReader(r)
	var fixed [10]byte
	if _, err := io.ReadFull(br, fixed[:]); err != nil {
		return nil, 0, err
	}
	if fixed[0] != magic0 || fixed[1] != magic1 {
		return nil, 0, ErrBadMagic
	}
	if fixed[2] != methodDeflate {
		return nil, 0, ErrUnsupportedMethod
	}
	h := &Header{
		Flags: fixed[3],
		MTIME: binary.LittleEndian.Uint32(fixed[4:8]),
		XFL:   fixed[8],
		OS:    fixed[9],
	}
	if h.Flags&flagReserved != 0 {
		return nil, 0, ErrReservedFlag
	}

	offset := int64(10)

	if h.Flags&flagExtra != 0 {
		var lenBuf [2]byte
		if _, err := io.ReadFull(br, lenBuf[:]); err != nil {
			return nil, 0, err
		}
		xlen := binary.LittleEndian.Uint16(lenBuf[:])
		offset += 2
		if _, err := io.CopyN(io.Discard, br, int64(xlen)); err != nil {
			return nil, 0, err
		}
		offset += int64(xlen)
	}
	if h.Flags&flagName != 0 {
		name, n, err := readCString(br)
		if err != nil {
			return nil, 0, err
		}
		h.Name = name
		offset += n
	}
	if h.Flags&flagComment != 0 {
		comment, n, err := readCString(br)
		if err != nil {
			return nil, 0, err
		}
		h.Comment = comment
		offset += n
	}
	if h.Flags&flagHCRC != 0 {
		var crcBuf [2]byte
		if _, err := io.ReadFull(br, crcBuf[:]); err != nil {
			return nil, 0, err
		}
		offset += 2
	}
	return h, offset, nil
}

func readCString(r *bufio.Reader) (string, int64, error) {
	s, err := r.ReadString(0)
	if err != nil {
		return "", 0, err
	}
	return s[:len(s)-1], int64(len(s)), nil
}

// Footer is the 8 trailing bytes of a gzip member: the CRC32 of the
// uncompressed data and its size modulo 2^32.
type Footer struct {
	CRC32 uint32
	ISIZE uint32
}

// ParseFooter reads a Footer from the last 8 bytes of data.
func ParseFooter(data []byte) (Footer, error) {
	if len(data) < 8 {
		return Footer{}, errors.New("gzipheader: truncated footer")
	}
	tail := data[len(data)-8:]
	return Footer{
		CRC32: binary.LittleEndian.Uint32(tail[0:4]),
		ISIZE: binary.LittleEndian.Uint32(tail[4:8]),
	}, nil
}
