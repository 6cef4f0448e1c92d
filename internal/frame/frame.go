// Package frame implements the record-level codec for the disk log file:
// entries, short gaps, and long gaps, each self-describing from its leading
// opcode byte.
package frame

import (
	"encoding/binary"
	"fmt"
	"io"

	apperrors "github.com/maxmielchen/variadb/pkg/errors"
)

const (
	// OpEntry marks a live key/value record.
	OpEntry byte = 0x00

	// OpLongGap marks a gap record whose length is carried in a trailing
	// 16-byte big-endian field rather than in the opcode itself.
	OpLongGap byte = 0x11

	// shortGapMax is the largest total frame length a short gap (opcode ==
	// length) can represent. Opcodes 0x01..0x10 serve lengths 1..16.
	shortGapMax = 0x10

	// lengthFieldWidth is the width, in bytes, of every length field in the
	// format: entry key/value lengths and the long-gap total length.
	lengthFieldWidth = 16

	// EntryHeaderLen is the number of bytes preceding the key/value payload
	// in an entry frame: the opcode plus two 16-byte length fields.
	EntryHeaderLen = 1 + lengthFieldWidth + lengthFieldWidth

	// LongGapHeaderLen is the number of bytes preceding the padding in a
	// long-gap frame: the opcode plus the 16-byte length field.
	LongGapHeaderLen = 1 + lengthFieldWidth
)

// EncodeEntry builds a complete entry frame: opcode, 16-byte big-endian key
// length, 16-byte big-endian value length, key bytes, value bytes.
func EncodeEntry(key, value []byte) []byte {
	out := make([]byte, EntryHeaderLen+len(key)+len(value))
	out[0] = OpEntry
	putLen16(out[1:1+lengthFieldWidth], uint64(len(key)))
	putLen16(out[1+lengthFieldWidth:EntryHeaderLen], uint64(len(value)))
	copy(out[EntryHeaderLen:], key)
	copy(out[EntryHeaderLen+len(key):], value)
	return out
}

// EntryFrameLen returns the total length, in bytes, of an entry frame given
// its key and value lengths.
func EntryFrameLen(keyLen, valueLen uint64) uint64 {
	return uint64(EntryHeaderLen) + keyLen + valueLen
}

// EncodeGap builds a gap frame occupying exactly totalLength bytes. Panics if
// totalLength is zero: a gap frame must occupy at least one byte, matching
// the disk log's invariant that every byte belongs to a record.
func EncodeGap(totalLength uint64) []byte {
	if totalLength == 0 {
		panic("frame: gap frame length is 0")
	}
	if totalLength <= shortGapMax {
		out := make([]byte, totalLength)
		out[0] = byte(totalLength)
		return out
	}
	out := make([]byte, totalLength)
	out[0] = OpLongGap
	putLen16(out[1:LongGapHeaderLen], totalLength)
	return out
}

func putLen16(dst []byte, n uint64) {
	var full [lengthFieldWidth]byte
	binary.BigEndian.PutUint64(full[8:], n)
	copy(dst, full[:])
}

func getLen16(src []byte) uint64 {
	return binary.BigEndian.Uint64(src[8:lengthFieldWidth])
}

// ReadOpcode reads the single opcode byte at the reader's current position.
// eof is true, with a nil error, when the reader was already at end of file.
func ReadOpcode(r io.Reader) (opcode byte, eof bool, err error) {
	var buf [1]byte
	n, err := io.ReadFull(r, buf[:])
	if err != nil {
		if err == io.EOF && n == 0 {
			return 0, true, nil
		}
		return 0, false, err
	}
	return buf[0], false, nil
}

// ReadEntryHeader reads the two 16-byte length fields following an entry
// opcode and returns the key length, value length, and total frame length.
func ReadEntryHeader(r io.Reader) (keyLen, valueLen, totalLen uint64, err error) {
	var buf [2 * lengthFieldWidth]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, 0, 0, err
	}
	keyLen = getLen16(buf[:lengthFieldWidth])
	valueLen = getLen16(buf[lengthFieldWidth:])
	return keyLen, valueLen, EntryFrameLen(keyLen, valueLen), nil
}

// ReadLongGapHeader reads the 16-byte length field following a long-gap
// opcode and returns the gap's total frame length.
func ReadLongGapHeader(r io.Reader) (totalLen uint64, err error) {
	var buf [lengthFieldWidth]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return getLen16(buf[:]), nil
}

// IsShortGapOpcode reports whether opcode encodes a short gap (its own
// length), i.e. is in the range 0x01..0x10.
func IsShortGapOpcode(opcode byte) bool {
	return opcode >= 1 && opcode <= shortGapMax
}

// IsReservedOpcode reports whether opcode is outside every recognized
// meaning (entry, short gap, long gap) and therefore indicates corruption.
func IsReservedOpcode(opcode byte) bool {
	return opcode != OpEntry && opcode != OpLongGap && !IsShortGapOpcode(opcode)
}

// ErrUnknownOpcode wraps an unrecognized opcode into a structured error.
func ErrUnknownOpcode(opcode byte, offset int64) error {
	return apperrors.NewStorageError(nil, apperrors.ErrorCodeUnknownOpcode,
		fmt.Sprintf("unrecognized frame opcode 0x%02x", opcode)).
		WithOffset(offset).
		WithDetail("opcode", opcode)
}
