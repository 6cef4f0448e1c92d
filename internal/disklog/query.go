package disklog

import (
	"bytes"
	"io"

	"github.com/maxmielchen/variadb/internal/frame"
	"github.com/maxmielchen/variadb/internal/value"
	apperrors "github.com/maxmielchen/variadb/pkg/errors"
)

// Get scans the file from just past the signature looking for key, returning
// its decoded value, or nil if the key is not present.
func (d *DiskLog) Get(key string) (*value.Value, error) {
	if err := d.seekTo(16); err != nil {
		return nil, err
	}
	keyBytes := []byte(key)

	for {
		opcode, eof, err := frame.ReadOpcode(d.file)
		if err != nil {
			return nil, err
		}
		if eof {
			return nil, nil
		}

		switch {
		case opcode == frame.OpEntry:
			keyLen, valueLen, _, err := frame.ReadEntryHeader(d.file)
			if err != nil {
				return nil, err
			}
			stored := make([]byte, keyLen)
			if err := d.readExact(stored); err != nil {
				return nil, err
			}
			if bytes.Equal(stored, keyBytes) {
				valBuf := make([]byte, valueLen)
				if err := d.readExact(valBuf); err != nil {
					return nil, err
				}
				v, _, err := value.Decode(valBuf)
				if err != nil {
					return nil, err
				}
				return &v, nil
			}
			if err := d.seekRelative(int64(valueLen)); err != nil {
				return nil, err
			}

		case opcode == frame.OpLongGap:
			totalLen, err := frame.ReadLongGapHeader(d.file)
			if err != nil {
				return nil, err
			}
			if err := d.skipGapRemainder(totalLen, frame.LongGapHeaderLen); err != nil {
				return nil, err
			}

		case frame.IsShortGapOpcode(opcode):
			if err := d.skipGapRemainder(uint64(opcode), 1); err != nil {
				return nil, err
			}

		default:
			pos, _ := d.offset()
			return nil, frame.ErrUnknownOpcode(opcode, pos-1)
		}
	}
}

// List scans the whole file and returns every live key, in the order
// records are encountered walking from the start of the file. This is file
// order, not insertion order: a key placed into a gap freed by an earlier
// delete appears at that gap's position, not at the end.
func (d *DiskLog) List() ([]string, error) {
	if err := d.seekTo(16); err != nil {
		return nil, err
	}
	var keys []string

	for {
		opcode, eof, err := frame.ReadOpcode(d.file)
		if err != nil {
			return nil, err
		}
		if eof {
			return keys, nil
		}

		switch {
		case opcode == frame.OpEntry:
			keyLen, valueLen, _, err := frame.ReadEntryHeader(d.file)
			if err != nil {
				return nil, err
			}
			stored := make([]byte, keyLen)
			if err := d.readExact(stored); err != nil {
				return nil, err
			}
			keys = append(keys, string(stored))
			if err := d.seekRelative(int64(valueLen)); err != nil {
				return nil, err
			}

		case opcode == frame.OpLongGap:
			totalLen, err := frame.ReadLongGapHeader(d.file)
			if err != nil {
				return nil, err
			}
			if err := d.skipGapRemainder(totalLen, frame.LongGapHeaderLen); err != nil {
				return nil, err
			}

		case frame.IsShortGapOpcode(opcode):
			if err := d.skipGapRemainder(uint64(opcode), 1); err != nil {
				return nil, err
			}

		default:
			pos, _ := d.offset()
			return nil, frame.ErrUnknownOpcode(opcode, pos-1)
		}
	}
}

// Len returns the number of live entries in the file. It skips gaps with the
// same skipGapRemainder helper as Get/List/Del, and additionally tracks each
// frame's start offset in a scanCursor so an unknown opcode is reported at
// the offset where its frame begins.
func (d *DiskLog) Len() (int, error) {
	cursor := &scanCursor{offset: 16}
	if err := d.seekTo(cursor.offset); err != nil {
		return 0, err
	}
	count := 0

	for {
		opcode, eof, err := frame.ReadOpcode(d.file)
		if err != nil {
			return 0, err
		}
		if eof {
			return count, nil
		}

		switch {
		case opcode == frame.OpEntry:
			keyLen, valueLen, totalLen, err := frame.ReadEntryHeader(d.file)
			if err != nil {
				return 0, err
			}
			if err := d.seekRelative(int64(valueLen) + int64(keyLen)); err != nil {
				return 0, err
			}
			count++
			cursor.advance(totalLen)

		case opcode == frame.OpLongGap:
			totalLen, err := frame.ReadLongGapHeader(d.file)
			if err != nil {
				return 0, err
			}
			if err := d.skipGapRemainder(totalLen, frame.LongGapHeaderLen); err != nil {
				return 0, err
			}
			cursor.advance(totalLen)

		case frame.IsShortGapOpcode(opcode):
			if err := d.skipGapRemainder(uint64(opcode), 1); err != nil {
				return 0, err
			}
			cursor.advance(uint64(opcode))

		default:
			return 0, frame.ErrUnknownOpcode(opcode, cursor.offset)
		}
	}
}

// IsEmpty reports whether the file contains zero live entries.
func (d *DiskLog) IsEmpty() (bool, error) {
	n, err := d.Len()
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Clear truncates the file back to just the signature, discarding every
// entry and gap.
func (d *DiskLog) Clear() error {
	if err := d.file.Truncate(16); err != nil {
		return apperrors.NewStorageError(err, apperrors.ErrorCodeIO, "failed to truncate disk log file").
			WithPath(d.path)
	}
	if _, err := d.file.Seek(0, io.SeekStart); err != nil {
		return apperrors.ClassifySeekError(err, d.path, d.path, 0)
	}
	return d.writeSignature()
}
