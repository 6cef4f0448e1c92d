package disklog

import (
	"github.com/maxmielchen/variadb/internal/frame"
	"github.com/maxmielchen/variadb/internal/value"
)

// Put writes key/value, returning whatever value previously occupied key (or
// nil if it was absent).
//
// The write happens in two independent passes, matching the behavior this is
// grounded on rather than trying to fold them into a single scan: first, if
// key already exists, its current value is read and its frame is turned into
// a gap (exactly what Del does); then a fresh placement scan runs from the
// start of the file looking for a gap to reuse, or appending at EOF if none
// fits. The placement scan's gap-size comparison is deliberately distinct
// from the shared skipGapRemainder traversal used by Get/List/Len/Del: here
// the size of each long gap is compared against the size of the entry being
// placed, which those other operations never need to do.
func (d *DiskLog) Put(key string, v value.Value) (*value.Value, error) {
	prev, err := d.Del(key)
	if err != nil {
		return nil, err
	}

	entryBuf := frame.EncodeEntry([]byte(key), value.Encode(v))
	entryLen := uint64(len(entryBuf))

	if err := d.seekTo(16); err != nil {
		return nil, err
	}

	for {
		frameStart, err := d.offset()
		if err != nil {
			return nil, err
		}

		opcode, eof, err := frame.ReadOpcode(d.file)
		if err != nil {
			return nil, err
		}
		if eof {
			if _, err := d.file.Write(entryBuf); err != nil {
				return nil, wrapWriteErr(d, err, frameStart)
			}
			return prev, nil
		}

		switch {
		case opcode == frame.OpEntry:
			keyLen, valueLen, _, err := frame.ReadEntryHeader(d.file)
			if err != nil {
				return nil, err
			}
			if err := d.seekRelative(int64(keyLen) + int64(valueLen)); err != nil {
				return nil, err
			}

		case opcode == frame.OpLongGap:
			gapLen, err := frame.ReadLongGapHeader(d.file)
			if err != nil {
				return nil, err
			}

			switch {
			case gapLen > entryLen:
				if err := d.seekTo(frameStart); err != nil {
					return nil, err
				}
				if _, err := d.file.Write(entryBuf); err != nil {
					return nil, wrapWriteErr(d, err, frameStart)
				}
				if _, err := d.file.Write(frame.EncodeGap(gapLen - entryLen)); err != nil {
					return nil, wrapWriteErr(d, err, frameStart+int64(entryLen))
				}
				return prev, nil

			case gapLen == entryLen:
				if err := d.seekTo(frameStart); err != nil {
					return nil, err
				}
				if _, err := d.file.Write(entryBuf); err != nil {
					return nil, wrapWriteErr(d, err, frameStart)
				}
				return prev, nil

			default: // gapLen < entryLen: too small, move past without reusing it
				remaining := int64(gapLen) - int64(frame.LongGapHeaderLen)
				if err := d.seekRelative(remaining); err != nil {
					return nil, err
				}
			}

		case frame.IsShortGapOpcode(opcode):
			// A short gap is at most 16 bytes, smaller than any possible
			// entry frame (minimum frame.EntryHeaderLen == 33 bytes for an
			// empty key and value), so it can never be reused for placement.
			if err := d.seekRelative(int64(opcode) - 1); err != nil {
				return nil, err
			}

		default:
			return nil, frame.ErrUnknownOpcode(opcode, frameStart)
		}
	}
}
