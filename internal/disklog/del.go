package disklog

import (
	"bytes"

	"github.com/maxmielchen/variadb/internal/frame"
	"github.com/maxmielchen/variadb/internal/value"
)

// Del scans for key and, if found, overwrites its entry frame in place with
// a gap frame of the same total length, returning the value that was
// removed. If key is absent, Del is a no-op that returns a nil value and no
// error — deleting something that isn't there is not a failure.
func (d *DiskLog) Del(key string) (*value.Value, error) {
	if err := d.seekTo(16); err != nil {
		return nil, err
	}
	keyBytes := []byte(key)

	for {
		entryStart, err := d.offset()
		if err != nil {
			return nil, err
		}

		opcode, eof, err := frame.ReadOpcode(d.file)
		if err != nil {
			return nil, err
		}
		if eof {
			return nil, nil
		}

		switch {
		case opcode == frame.OpEntry:
			keyLen, valueLen, totalLen, err := frame.ReadEntryHeader(d.file)
			if err != nil {
				return nil, err
			}
			stored := make([]byte, keyLen)
			if err := d.readExact(stored); err != nil {
				return nil, err
			}
			if !bytes.Equal(stored, keyBytes) {
				if err := d.seekRelative(int64(valueLen)); err != nil {
					return nil, err
				}
				continue
			}

			valBuf := make([]byte, valueLen)
			if err := d.readExact(valBuf); err != nil {
				return nil, err
			}
			v, _, err := value.Decode(valBuf)
			if err != nil {
				return nil, err
			}

			if err := d.seekTo(entryStart); err != nil {
				return nil, err
			}
			if _, err := d.file.Write(frame.EncodeGap(totalLen)); err != nil {
				return nil, wrapWriteErr(d, err, entryStart)
			}
			return &v, nil

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
			return nil, frame.ErrUnknownOpcode(opcode, entryStart)
		}
	}
}
