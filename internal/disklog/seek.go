package disklog

import (
	"io"

	apperrors "github.com/maxmielchen/variadb/pkg/errors"
)

// seekRelative moves the file position by delta bytes, stepping in chunks of
// at most maxSeekStep so that no single underlying seek call is asked to
// move further than that bound. delta may be negative.
func (d *DiskLog) seekRelative(delta int64) error {
	if delta == 0 {
		return nil
	}
	step := int64(maxSeekStep)
	if delta < 0 {
		step = -step
	}
	remaining := delta
	for remaining != 0 {
		this := step
		if (remaining > 0 && this > remaining) || (remaining < 0 && this < remaining) {
			this = remaining
		}
		if _, err := d.file.Seek(this, io.SeekCurrent); err != nil {
			cur, _ := d.file.Seek(0, io.SeekCurrent)
			return apperrors.ClassifySeekError(err, d.path, d.path, cur+this)
		}
		remaining -= this
	}
	return nil
}

// offset reports the current file position.
func (d *DiskLog) offset() (int64, error) {
	return d.file.Seek(0, io.SeekCurrent)
}

// seekTo moves to an absolute file position.
func (d *DiskLog) seekTo(pos int64) error {
	if _, err := d.file.Seek(pos, io.SeekStart); err != nil {
		return apperrors.ClassifySeekError(err, d.path, d.path, pos)
	}
	return nil
}

// readExact reads exactly len(buf) bytes at the current position, wrapping a
// short read as a corruption error: the format's length fields are only ever
// written to match the bytes that actually follow them, so a short read here
// means the file does not match what it claims to contain.
func (d *DiskLog) readExact(buf []byte) error {
	if _, err := io.ReadFull(d.file, buf); err != nil {
		pos, _ := d.offset()
		return apperrors.ClassifyReadError(err, d.path, d.path, pos)
	}
	return nil
}

// skipGapRemainder advances past a gap record whose header has already been
// read, given the frame's total length and the number of header bytes the
// caller already consumed (1 for a short gap, LongGapHeaderLen for a long
// gap); those bytes are not included in the remaining skip. This is the shared
// traversal primitive used by Get, Del, List, and Len — distinct from the
// placement scan in Put, which needs to reason about gap size rather than
// just skip over it.
func (d *DiskLog) skipGapRemainder(totalLen uint64, headerAlreadyRead int) error {
	remaining := int64(totalLen) - int64(headerAlreadyRead)
	return d.seekRelative(remaining)
}
