package disklog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/maxmielchen/variadb/internal/frame"
	apperrors "github.com/maxmielchen/variadb/pkg/errors"
)

// Defrag rewrites the disk log file with every run of adjacent gap records
// coalesced into one, without changing the relative order or content of live
// entries. It is never invoked automatically — callers decide when the
// pause-the-world cost of a full rewrite is worth it.
//
// Unlike the no-op this is grounded on, this performs a real rewrite: it
// scans the current file, coalesces runs of gaps, writes the result to a
// fresh temporary file, then swaps the open handle over to it. The temporary
// file's name follows the nanosecond-timestamp naming scheme this store's
// segment-rotation ancestor used for its own scratch files.
func (d *DiskLog) Defrag() error {
	if err := d.seekTo(16); err != nil {
		return err
	}

	tmpPath := tempFileName(d.path)
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0644)
	if err != nil {
		return apperrors.ClassifyFileOpenError(err, tmpPath, filepath.Base(tmpPath))
	}
	defer os.Remove(tmpPath) // no-op once renamed over d.path

	if _, err := tmp.Write(signature[:]); err != nil {
		tmp.Close()
		return apperrors.NewStorageError(err, apperrors.ErrorCodeIO, "failed to write signature to defrag scratch file").
			WithPath(tmpPath)
	}

	var pendingGap uint64
	flushGap := func() error {
		if pendingGap == 0 {
			return nil
		}
		if _, err := tmp.Write(frame.EncodeGap(pendingGap)); err != nil {
			return apperrors.NewStorageError(err, apperrors.ErrorCodeIO, "failed to write coalesced gap").WithPath(tmpPath)
		}
		pendingGap = 0
		return nil
	}

	for {
		opcode, eof, err := frame.ReadOpcode(d.file)
		if err != nil {
			tmp.Close()
			return err
		}
		if eof {
			break
		}

		switch {
		case opcode == frame.OpEntry:
			keyLen, valueLen, totalLen, err := frame.ReadEntryHeader(d.file)
			if err != nil {
				tmp.Close()
				return err
			}
			body := make([]byte, keyLen+valueLen)
			if err := d.readExact(body); err != nil {
				tmp.Close()
				return err
			}
			if err := flushGap(); err != nil {
				tmp.Close()
				return err
			}
			full := frame.EncodeEntry(body[:keyLen], body[keyLen:])
			if uint64(len(full)) != totalLen {
				tmp.Close()
				return apperrors.NewStorageError(nil, apperrors.ErrorCodeSegmentCorrupted, "entry length mismatch during defrag").WithPath(d.path)
			}
			if _, err := tmp.Write(full); err != nil {
				tmp.Close()
				return apperrors.NewStorageError(err, apperrors.ErrorCodeIO, "failed to write entry during defrag").WithPath(tmpPath)
			}

		case opcode == frame.OpLongGap:
			totalLen, err := frame.ReadLongGapHeader(d.file)
			if err != nil {
				tmp.Close()
				return err
			}
			if err := d.skipGapRemainder(totalLen, frame.LongGapHeaderLen); err != nil {
				tmp.Close()
				return err
			}
			pendingGap += totalLen

		case frame.IsShortGapOpcode(opcode):
			if err := d.skipGapRemainder(uint64(opcode), 1); err != nil {
				tmp.Close()
				return err
			}
			pendingGap += uint64(opcode)

		default:
			tmp.Close()
			return frame.ErrUnknownOpcode(opcode, 0)
		}
	}

	if err := flushGap(); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return apperrors.ClassifySyncError(err, filepath.Base(tmpPath), tmpPath, 0)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStorageError(err, apperrors.ErrorCodeIO, "failed to close defrag scratch file").WithPath(tmpPath)
	}

	if err := d.file.Close(); err != nil {
		return apperrors.NewStorageError(err, apperrors.ErrorCodeIO, "failed to close disk log file before defrag swap").WithPath(d.path)
	}
	if err := os.Rename(tmpPath, d.path); err != nil {
		return apperrors.NewStorageError(err, apperrors.ErrorCodeIO, "failed to swap defragmented file into place").
			WithPath(d.path).WithFileName(filepath.Base(tmpPath))
	}

	f, err := os.OpenFile(d.path, os.O_RDWR, 0644)
	if err != nil {
		return apperrors.ClassifyFileOpenError(err, d.path, filepath.Base(d.path))
	}
	d.file = f
	return nil
}

// tempFileName builds a nanosecond-timestamped scratch filename alongside
// path, the same naming convention this store's segment-rotation ancestor
// used when it generated new segment file names.
func tempFileName(path string) string {
	return fmt.Sprintf("%s.defrag-%d.tmp", path, time.Now().UnixNano())
}
