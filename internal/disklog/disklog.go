// Package disklog implements the single-file, framed, in-place-overwrite
// storage format: a 16-byte signature followed by a sequence of
// self-describing entry and gap records. It is not internally synchronized —
// callers that need exclusive access across Put/Get/Del/List/Clear must
// provide their own lock, which is what internal/engine does.
package disklog

import (
	"os"
	"path/filepath"
	"sync/atomic"

	"go.uber.org/zap"

	apperrors "github.com/maxmielchen/variadb/pkg/errors"
	"github.com/maxmielchen/variadb/pkg/filesys"
)

// signature is the fixed 16-byte marker written at the start of every disk
// log file and checked on every Open.
var signature = [16]byte{'v', 'a', 'r', 'i', 'a', '-', '-', '-', '-', '-', '-', '-', '-', '-', 'd', 'b'}

// maxSeekStep bounds how far a single relative seek call is allowed to move,
// matching the chunked stepping the format's original implementation uses so
// huge values and huge gaps are traversed in bounded increments rather than
// one giant syscall.
const maxSeekStep = 100_000

// DiskLog is a handle to one disk log file.
type DiskLog struct {
	file   *os.File
	path   string
	log    *zap.SugaredLogger
	closed atomic.Bool
}

// Open opens (creating if necessary) the disk log file at path, ensuring its
// parent directory exists and its signature is valid.
func Open(path string, logger *zap.SugaredLogger) (*DiskLog, error) {
	dir := filepath.Dir(path)
	if err := filesys.CreateDir(dir, 0755, true); err != nil {
		return nil, apperrors.ClassifyDirectoryCreationError(err, dir)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, apperrors.ClassifyFileOpenError(err, path, filepath.Base(path))
	}

	d := &DiskLog{file: f, path: path, log: logger}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, apperrors.NewStorageError(err, apperrors.ErrorCodeIO, "failed to stat disk log file").
			WithPath(path)
	}

	if info.Size() == 0 {
		if err := d.writeSignature(); err != nil {
			f.Close()
			return nil, err
		}
		if logger != nil {
			logger.Infow("initialized new disk log file", "path", path)
		}
		return d, nil
	}

	if err := d.checkSignature(); err != nil {
		f.Close()
		return nil, err
	}
	if logger != nil {
		logger.Infow("opened existing disk log file", "path", path, "size", info.Size())
	}
	return d, nil
}

func (d *DiskLog) writeSignature() error {
	if _, err := d.file.WriteAt(signature[:], 0); err != nil {
		return apperrors.NewStorageError(err, apperrors.ErrorCodeIO, "failed to write disk log signature").
			WithPath(d.path).WithOffset(0)
	}
	return nil
}

func (d *DiskLog) checkSignature() error {
	var buf [16]byte
	if _, err := d.file.ReadAt(buf[:], 0); err != nil {
		return apperrors.NewStorageError(err, apperrors.ErrorCodeSegmentCorrupted, "failed to read disk log signature").
			WithPath(d.path).WithOffset(0)
	}
	if buf != signature {
		return apperrors.NewStorageError(nil, apperrors.ErrorCodeSegmentCorrupted, "disk log signature mismatch").
			WithPath(d.path).WithOffset(0).
			WithDetail("suggestion", "this file was not created by this store, or has been corrupted")
	}
	return nil
}

// Close releases the underlying file handle. Safe to call more than once;
// only the first call has effect.
func (d *DiskLog) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	return d.file.Close()
}
