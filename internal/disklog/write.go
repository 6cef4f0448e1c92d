package disklog

import apperrors "github.com/maxmielchen/variadb/pkg/errors"

// wrapWriteErr turns a raw write failure at a known file offset into a
// structured storage error.
func wrapWriteErr(d *DiskLog, err error, offset int64) error {
	return apperrors.NewStorageError(err, apperrors.ErrorCodeIO, "failed to write disk log frame").
		WithPath(d.path).WithOffset(offset)
}
