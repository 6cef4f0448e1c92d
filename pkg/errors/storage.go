package errors

// StorageError is a specialized error type for disk log I/O failures. It
// embeds baseError to inherit error chaining, then adds the offset and path
// context needed to pinpoint exactly where in the file something went wrong.
// There is no segment concept here (unlike the index-based storage this type
// was originally modeled on): the disk log is a single file, so offset and
// path alone locate a failure.
type StorageError struct {
	*baseError
	offset   int64
	fileName string
	path     string
}

// NewStorageError creates a new storage-specific error.
func NewStorageError(err error, code ErrorCode, msg string) *StorageError {
	return &StorageError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage, WithCode, and WithDetail are redeclared here (rather than
// relying on baseError's promoted versions) so that chaining them after a
// StorageError-specific setter keeps returning *StorageError instead of
// silently widening to *baseError, which would make the error invisible to
// AsStorageError/errors.As.
func (se *StorageError) WithMessage(msg string) *StorageError {
	se.baseError.WithMessage(msg)
	return se
}

func (se *StorageError) WithCode(code ErrorCode) *StorageError {
	se.baseError.WithCode(code)
	return se
}

func (se *StorageError) WithDetail(key string, value any) *StorageError {
	se.baseError.WithDetail(key, value)
	return se
}

// WithOffset records the byte position within the disk log where the error
// occurred.
func (se *StorageError) WithOffset(offset int64) *StorageError {
	se.offset = offset
	return se
}

// WithFileName captures which file was being processed.
func (se *StorageError) WithFileName(fileName string) *StorageError {
	se.fileName = fileName
	return se
}

// WithPath captures the full path of the file being processed.
func (se *StorageError) WithPath(path string) *StorageError {
	se.path = path
	return se
}

// Offset returns the byte offset where the error happened.
func (se *StorageError) Offset() int64 {
	return se.offset
}

// FileName returns the name of the file that was being processed.
func (se *StorageError) FileName() string {
	return se.fileName
}

// Path returns the full path of the file that was being processed.
func (se *StorageError) Path() string {
	return se.path
}
