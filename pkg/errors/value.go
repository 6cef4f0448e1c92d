package errors

// ValueError reports failures decoding a Value from its binary form — an
// unknown tag byte or a truncated stream.
type ValueError struct {
	*baseError
}

// NewValueError creates a new value-codec error.
func NewValueError(err error, code ErrorCode, msg string) *ValueError {
	return &ValueError{baseError: NewBaseError(err, code, msg)}
}

func (ve *ValueError) WithMessage(msg string) *ValueError {
	ve.baseError.WithMessage(msg)
	return ve
}

func (ve *ValueError) WithCode(code ErrorCode) *ValueError {
	ve.baseError.WithCode(code)
	return ve
}

func (ve *ValueError) WithDetail(key string, value any) *ValueError {
	ve.baseError.WithDetail(key, value)
	return ve
}
