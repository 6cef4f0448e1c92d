package value

import (
	"bytes"
	"encoding/binary"
	"io"

	apperrors "github.com/maxmielchen/variadb/pkg/errors"
)

// Binary tags, distinct from Kind only in that they are the stable on-disk
// encoding; Kind may grow without forcing a tag renumber as long as new tags
// are appended here too.
const (
	tagText byte = iota
	tagNumber
	tagBoolean
	tagArray
	tagMap
)

// Encode serializes a Value into its self-describing binary form. Encoding
// walks the tree iteratively with an explicit stack rather than recursive
// calls, so arbitrarily deep Array/Map nesting cannot blow the Go call stack.
func Encode(v Value) []byte {
	var buf bytes.Buffer
	encodeInto(&buf, v)
	return buf.Bytes()
}

func encodeInto(buf *bytes.Buffer, root Value) {
	type frame struct {
		v     Value
		array []Value
		mapv  []MapEntry
		idx   int
		// started is set once the node's header has been written, so an
		// empty (nil) Array or Map is not re-headered on the next pass.
		started bool
	}
	stack := []*frame{{v: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if !top.started {
			top.started = true
			writeScalarHeader(buf, top.v)
			switch top.v.Kind {
			case KindArray:
				top.array = top.v.Array
				writeUvarint(buf, uint64(len(top.array)))
			case KindMap:
				top.mapv = top.v.Map
				writeUvarint(buf, uint64(len(top.mapv)))
			default:
				stack = stack[:len(stack)-1]
				continue
			}
		}
		if top.v.Kind == KindArray {
			if top.idx >= len(top.array) {
				stack = stack[:len(stack)-1]
				continue
			}
			child := top.array[top.idx]
			top.idx++
			stack = append(stack, &frame{v: child})
			continue
		}
		if top.v.Kind == KindMap {
			if top.idx >= len(top.mapv) {
				stack = stack[:len(stack)-1]
				continue
			}
			entry := top.mapv[top.idx]
			top.idx++
			writeString(buf, entry.Key)
			stack = append(stack, &frame{v: entry.Value})
			continue
		}
	}
}

func writeScalarHeader(buf *bytes.Buffer, v Value) {
	switch v.Kind {
	case KindText:
		buf.WriteByte(tagText)
		writeString(buf, v.Text)
	case KindNumber:
		buf.WriteByte(tagNumber)
		b := v.Number.Bytes()
		buf.Write(b[:])
	case KindBoolean:
		buf.WriteByte(tagBoolean)
		if v.Boolean {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case KindArray:
		buf.WriteByte(tagArray)
	case KindMap:
		buf.WriteByte(tagMap)
	}
}

func writeUvarint(buf *bytes.Buffer, n uint64) {
	var tmp [binary.MaxVarintLen64]byte
	l := binary.PutUvarint(tmp[:], n)
	buf.Write(tmp[:l])
}

func writeString(buf *bytes.Buffer, s string) {
	writeUvarint(buf, uint64(len(s)))
	buf.WriteString(s)
}

// Decode deserializes a Value from its binary form, returning the number of
// bytes consumed. Like Encode, it walks iteratively via an explicit stack.
func Decode(data []byte) (Value, int, error) {
	r := bytes.NewReader(data)
	v, err := decodeFrom(r)
	if err != nil {
		return Value{}, 0, err
	}
	return v, len(data) - r.Len(), nil
}

type pendingArray struct {
	remaining int
	elems     []Value
}

type pendingMap struct {
	remaining int
	entries   []MapEntry
	wantKey   bool
	key       string
}

func decodeFrom(r *bytes.Reader) (Value, error) {
	var resultStack []any // Value, *pendingArray, or *pendingMap
	var done Value
	haveDone := false

	push := func() error {
		tag, err := r.ReadByte()
		if err != nil {
			return wrapDecodeErr(err, "read tag")
		}
		switch tag {
		case tagText:
			s, err := readString(r)
			if err != nil {
				return err
			}
			resultStack = append(resultStack, Text(s))
		case tagNumber:
			var b [16]byte
			if _, err := io.ReadFull(r, b[:]); err != nil {
				return wrapDecodeErr(err, "read number")
			}
			resultStack = append(resultStack, Number(Int128FromBytes(b)))
		case tagBoolean:
			b, err := r.ReadByte()
			if err != nil {
				return wrapDecodeErr(err, "read boolean")
			}
			resultStack = append(resultStack, Boolean(b != 0))
		case tagArray:
			n, err := binary.ReadUvarint(r)
			if err != nil {
				return wrapDecodeErr(err, "read array length")
			}
			resultStack = append(resultStack, &pendingArray{remaining: int(n)})
		case tagMap:
			n, err := binary.ReadUvarint(r)
			if err != nil {
				return wrapDecodeErr(err, "read map length")
			}
			resultStack = append(resultStack, &pendingMap{remaining: int(n), wantKey: true})
		default:
			return apperrors.NewValueError(nil, apperrors.ErrorCodeValueEncoding, "unknown value tag").
				WithDetail("tag", tag)
		}
		return nil
	}

	if err := push(); err != nil {
		return Value{}, err
	}

	for !haveDone {
		if len(resultStack) == 0 {
			return Value{}, apperrors.NewValueError(nil, apperrors.ErrorCodeValueEncoding, "empty decode stack")
		}
		top := resultStack[len(resultStack)-1]

		switch t := top.(type) {
		case Value:
			resultStack = resultStack[:len(resultStack)-1]
			if len(resultStack) == 0 {
				done = t
				haveDone = true
				continue
			}
			if err := attach(resultStack[len(resultStack)-1], t, r); err != nil {
				return Value{}, err
			}
		case *pendingArray:
			if t.remaining == 0 {
				resultStack = resultStack[:len(resultStack)-1]
				v := Array(t.elems...)
				if len(resultStack) == 0 {
					done = v
					haveDone = true
					continue
				}
				if err := attach(resultStack[len(resultStack)-1], v, r); err != nil {
					return Value{}, err
				}
				continue
			}
			t.remaining--
			if err := push(); err != nil {
				return Value{}, err
			}
		case *pendingMap:
			if t.wantKey {
				if t.remaining == 0 {
					resultStack = resultStack[:len(resultStack)-1]
					v := Map(t.entries...)
					if len(resultStack) == 0 {
						done = v
						haveDone = true
						continue
					}
					if err := attach(resultStack[len(resultStack)-1], v, r); err != nil {
						return Value{}, err
					}
					continue
				}
				key, err := readString(r)
				if err != nil {
					return Value{}, err
				}
				t.key = key
				t.wantKey = false
				t.remaining--
				if err := push(); err != nil {
					return Value{}, err
				}
			}
		}
	}
	return done, nil
}

// attach folds a completed child Value into its parent pendingArray /
// pendingMap frame.
func attach(parent any, child Value, _ *bytes.Reader) error {
	switch p := parent.(type) {
	case *pendingArray:
		p.elems = append(p.elems, child)
		return nil
	case *pendingMap:
		p.entries = append(p.entries, MapEntry{Key: p.key, Value: child})
		p.wantKey = true
		return nil
	default:
		return apperrors.NewValueError(nil, apperrors.ErrorCodeValueEncoding, "decode stack corrupted")
	}
}

func readString(r *bytes.Reader) (string, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return "", wrapDecodeErr(err, "read string length")
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", wrapDecodeErr(err, "read string bytes")
	}
	return string(buf), nil
}

func wrapDecodeErr(err error, stage string) error {
	return apperrors.NewValueError(err, apperrors.ErrorCodeValueEncoding, "truncated value stream").
		WithDetail("stage", stage)
}
