package frame_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maxmielchen/variadb/internal/frame"
)

func TestEncodeEntryRoundTrip(t *testing.T) {
	key := []byte("hello")
	value := []byte("world!!")
	buf := frame.EncodeEntry(key, value)

	require.Equal(t, frame.OpEntry, buf[0])

	r := bytes.NewReader(buf[1:])
	keyLen, valueLen, total, err := frame.ReadEntryHeader(r)
	require.NoError(t, err)
	require.Equal(t, uint64(len(key)), keyLen)
	require.Equal(t, uint64(len(value)), valueLen)
	require.Equal(t, uint64(len(buf)), total)

	gotKey := make([]byte, keyLen)
	gotValue := make([]byte, valueLen)
	_, err = r.Read(gotKey)
	require.NoError(t, err)
	_, err = r.Read(gotValue)
	require.NoError(t, err)
	require.Equal(t, key, gotKey)
	require.Equal(t, value, gotValue)
}

func TestEncodeGapShort(t *testing.T) {
	buf := frame.EncodeGap(5)
	require.Len(t, buf, 5)
	require.Equal(t, byte(5), buf[0])
	require.True(t, frame.IsShortGapOpcode(buf[0]))
}

func TestEncodeGapLong(t *testing.T) {
	buf := frame.EncodeGap(1000)
	require.Len(t, buf, 1000)
	require.Equal(t, frame.OpLongGap, buf[0])

	r := bytes.NewReader(buf[1:])
	total, err := frame.ReadLongGapHeader(r)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), total)
}

func TestEncodeGapZeroPanics(t *testing.T) {
	require.Panics(t, func() { frame.EncodeGap(0) })
}

func TestReadOpcodeEOF(t *testing.T) {
	_, eof, err := frame.ReadOpcode(bytes.NewReader(nil))
	require.NoError(t, err)
	require.True(t, eof)
}

func TestIsReservedOpcode(t *testing.T) {
	require.False(t, frame.IsReservedOpcode(frame.OpEntry))
	require.False(t, frame.IsReservedOpcode(frame.OpLongGap))
	require.False(t, frame.IsReservedOpcode(1))
	require.False(t, frame.IsReservedOpcode(0x10))
	require.True(t, frame.IsReservedOpcode(0x12))
	require.True(t, frame.IsReservedOpcode(0xFF))
}
