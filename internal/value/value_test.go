package value_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/maxmielchen/variadb/internal/value"
)

func roundTripBinary(t *testing.T, v value.Value) value.Value {
	t.Helper()
	encoded := value.Encode(v)
	decoded, n, err := value.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, len(encoded), n)
	return decoded
}

func TestBinaryRoundTripScalars(t *testing.T) {
	cases := []value.Value{
		value.Text(""),
		value.Text("hello, world"),
		value.NumberFromInt64(0),
		value.NumberFromInt64(-1),
		value.NumberFromInt64(9223372036854775807),
		value.Boolean(true),
		value.Boolean(false),
	}
	for _, c := range cases {
		got := roundTripBinary(t, c)
		require.True(t, value.Equal(c, got), "mismatch for %+v: got %+v", c, got)
	}
}

func TestBinaryRoundTripNestedOrderPreserved(t *testing.T) {
	v := value.Map(
		value.Entry("z", value.NumberFromInt64(1)),
		value.Entry("a", value.Array(value.Text("x"), value.Text("y"))),
		value.Entry("m", value.Map(value.Entry("inner", value.Boolean(true)))),
	)
	got := roundTripBinary(t, v)
	if diff := cmp.Diff(v, got); diff != "" {
		t.Fatalf("round trip changed structure or order (-want +got):\n%s", diff)
	}
}

func TestBinaryRoundTripLargeInt128(t *testing.T) {
	big128, ok := new(big.Int).SetString("170141183460469231731687303715884105727", 10) // 2^127 - 1
	require.True(t, ok)
	v := value.Number(value.Int128FromBigInt(big128))
	got := roundTripBinary(t, v)
	require.True(t, value.Equal(v, got))
	require.Equal(t, big128.String(), got.Number.String())
}

func TestJSONRoundTripPreservesMapOrder(t *testing.T) {
	v := value.Map(
		value.Entry("second", value.NumberFromInt64(2)),
		value.Entry("first", value.NumberFromInt64(1)),
	)
	data, err := json.Marshal(v)
	require.NoError(t, err)

	var got value.Value
	require.NoError(t, json.Unmarshal(data, &got))
	if diff := cmp.Diff(v, got); diff != "" {
		t.Fatalf("JSON round trip changed order (-want +got):\n%s", diff)
	}
}

func TestJSONNumberSurvivesBeyondInt64(t *testing.T) {
	n, ok := new(big.Int).SetString("99999999999999999999999999", 10)
	require.True(t, ok)
	v := value.Number(value.Int128FromBigInt(n))
	data, err := json.Marshal(v)
	require.NoError(t, err)

	var got value.Value
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, n.String(), got.Number.String())
}

func TestJSONRoundTripEmptyArray(t *testing.T) {
	v := value.Array()
	data, err := json.Marshal(v)
	require.NoError(t, err)

	var got value.Value
	require.NoError(t, json.Unmarshal(data, &got))
	require.True(t, value.Equal(v, got))
}

func TestJSONRoundTripEmptyMap(t *testing.T) {
	v := value.Map()
	data, err := json.Marshal(v)
	require.NoError(t, err)

	var got value.Value
	require.NoError(t, json.Unmarshal(data, &got))
	require.True(t, value.Equal(v, got))
}

func TestDecodeUnknownTagErrors(t *testing.T) {
	_, _, err := value.Decode([]byte{0xFF})
	require.Error(t, err)
}

func TestDecodeTruncatedStreamErrors(t *testing.T) {
	encoded := value.Encode(value.Text("hello"))
	_, _, err := value.Decode(encoded[:len(encoded)-2])
	require.Error(t, err)
}
