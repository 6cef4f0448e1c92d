package disklog_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maxmielchen/variadb/internal/disklog"
	"github.com/maxmielchen/variadb/internal/value"
)

func corruptSignature(t *testing.T, path string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_WRONLY, 0644)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteAt([]byte("not-the-sig-----"), 0)
	require.NoError(t, err)
}

func open(t *testing.T) *disklog.DiskLog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.bin")
	d, err := disklog.Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestPutAndGet(t *testing.T) {
	d := open(t)
	v := value.Text("test_value")
	prev, err := d.Put("test_key", v)
	require.NoError(t, err)
	require.Nil(t, prev)

	got, err := d.Get("test_key")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.True(t, value.Equal(v, *got))
}

func TestPutAndDelete(t *testing.T) {
	d := open(t)
	v := value.Text("test_value")
	_, err := d.Put("test_key", v)
	require.NoError(t, err)

	deleted, err := d.Del("test_key")
	require.NoError(t, err)
	require.NotNil(t, deleted)
	require.True(t, value.Equal(v, *deleted))

	got, err := d.Get("test_key")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestPutAndUpdateReturnsPrevious(t *testing.T) {
	d := open(t)
	first := value.Text("test_value")
	_, err := d.Put("test_key", first)
	require.NoError(t, err)

	second := value.Text("test_value_2")
	prev, err := d.Put("test_key", second)
	require.NoError(t, err)
	require.NotNil(t, prev)
	require.True(t, value.Equal(first, *prev))

	got, err := d.Get("test_key")
	require.NoError(t, err)
	require.True(t, value.Equal(second, *got))
}

func TestEmptyKeyAndValue(t *testing.T) {
	d := open(t)
	_, err := d.Put("", value.Text(""))
	require.NoError(t, err)

	got, err := d.Get("")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.True(t, value.Equal(value.Text(""), *got))
}

func TestVeryLargeValue(t *testing.T) {
	d := open(t)
	big := value.Text(strings.Repeat("test_value", 100000))
	_, err := d.Put("test_key", big)
	require.NoError(t, err)

	got, err := d.Get("test_key")
	require.NoError(t, err)
	require.True(t, value.Equal(big, *got))

	bigger := value.Text(strings.Repeat("test_value_2", 100000))
	_, err = d.Put("test_key", bigger)
	require.NoError(t, err)
	got, err = d.Get("test_key")
	require.NoError(t, err)
	require.True(t, value.Equal(bigger, *got))
}

func TestVeryLargeKey(t *testing.T) {
	d := open(t)
	key := strings.Repeat("test_key", 100000)
	v := value.Text("test_value")
	_, err := d.Put(key, v)
	require.NoError(t, err)

	got, err := d.Get(key)
	require.NoError(t, err)
	require.True(t, value.Equal(v, *got))
}

func TestGapReuseExactFit(t *testing.T) {
	d := open(t)
	v := value.Text("test_value")
	_, err := d.Put("test_key", v)
	require.NoError(t, err)
	_, err = d.Del("test_key")
	require.NoError(t, err)

	// Same key length and same value string length as the deleted entry, so
	// the freed gap is reused exactly rather than split or skipped.
	v2 := value.Text("test_valuz")
	_, err = d.Put("test_key", v2)
	require.NoError(t, err)

	got, err := d.Get("test_key")
	require.NoError(t, err)
	require.True(t, value.Equal(v2, *got))

	n, err := d.Len()
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestGapReuseLargerGapSplits(t *testing.T) {
	d := open(t)
	large := value.Text(strings.Repeat("test_value", 100000))
	_, err := d.Put("test_key", large)
	require.NoError(t, err)
	_, err = d.Del("test_key")
	require.NoError(t, err)

	small := value.Text("tiny")
	_, err = d.Put("test_key_2", small)
	require.NoError(t, err)

	got, err := d.Get("test_key_2")
	require.NoError(t, err)
	require.True(t, value.Equal(small, *got))
}

func TestListOrderReflectsGapReuse(t *testing.T) {
	d := open(t)
	_, err := d.Put("a", value.Text("1"))
	require.NoError(t, err)
	_, err = d.Put("b", value.Text("2"))
	require.NoError(t, err)
	_, err = d.Del("a")
	require.NoError(t, err)
	_, err = d.Put("c", value.Text("3"))
	require.NoError(t, err)

	keys, err := d.List()
	require.NoError(t, err)
	// "c" reused "a"'s freed slot at the front of the file, so it is listed
	// before "b" even though it was inserted after it.
	require.Equal(t, []string{"c", "b"}, keys)
}

func TestClear(t *testing.T) {
	d := open(t)
	_, err := d.Put("test_key", value.Text("test_value"))
	require.NoError(t, err)
	require.NoError(t, d.Clear())

	got, err := d.Get("test_key")
	require.NoError(t, err)
	require.Nil(t, got)

	empty, err := d.IsEmpty()
	require.NoError(t, err)
	require.True(t, empty)
}

func TestLenAndIsEmpty(t *testing.T) {
	d := open(t)
	n, err := d.Len()
	require.NoError(t, err)
	require.Equal(t, 0, n)

	empty, err := d.IsEmpty()
	require.NoError(t, err)
	require.True(t, empty)

	_, err = d.Put("test_key", value.Text("test_value"))
	require.NoError(t, err)

	n, err = d.Len()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	empty, err = d.IsEmpty()
	require.NoError(t, err)
	require.False(t, empty)

	_, err = d.Del("test_key")
	require.NoError(t, err)

	n, err = d.Len()
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestDeleteAbsentKeyIsNotAnError(t *testing.T) {
	d := open(t)
	prev, err := d.Del("nope")
	require.NoError(t, err)
	require.Nil(t, prev)
}

func TestDefragPreservesLiveData(t *testing.T) {
	d := open(t)
	big := value.Text(strings.Repeat("test_value", 100000))
	_, err := d.Put("test_key", big)
	require.NoError(t, err)
	_, err = d.Del("test_key")
	require.NoError(t, err)

	v2 := value.Text(strings.Repeat("test_value_2", 100000))
	_, err = d.Put("test_key_2", v2)
	require.NoError(t, err)

	require.NoError(t, d.Defrag())

	keys, err := d.List()
	require.NoError(t, err)
	require.Equal(t, []string{"test_key_2"}, keys)

	got, err := d.Get("test_key_2")
	require.NoError(t, err)
	require.True(t, value.Equal(v2, *got))
}

func TestOpenRejectsBadSignature(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.bin")
	d, err := disklog.Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, d.Close())

	// Corrupt the signature directly, bypassing the store.
	corruptSignature(t, path)

	_, err = disklog.Open(path, nil)
	require.Error(t, err)
}
