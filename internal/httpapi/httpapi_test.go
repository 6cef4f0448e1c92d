package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maxmielchen/variadb/internal/httpapi"
	"github.com/maxmielchen/variadb/internal/value"
	apperrors "github.com/maxmielchen/variadb/pkg/errors"
)

type fakeEngine struct {
	data map[string]value.Value
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{data: make(map[string]value.Value)}
}

func (f *fakeEngine) Put(ctx context.Context, key string, v value.Value) (*value.Value, error) {
	if key == "" {
		return nil, apperrors.NewRequiredFieldError("key")
	}
	prev, ok := f.data[key]
	f.data[key] = v
	if !ok {
		return nil, nil
	}
	return &prev, nil
}

func (f *fakeEngine) Get(ctx context.Context, key string) (*value.Value, error) {
	v, ok := f.data[key]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (f *fakeEngine) Del(ctx context.Context, key string) (*value.Value, error) {
	v, ok := f.data[key]
	if !ok {
		return nil, nil
	}
	delete(f.data, key)
	return &v, nil
}

func (f *fakeEngine) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func TestPutAndGet(t *testing.T) {
	s := httpapi.NewServer(newFakeEngine(), nil, []string{"*"})

	body, _ := json.Marshal(value.Text("hello"))
	req := httptest.NewRequest(http.MethodPut, "/put/foo", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/get/foo", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got value.Value
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.True(t, value.Equal(value.Text("hello"), got))
}

func TestGetAbsentKeyReturnsEmptyOk(t *testing.T) {
	s := httpapi.NewServer(newFakeEngine(), nil, []string{"*"})

	req := httptest.NewRequest(http.MethodGet, "/get/missing", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.Bytes())
}

func TestPutMalformedBodyReturns400(t *testing.T) {
	s := httpapi.NewServer(newFakeEngine(), nil, []string{"*"})

	req := httptest.NewRequest(http.MethodPut, "/put/foo", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDelete(t *testing.T) {
	s := httpapi.NewServer(newFakeEngine(), nil, []string{"*"})

	body, _ := json.Marshal(value.Text("hello"))
	req := httptest.NewRequest(http.MethodPut, "/put/foo", bytes.NewReader(body))
	s.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodDelete, "/del/foo", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got value.Value
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.True(t, value.Equal(value.Text("hello"), got))
}

func TestList(t *testing.T) {
	s := httpapi.NewServer(newFakeEngine(), nil, []string{"*"})

	for _, k := range []string{"a", "b"} {
		body, _ := json.Marshal(value.Text("x"))
		req := httptest.NewRequest(http.MethodPut, "/put/"+k, bytes.NewReader(body))
		s.ServeHTTP(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest(http.MethodGet, "/list", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var keys []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &keys))
	require.ElementsMatch(t, []string{"a", "b"}, keys)
}

func TestCORSDisallowedOriginReturns401(t *testing.T) {
	s := httpapi.NewServer(newFakeEngine(), nil, []string{"https://example.com"})

	req := httptest.NewRequest(http.MethodGet, "/list", nil)
	req.Header.Set("Origin", "https://evil.test")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORSAllowedOriginEchoedBack(t *testing.T) {
	s := httpapi.NewServer(newFakeEngine(), nil, []string{"https://example.com"})

	req := httptest.NewRequest(http.MethodGet, "/list", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	s := httpapi.NewServer(newFakeEngine(), nil, []string{"*"})

	req := httptest.NewRequest(http.MethodOptions, "/put/foo", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
