package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureWriterWithinLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 32}

	_, err := cw.Write([]byte("hello "))
	require.NoError(t, err)
	_, err = cw.Write([]byte("world"))
	require.NoError(t, err)

	assert.False(t, cw.overflowed())
	assert.Equal(t, "hello world", cw.buf.String())
	assert.Equal(t, "hello world", rec.Body.String())
}

func TestCaptureWriterOverflowIsNotCacheable(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 8}

	body := bytes.Repeat([]byte("x"), 20)
	_, err := cw.Write(body[:5])
	require.NoError(t, err)
	_, err = cw.Write(body[5:])
	require.NoError(t, err)

	// The client still gets the full body; only the capture is capped.
	assert.Equal(t, string(body), rec.Body.String())
	assert.True(t, cw.overflowed())
	assert.EqualValues(t, 8, cw.buf.Len())
}

func TestCaptureWriterUnlimited(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 0}

	body := bytes.Repeat([]byte("y"), 4096)
	_, err := cw.Write(body)
	require.NoError(t, err)

	assert.False(t, cw.overflowed())
	assert.Equal(t, len(body), cw.buf.Len())
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, string(body))
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, _, _, ok := decodePayload([]byte("short"))
	assert.False(t, ok)
}
