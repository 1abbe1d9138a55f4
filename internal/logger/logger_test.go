package logger

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	originalLogger := log.Logger
	originalStdout := os.Stdout

	defer func() {
		log.Logger = originalLogger
		os.Stdout = originalStdout
	}()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	InitLogger()

	assert.Equal(t, zerolog.InfoLevel, log.Logger.GetLevel())

	log.Info().Msg("test message")

	w.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)

	logStr := buf.String()
	assert.Contains(t, logStr, "time")
	assert.Contains(t, logStr, "zippy")
	assert.Contains(t, logStr, "test message")
}

func TestRequestLogger(t *testing.T) {
	originalLogger := log.Logger
	defer func() { log.Logger = originalLogger }()

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("hello"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/shorten", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	logStr := buf.String()
	assert.Contains(t, logStr, `"method":"POST"`)
	assert.Contains(t, logStr, `"uri":"/api/shorten"`)
	assert.Contains(t, logStr, `"status":201`)
	assert.Contains(t, logStr, `"size":5`)
	assert.Contains(t, logStr, "Request processed")
}

func TestResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	ww := NewResponseWriter(rec)

	assert.Equal(t, http.StatusOK, ww.Status())

	ww.WriteHeader(http.StatusNotFound)
	n, err := ww.Write([]byte("not found"))

	require.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, http.StatusNotFound, ww.Status())
	assert.Equal(t, 9, ww.Size())
}
