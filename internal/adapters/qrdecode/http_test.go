package qrdecode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secureeye/internal/platform/config"
	"secureeye/pkg/platform/sentinel"
)

func newDecoder(t *testing.T, handler http.HandlerFunc) *HTTPDecoder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTP(config.QRDecoderConfig{BaseURL: srv.URL, Timeout: time.Second})
}

func TestHTTPDecoder(t *testing.T) {
	t.Run("found code", func(t *testing.T) {
		d := newDecoder(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"text":"cam-55"}`))
		})

		deviceID, found, err := d.Decode(context.Background(), []byte("qr"))
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "cam-55", deviceID)
	})

	t.Run("no code is not an error", func(t *testing.T) {
		d := newDecoder(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"text":""}`))
		})

		_, found, err := d.Decode(context.Background(), []byte("blank"))
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("whitespace-only text is no code", func(t *testing.T) {
		d := newDecoder(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"text":"  "}`))
		})

		_, found, err := d.Decode(context.Background(), []byte("blank"))
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("decoder failure is unavailable", func(t *testing.T) {
		d := newDecoder(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, _, err := d.Decode(context.Background(), []byte("qr"))
		require.ErrorIs(t, err, sentinel.ErrUnavailable)
	})
}
