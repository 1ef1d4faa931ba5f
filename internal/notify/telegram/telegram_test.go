package telegram

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secureeye/pkg/platform/sentinel"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestSendPhoto(t *testing.T) {
	var gotChatID, gotPhoto string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sendPhoto", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotChatID = r.Form.Get("chat_id")
		gotPhoto = r.Form.Get("photo")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, srv.URL, time.Second, discardLogger())
	err := c.Send(context.Background(), "chat-7", "http://example.com/img.png", "Person detected")
	require.NoError(t, err)
	assert.Equal(t, "chat-7", gotChatID)
	assert.Equal(t, "http://example.com/img.png", gotPhoto)
}

func TestSendReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, srv.URL, time.Second, discardLogger())
	err := c.Send(context.Background(), "chat-7", "url", "caption")
	require.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestDownloadFile(t *testing.T) {
	photo := []byte("png bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/getFile":
			require.Equal(t, "file-123", r.URL.Query().Get("file_id"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ok":true,"result":{"file_path":"photos/p.png"}}`))
		case "/photos/p.png":
			_, _ = w.Write(photo)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newClient(srv.URL, srv.URL, time.Second, discardLogger())
	got, err := c.DownloadFile(context.Background(), "file-123")
	require.NoError(t, err)
	assert.Equal(t, photo, got)
}

func TestLargestPhoto(t *testing.T) {
	t.Run("nil message", func(t *testing.T) {
		var m *Message
		assert.Empty(t, m.LargestPhoto())
	})

	t.Run("no photo", func(t *testing.T) {
		m := &Message{Text: "/start"}
		assert.Empty(t, m.LargestPhoto())
	})

	t.Run("takes the last variant", func(t *testing.T) {
		m := &Message{Photo: []PhotoSize{
			{FileID: "small", Width: 90},
			{FileID: "large", Width: 1280},
		}}
		assert.Equal(t, "large", m.LargestPhoto())
	})
}

func TestUpdateParsing(t *testing.T) {
	raw := `{"update_id":7,"message":{"message_id":1,"chat":{"id":42},"photo":[{"file_id":"a","width":90},{"file_id":"b","width":800}]}}`
	var u Update
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	require.NotNil(t, u.Message)
	assert.Equal(t, int64(42), u.Message.Chat.ID)
	assert.Equal(t, "b", u.Message.LargestPhoto())
}
