package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyEmbed_PostsPayload(t *testing.T) {
	var received discordPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewDiscordNotifier(srv.URL)
	n.NotifyEmbed("New tryout hosting request", []Field{
		{Name: "League", Value: "Bay Area Scholastic"},
		{Name: "Title", Value: "Spring Open"},
	})

	require.Len(t, received.Embeds, 1)
	assert.Equal(t, "New tryout hosting request", received.Embeds[0].Title)
	require.Len(t, received.Embeds[0].Fields, 2)
	assert.Equal(t, "League", received.Embeds[0].Fields[0].Name)
}

func TestNotifyEmbed_EmptyURLIsNoOp(t *testing.T) {
	n := NewDiscordNotifier("")
	// Must not panic or attempt a request.
	n.NotifyEmbed("ignored", nil)

	var nilNotifier *DiscordNotifier
	nilNotifier.NotifyEmbed("ignored", nil)
}

func TestNotifyEmbed_ServerErrorSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewDiscordNotifier(srv.URL)
	// Delivery failure must not propagate.
	n.NotifyEmbed("doomed", []Field{{Name: "k", Value: "v"}})
}
