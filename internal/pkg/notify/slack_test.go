package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type posted struct {
	channel string
	text    string
}

func newSlackServer(t *testing.T) (*httptest.Server, func() []posted) {
	t.Helper()

	var mu sync.Mutex
	var got []posted
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat.postMessage", r.URL.Path)
		assert.NoError(t, r.ParseForm())

		mu.Lock()
		got = append(got, posted{channel: r.FormValue("channel"), text: r.FormValue("text")})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "channel": r.FormValue("channel"), "ts": "1700000000.000100"})
	}))
	t.Cleanup(srv.Close)

	return srv, func() []posted {
		mu.Lock()
		defer mu.Unlock()
		return append([]posted(nil), got...)
	}
}

func TestSlack_RoutesByChannel(t *testing.T) {
	srv, messages := newSlackServer(t)
	n := NewSlack("xoxb-test", SlackOption{InfoChannelID: "C-INFO", ErrorChannelID: "C-ERR"}, slack.OptionAPIURL(srv.URL+"/"))

	require.NoError(t, n.Info(context.Background(), "Sami signed Dec-Jan 2024"))
	require.NoError(t, n.Error(context.Background(), "ensure_cycle_reviews failed"))

	assert.Equal(t, []posted{
		{channel: "C-INFO", text: "Sami signed Dec-Jan 2024"},
		{channel: "C-ERR", text: "ensure_cycle_reviews failed"},
	}, messages())
}

func TestSlack_SkipsUnsetChannel(t *testing.T) {
	srv, messages := newSlackServer(t)
	n := NewSlack("xoxb-test", SlackOption{InfoChannelID: "C-INFO"}, slack.OptionAPIURL(srv.URL+"/"))

	require.NoError(t, n.Error(context.Background(), "nobody listens"))
	assert.Empty(t, messages())
}

func TestSlack_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
	}))
	defer srv.Close()

	n := NewSlack("xoxb-test", SlackOption{InfoChannelID: "C-GONE"}, slack.OptionAPIURL(srv.URL+"/"))
	err := n.Info(context.Background(), "hello")
	assert.ErrorContains(t, err, "channel_not_found")
}

func TestNew_WithoutTokenIsNop(t *testing.T) {
	n := New("", SlackOption{InfoChannelID: "C-INFO"})
	assert.IsType(t, Nop{}, n)
	assert.NoError(t, n.Info(context.Background(), "dropped"))
}
