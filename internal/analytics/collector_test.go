package analytics

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture collects delivered event payloads.
type capture struct {
	mu      sync.Mutex
	bodies  [][]byte
	secrets []string
}

func (c *capture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.bodies = append(c.bodies, body)
		c.secrets = append(c.secrets, r.URL.Query().Get("api_secret"))
		c.mu.Unlock()
	})
}

func (c *capture) waitFor(t *testing.T, n int) [][]byte {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		c.mu.Lock()
		got := len(c.bodies)
		c.mu.Unlock()
		if got >= n {
			c.mu.Lock()
			defer c.mu.Unlock()
			return append([][]byte(nil), c.bodies...)
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %d events, got %d", n, got)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestCollector_DeliversEvents(t *testing.T) {
	rec := &capture{}
	srv := httptest.NewServer(rec.handler())
	defer srv.Close()

	c := NewCollector(srv.URL, "secret-1")
	defer c.Close()

	c.Track(EventPageView, map[string]any{"page": "articles"})
	bodies := rec.waitFor(t, 1)

	var ev map[string]any
	require.NoError(t, json.Unmarshal(bodies[0], &ev))
	assert.Equal(t, "page_view", ev["name"])
	assert.NotEmpty(t, ev["client_id"])
	assert.Empty(t, ev["user_id"])
	assert.Equal(t, map[string]any{"page": "articles"}, ev["params"])
	assert.Equal(t, "secret-1", rec.secrets[0])
}

func TestCollector_IdentityStampsEvents(t *testing.T) {
	rec := &capture{}
	srv := httptest.NewServer(rec.handler())
	defer srv.Close()

	c := NewCollector(srv.URL, "")
	defer c.Close()

	c.Identify("uid-1", map[string]string{"email": "user@example.com"})
	c.Track(EventLogin, nil)
	c.ClearIdentity()
	c.Track(EventLogout, nil)

	bodies := rec.waitFor(t, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal(bodies[0], &first))
	require.NoError(t, json.Unmarshal(bodies[1], &second))

	assert.Equal(t, "uid-1", first["user_id"])
	assert.Equal(t, map[string]any{"email": "user@example.com"}, first["user_properties"])
	assert.Nil(t, second["user_id"], "cleared identity must not stamp later events")
}

func TestCollector_TrackNeverBlocks(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewCollector(srv.URL, "", WithQueueSize(1))
	defer c.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Far more events than the queue holds while delivery is stalled.
		for i := 0; i < 100; i++ {
			c.Track(EventError, nil)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Track blocked on a full queue")
	}
}

func TestCollector_DeliveryFailureIsSilent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewCollector(srv.URL, "")
	defer c.Close()

	// Neither a rejecting endpoint nor an unreachable one disturbs callers.
	c.Track(EventPageView, nil)

	u := NewCollector("http://127.0.0.1:1", "")
	defer u.Close()
	u.Track(EventPageView, nil)
}

func TestNoop(t *testing.T) {
	n := NewNoop()
	n.Track(EventLogin, map[string]any{"k": "v"})
	n.Identify("uid", nil)
	n.ClearIdentity()
}
