package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/haipham/newsdeck/internal/common"
	"github.com/haipham/newsdeck/internal/interfaces"
)

const (
	defaultQueueSize = 256
	sendTimeout      = 5 * time.Second
)

// event is one recorded occurrence queued for delivery.
type event struct {
	ClientID   string            `json:"client_id"`
	UserID     string            `json:"user_id,omitempty"`
	UserProps  map[string]string `json:"user_properties,omitempty"`
	Name       string            `json:"name"`
	Params     map[string]any    `json:"params,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Collector posts events to a measurement endpoint from a background
// worker. The queue is bounded; events are dropped (and counted) rather
// than ever blocking the caller.
type Collector struct {
	endpoint   string
	apiSecret  string
	clientID   string
	httpClient *http.Client
	logger     *common.Logger

	mu        sync.Mutex
	userID    string
	userProps map[string]string

	queue   chan event
	done    chan struct{}
	dropped int

	closeOnce sync.Once
}

// CollectorOption configures the collector.
type CollectorOption func(*Collector)

// WithLogger sets the logger.
func WithLogger(logger *common.Logger) CollectorOption {
	return func(c *Collector) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) CollectorOption {
	return func(c *Collector) {
		c.httpClient = hc
	}
}

// WithQueueSize sets the delivery queue capacity.
func WithQueueSize(n int) CollectorOption {
	return func(c *Collector) {
		c.queue = make(chan event, n)
	}
}

// NewCollector creates a collector posting to endpoint and starts its
// delivery worker.
func NewCollector(endpoint, apiSecret string, opts ...CollectorOption) *Collector {
	c := &Collector{
		endpoint:  endpoint,
		apiSecret: apiSecret,
		clientID:  uuid.NewString(),
		httpClient: &http.Client{
			Timeout: sendTimeout,
		},
		logger: common.NewSilentLogger(),
		queue:  make(chan event, defaultQueueSize),
		done:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	go c.run()

	return c
}

// Track queues a named event. Never blocks: when the queue is full the
// event is dropped.
func (c *Collector) Track(name string, params map[string]any) {
	c.mu.Lock()
	ev := event{
		ClientID:   c.clientID,
		UserID:     c.userID,
		UserProps:  c.userProps,
		Name:       name,
		Params:     params,
		OccurredAt: time.Now().UTC(),
	}
	c.mu.Unlock()

	select {
	case c.queue <- ev:
	default:
		c.mu.Lock()
		c.dropped++
		c.mu.Unlock()
		c.logger.Debug().Str("event", name).Msg("Analytics queue full, event dropped")
	}
}

// Identify associates subsequent events with a user.
func (c *Collector) Identify(userID string, props map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = userID
	c.userProps = props
}

// ClearIdentity removes the user association.
func (c *Collector) ClearIdentity() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = ""
	c.userProps = nil
}

// Close stops the delivery worker. Queued events still in the channel are
// abandoned.
func (c *Collector) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// run delivers queued events until Close.
func (c *Collector) run() {
	for {
		select {
		case ev := <-c.queue:
			c.send(ev)
		case <-c.done:
			return
		}
	}
}

// send posts one event. Failures are logged and dropped.
func (c *Collector) send(ev event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Failed to encode analytics event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	reqURL := c.endpoint
	if c.apiSecret != "" {
		reqURL += "?api_secret=" + c.apiSecret
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		c.logger.Debug().Err(err).Msg("Failed to create analytics request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("event", ev.Name).Msg("Analytics delivery failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		c.logger.Debug().Int("status", resp.StatusCode).Str("event", ev.Name).Msg("Analytics delivery rejected")
	}
}

var _ interfaces.Analytics = (*Collector)(nil)
var _ interfaces.Analytics = (*Noop)(nil)
