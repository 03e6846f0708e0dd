package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Webhook event names
const (
	EventSaleCreated = "sale.created"
	EventStockLow    = "stock.low"
	EventWeekClosed  = "week.closed"
)

// Event is a single outbound webhook message
type Event struct {
	Name       string      `json:"event"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

// NewEvent stamps an event with the current time
func NewEvent(name string, payload interface{}) Event {
	return Event{Name: name, OccurredAt: time.Now().UTC(), Payload: payload}
}

// Publisher accepts events without blocking the caller
type Publisher interface {
	Notify(event Event)
}

// Config holds webhook delivery settings
type Config struct {
	URL       string
	Timeout   time.Duration
	QueueSize int
	Workers   int
}

// Notifier delivers events to a webhook URL from a bounded queue.
// Delivery failures are logged and dropped; there are no retries.
type Notifier struct {
	url     string
	client  *http.Client
	queue   chan Event
	workers int
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a notifier. An empty URL yields a notifier that discards
// every event.
func New(cfg Config) *Notifier {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Notifier{
		url:     cfg.URL,
		client:  &http.Client{Timeout: cfg.Timeout},
		queue:   make(chan Event, cfg.QueueSize),
		workers: cfg.Workers,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Enabled reports whether a webhook URL is configured
func (n *Notifier) Enabled() bool {
	return n.url != ""
}

// Start launches the delivery workers. They drain the queue and exit
// once Close is called. Deliveries outlive the caller's shutdown signal
// and are bounded by the client timeout.
func (n *Notifier) Start() {
	for i := 0; i < n.workers; i++ {
		n.wg.Add(1)
		go n.run()
	}
}

// Notify enqueues event. A full queue, or a closed notifier, drops it.
func (n *Notifier) Notify(event Event) {
	if !n.Enabled() {
		return
	}

	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		zap.L().Debug("notifier closed, dropping event", zap.String("event", event.Name))
		return
	}
	select {
	case n.queue <- event:
	default:
		zap.L().Warn("webhook queue full, dropping event", zap.String("event", event.Name))
	}
}

// Close stops accepting events, delivers what is still queued and waits
// for the workers to finish.
func (n *Notifier) Close() {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()

	n.wg.Wait()
	n.cancel()
}

func (n *Notifier) run() {
	defer n.wg.Done()
	for event := range n.queue {
		if err := n.deliver(n.ctx, event); err != nil {
			zap.L().Warn("webhook delivery failed", zap.String("event", event.Name), zap.Error(err))
		}
	}
}

func (n *Notifier) deliver(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded %d", resp.StatusCode)
	}
	return nil
}
