// Package relay wraps the public pub/sub-over-HTTP service the site uses as
// its cross-device transport. The relay is unauthenticated and shared by
// topic name; it is a transport of convenience, never a system of record —
// the local store remains the only durable source of truth per device.
package relay

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"inkstudio/internal/domain"
)

// PublishOptions carry relay-level notification metadata. The relay's own
// notification UI understands them; this application does not.
type PublishOptions struct {
	Title    string
	Priority string
	Tags     string
}

// Client talks to one relay topic.
type Client struct {
	BaseURL string
	Topic   string
	HTTP    *http.Client
}

func New(baseURL, topic string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		Topic:   topic,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) topicURL() string {
	return fmt.Sprintf("%s/%s", c.BaseURL, c.Topic)
}

// Publish POSTs a raw message to the topic. Callers treat failures as
// non-fatal: the local write has already succeeded by the time anything is
// published.
func (c *Client) Publish(ctx context.Context, body []byte, opts *PublishOptions) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.topicURL(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	if opts != nil {
		if opts.Title != "" {
			req.Header.Set("Title", opts.Title)
		}
		if opts.Priority != "" {
			req.Header.Set("Priority", opts.Priority)
		}
		if opts.Tags != "" {
			req.Header.Set("Tags", opts.Tags)
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("relay publish: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// PublishEvent publishes a JSON sync event envelope.
func (c *Client) PublishEvent(ctx context.Context, ev domain.SyncEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return c.Publish(ctx, body, nil)
}

// envelope is one line of the relay's json history feed. The application
// event sits JSON-encoded inside Message.
type envelope struct {
	ID      string `json:"id"`
	Time    int64  `json:"time"`
	Event   string `json:"event"`
	Message string `json:"message"`
}

// FetchHistory retrieves the full topic history and decodes every sync
// event it contains. Malformed lines, plain-text notifications and unknown
// event types are dropped silently; the rest of the feed still applies.
func (c *Client) FetchHistory(ctx context.Context) ([]domain.SyncEvent, error) {
	url := c.topicURL() + "/json?poll=1&since=all"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("relay history: unexpected status %d", resp.StatusCode)
	}

	var events []domain.SyncEvent
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var env envelope
		if err := json.Unmarshal(line, &env); err != nil {
			continue
		}
		if env.Event != "" && env.Event != "message" {
			// keepalive / open frames
			continue
		}

		var ev domain.SyncEvent
		if err := json.Unmarshal([]byte(env.Message), &ev); err != nil {
			// Plain-text notification or garbage; not a sync event.
			continue
		}
		switch ev.Type {
		case domain.EventVisit, domain.EventBooking, domain.EventBookingDelete:
			events = append(events, ev)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("relay history: read: %w", err)
	}

	return events, nil
}
