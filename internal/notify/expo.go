package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultExpoPushURL is Expo's batch push endpoint
const DefaultExpoPushURL = "https://exp.host/--/api/v2/push/send"

// expoBatchLimit is the maximum number of messages Expo accepts per request
const expoBatchLimit = 100

// PushMessage is one push notification addressed to one or more device tokens
type PushMessage struct {
	To    []string          `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Sound string            `json:"sound,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
}

// PushSender dispatches a batch of push messages to the delivery transport
type PushSender interface {
	Send(ctx context.Context, messages []PushMessage) error
}

// ExpoClient sends push messages through Expo's push service
type ExpoClient struct {
	url    string
	client *http.Client
}

// NewExpoClient creates an Expo push client. An empty url selects the
// public Expo endpoint.
func NewExpoClient(url string) *ExpoClient {
	if url == "" {
		url = DefaultExpoPushURL
	}
	return &ExpoClient{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Send posts the messages to Expo in batches
func (c *ExpoClient) Send(ctx context.Context, messages []PushMessage) error {
	for start := 0; start < len(messages); start += expoBatchLimit {
		end := start + expoBatchLimit
		if end > len(messages) {
			end = len(messages)
		}
		if err := c.post(ctx, messages[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (c *ExpoClient) post(ctx context.Context, messages []PushMessage) error {
	payload, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to marshal push messages: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push service returned status %d: %s", resp.StatusCode, body)
	}
	return nil
}
