package push

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gatherly_backend/internal/logger"
)

// Client sends single push messages over HTTP. Fire-and-forget: no
// retry, no backoff, no delivery-receipt tracking.
type Client struct {
	endpoint   string
	httpClient *http.Client
	tokens     TokenSource
}

func NewClient(endpoint string, tokens TokenSource) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		tokens: tokens,
	}
}

// Relay looks up the recipient's device token and submits one message.
// A recipient without a token yields delivered=false and no network
// call; a token lookup failure is a real error.
func (c *Client) Relay(recipientID, title, body string, data map[string]interface{}) (bool, error) {
	token, err := c.tokens.PushTokenFor(recipientID)
	if err != nil {
		return false, fmt.Errorf("failed to look up push token: %w", err)
	}
	if token == "" {
		return false, nil
	}

	msg := Message{
		To:       token,
		Title:    title,
		Body:     body,
		Data:     data,
		Sound:    "default",
		Priority: "high",
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return false, fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("push endpoint request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("push endpoint returned status %d", resp.StatusCode)
	}

	var ack sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return false, fmt.Errorf("failed to decode push response: %w", err)
	}

	for _, ticket := range ack.Data {
		if ticket.Status != "ok" {
			logger.Warn("push message rejected by endpoint",
				"recipient_id", recipientID,
				"status", ticket.Status,
				"message", ticket.Message,
			)
			return false, nil
		}
	}

	return true, nil
}

// NoopRelay is used when push delivery is disabled by configuration.
type NoopRelay struct{}

func (NoopRelay) Relay(recipientID, title, body string, data map[string]interface{}) (bool, error) {
	return false, nil
}
