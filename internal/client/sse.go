// ABOUTME: SSE subscriber for the hub's /messages/stream endpoint
// ABOUTME: Decodes data: lines into Messages and hands them to a callback

package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// StreamEvents subscribes to the hub's SSE stream and invokes onMessage for
// each event. Only messages appended after the subscription starts are
// delivered. Blocks until ctx is canceled or the stream breaks; reconnecting
// is the caller's concern.
func (c *HTTPClient) StreamEvents(ctx context.Context, onMessage func(Message)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/messages/stream?agent_id="+c.agentID, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("connecting to stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	// Message payloads can exceed the default 64KB token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		// Lines starting with ":" are heartbeat comments.
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var msg Message
		if err := json.Unmarshal([]byte(line[len("data: "):]), &msg); err != nil {
			return fmt.Errorf("decoding event: %w", err)
		}
		onMessage(msg)
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("reading stream: %w", err)
	}
	return nil
}
