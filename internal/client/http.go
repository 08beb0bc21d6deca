// ABOUTME: HTTP API client for the hub's token, send, and query endpoints
// ABOUTME: Carries one agent's identity and Bearer token on every request

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Message is the JSON shape the hub serves for a stored message. Recipient
// and correlation ids are null for broadcasts and uncorrelated messages.
type Message struct {
	MessageID     string  `json:"message_id"`
	SenderID      string  `json:"sender_id"`
	RecipientID   *string `json:"recipient_id"`
	MessageType   int16   `json:"message_type"`
	Payload       string  `json:"payload"`
	Timestamp     string  `json:"timestamp"`
	CorrelationID *string `json:"correlation_id"`
}

// Partner is one conversation partner from GET /agents.
type Partner struct {
	AgentID         string `json:"agent_id"`
	LastMessageTime string `json:"last_message_time"`
}

// TokenGrant is the response from POST /token.
type TokenGrant struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// SendReceipt acknowledges POST /messages/send with the server-assigned
// message id and timestamp.
type SendReceipt struct {
	MessageID string `json:"message_id"`
	Timestamp string `json:"timestamp"`
}

// SendOptions describes one outbound message. The sender is always the
// client's own agent; the hub rejects anything else.
type SendOptions struct {
	RecipientID   string
	MessageType   int16
	Payload       string
	CorrelationID string
}

// MessageQuery narrows Messages results. Zero-value fields are omitted.
type MessageQuery struct {
	Start       *time.Time
	End         *time.Time
	MessageType *int16
	Limit       int
	Offset      int
}

// HTTPClient talks to the hub's HTTP API on behalf of one agent.
type HTTPClient struct {
	baseURL string
	agentID string
	token   string
	client  *http.Client
}

// NewHTTPClient creates a client for the agent identified by agentID and
// token against the hub's HTTP listener at baseURL.
func NewHTTPClient(baseURL, agentID, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		agentID: agentID,
		token:   token,
		client:  &http.Client{},
	}
}

// IssueToken requests a fresh token for a known agent id. The endpoint is
// open: possession of the id is the only credential.
func IssueToken(ctx context.Context, baseURL, agentID string) (*TokenGrant, error) {
	body, err := json.Marshal(map[string]string{"agent_id": agentID})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimSuffix(baseURL, "/")+"/token", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var grant TokenGrant
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &grant, nil
}

// SendMessage persists a message through the hub; connected recipients see
// it immediately, offline ones on their next replay.
func (c *HTTPClient) SendMessage(ctx context.Context, opts SendOptions) (*SendReceipt, error) {
	payload := map[string]any{
		"sender_id":    c.agentID,
		"message_type": opts.MessageType,
		"payload":      opts.Payload,
	}
	if opts.RecipientID != "" {
		payload["recipient_id"] = opts.RecipientID
	}
	if opts.CorrelationID != "" {
		payload["correlation_id"] = opts.CorrelationID
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/messages/send", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var receipt SendReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &receipt, nil
}

// ListAgents returns the agents this one has exchanged direct messages
// with, most recently active first.
func (c *HTTPClient) ListAgents(ctx context.Context) ([]Partner, error) {
	var partners []Partner
	if err := c.get(ctx, "/agents", url.Values{}, &partners); err != nil {
		return nil, err
	}
	return partners, nil
}

// Conversation returns the two-way history with another agent, newest
// first. limit <= 0 uses the server default.
func (c *HTTPClient) Conversation(ctx context.Context, otherID string, limit, offset int) ([]Message, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}

	var msgs []Message
	if err := c.get(ctx, "/conversations/"+url.PathEscape(otherID), query, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Messages returns this agent's visible history, newest first, filtered
// by the query.
func (c *HTTPClient) Messages(ctx context.Context, q MessageQuery) ([]Message, error) {
	query := url.Values{}
	if q.Start != nil {
		query.Set("start_time", q.Start.Format(time.RFC3339Nano))
	}
	if q.End != nil {
		query.Set("end_time", q.End.Format(time.RFC3339Nano))
	}
	if q.MessageType != nil {
		query.Set("message_type", strconv.Itoa(int(*q.MessageType)))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		query.Set("offset", strconv.Itoa(q.Offset))
	}

	var msgs []Message
	if err := c.get(ctx, "/messages", query, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out any) error {
	query.Set("agent_id", c.agentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// apiError extracts the hub's JSON error message from a non-200 response.
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return fmt.Errorf("hub error (%d): %s", resp.StatusCode, errResp.Error)
	}
	return fmt.Errorf("hub returned status %d: %s", resp.StatusCode, string(body))
}
