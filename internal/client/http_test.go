// ABOUTME: Tests for the HTTP API client against canned hub responses
// ABOUTME: Covers auth headers, query encoding, error decoding, and SSE parsing

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) *HTTPClient {
	return NewHTTPClient(srv.URL, "alice", "tok")
}

func TestIssueToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/token", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["agent_id"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"token":"issued-token","expires_in":3600}`)
	}))
	defer srv.Close()

	grant, err := IssueToken(t.Context(), srv.URL, "alice")
	require.NoError(t, err)
	assert.Equal(t, "issued-token", grant.Token)
	assert.Equal(t, int64(3600), grant.ExpiresIn)
}

func TestIssueTokenError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"agent_id is required"}`)
	}))
	defer srv.Close()

	_, err := IssueToken(t.Context(), srv.URL, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hub error (400): agent_id is required")
}

func TestSendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/messages/send", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["sender_id"])
		assert.Equal(t, "bob", body["recipient_id"])
		assert.Equal(t, float64(0), body["message_type"])
		assert.Equal(t, "ping", body["payload"])
		assert.Equal(t, "corr-1", body["correlation_id"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"message_id":"m-1","timestamp":"2025-06-01T12:00:00.000001Z"}`)
	}))
	defer srv.Close()

	receipt, err := newTestClient(srv).SendMessage(t.Context(), SendOptions{
		RecipientID:   "bob",
		Payload:       "ping",
		CorrelationID: "corr-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "m-1", receipt.MessageID)
	assert.Equal(t, "2025-06-01T12:00:00.000001Z", receipt.Timestamp)
}

func TestSendMessageOmitsEmptyOptionals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		_, hasRecipient := body["recipient_id"]
		assert.False(t, hasRecipient, "broadcast should omit recipient_id")
		_, hasCorrelation := body["correlation_id"]
		assert.False(t, hasCorrelation, "uncorrelated send should omit correlation_id")
		assert.Equal(t, float64(1), body["message_type"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"message_id":"m-2","timestamp":"2025-06-01T12:00:01Z"}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).SendMessage(t.Context(), SendOptions{
		MessageType: 1,
		Payload:     "all hands",
	})
	require.NoError(t, err)
}

func TestSendMessageServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":"cannot send messages as another agent"}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).SendMessage(t.Context(), SendOptions{Payload: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hub error (403): cannot send messages as another agent")
}

func TestListAgents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/agents", r.URL.Path)
		assert.Equal(t, "alice", r.URL.Query().Get("agent_id"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"agent_id":"bob","last_message_time":"2025-06-01T12:00:00Z"}]`)
	}))
	defer srv.Close()

	partners, err := newTestClient(srv).ListAgents(t.Context())
	require.NoError(t, err)
	require.Len(t, partners, 1)
	assert.Equal(t, "bob", partners[0].AgentID)
	assert.Equal(t, "2025-06-01T12:00:00Z", partners[0].LastMessageTime)
}

func TestConversation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/conversations/bob", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "alice", q.Get("agent_id"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "5", q.Get("offset"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"message_id":"m1","sender_id":"bob","recipient_id":"alice",`+
			`"message_type":0,"payload":"hey","timestamp":"2025-06-01T12:00:00Z","correlation_id":null}]`)
	}))
	defer srv.Close()

	msgs, err := newTestClient(srv).Conversation(t.Context(), "bob", 10, 5)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "m1", msgs[0].MessageID)
	assert.Equal(t, "bob", msgs[0].SenderID)
	require.NotNil(t, msgs[0].RecipientID)
	assert.Equal(t, "alice", *msgs[0].RecipientID)
	assert.Nil(t, msgs[0].CorrelationID)
}

func TestConversationDefaultPaging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.False(t, q.Has("limit"), "zero limit should be omitted")
		assert.False(t, q.Has("offset"), "zero offset should be omitted")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	msgs, err := newTestClient(srv).Conversation(t.Context(), "bob", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestMessagesFilters(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	kind := int16(2)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "alice", q.Get("agent_id"))
		assert.Equal(t, "2025-06-01T00:00:00Z", q.Get("start_time"))
		assert.Equal(t, "2025-06-01T01:00:00Z", q.Get("end_time"))
		assert.Equal(t, "2", q.Get("message_type"))
		assert.Equal(t, "20", q.Get("limit"))
		assert.Equal(t, "40", q.Get("offset"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	msgs, err := newTestClient(srv).Messages(t.Context(), MessageQuery{
		Start:       &start,
		End:         &end,
		MessageType: &kind,
		Limit:       20,
		Offset:      40,
	})
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestMessagesOmitsZeroFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, url.Values{"agent_id": {"alice"}}, r.URL.Query())

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Messages(t.Context(), MessageQuery{})
	require.NoError(t, err)
}

func TestNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream exploded")
	}))
	defer srv.Close()

	_, err := newTestClient(srv).ListAgents(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hub returned status 502")
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestStreamEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages/stream", r.URL.Path)
		assert.Equal(t, "alice", r.URL.Query().Get("agent_id"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		io.WriteString(w, ":heartbeat\n\n")
		flusher.Flush()
		fmt.Fprintf(w, "data: %s\n\n",
			`{"message_id":"m1","sender_id":"bob","recipient_id":"alice","message_type":0,"payload":"one","timestamp":"2025-06-01T12:00:00Z","correlation_id":null}`)
		fmt.Fprintf(w, "data: %s\n\n",
			`{"message_id":"m2","sender_id":"carol","recipient_id":null,"message_type":1,"payload":"two","timestamp":"2025-06-01T12:00:01Z","correlation_id":null}`)
		flusher.Flush()
	}))
	defer srv.Close()

	var got []Message
	err := newTestClient(srv).StreamEvents(t.Context(), func(m Message) {
		got = append(got, m)
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].MessageID)
	assert.Equal(t, "one", got[0].Payload)
	assert.Equal(t, "m2", got[1].MessageID)
	assert.Nil(t, got[1].RecipientID)
	assert.Equal(t, int16(1), got[1].MessageType)
}

func TestStreamEventsStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		fmt.Fprintf(w, "data: %s\n\n",
			`{"message_id":"m1","sender_id":"bob","recipient_id":"alice","message_type":0,"payload":"one","timestamp":"2025-06-01T12:00:00Z","correlation_id":null}`)
		flusher.Flush()

		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	var got []Message
	err := newTestClient(srv).StreamEvents(ctx, func(m Message) {
		got = append(got, m)
		cancel()
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStreamEventsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"missing authorization token"}`)
	}))
	defer srv.Close()

	err := newTestClient(srv).StreamEvents(t.Context(), func(Message) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hub error (401): missing authorization token")
}

func TestStreamEventsMalformedData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {not json\n\n")
	}))
	defer srv.Close()

	err := newTestClient(srv).StreamEvents(t.Context(), func(Message) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding event")
}
