// ABOUTME: HTTP API handlers for token issuance, message queries, and SSE push
// ABOUTME: Serves the query surface over the same store the stream path writes

package hub

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agentmesh/meshhub/internal/auth"
	"github.com/agentmesh/meshhub/internal/config"
	"github.com/agentmesh/meshhub/internal/metrics"
	"github.com/agentmesh/meshhub/internal/store"
)

// ssePollInterval is the scan cadence of /messages/stream. Shorter than
// the replay poll because a dashboard tolerates less lag than an agent
// that also has the live gRPC path.
const ssePollInterval = time.Second

// tokenRequest is the JSON body for POST /token.
type tokenRequest struct {
	AgentID string `json:"agent_id"`
}

// tokenResponse is the JSON response for POST /token.
type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// sendMessageRequest is the JSON body for POST /messages/send.
type sendMessageRequest struct {
	SenderID      string `json:"sender_id"`
	RecipientID   string `json:"recipient_id,omitempty"`
	MessageType   int16  `json:"message_type"`
	Payload       string `json:"payload"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// sendMessageResponse is the JSON response for POST /messages/send.
type sendMessageResponse struct {
	MessageID string `json:"message_id"`
	Timestamp string `json:"timestamp"`
}

// partnerResponse is one entry of the GET /agents response.
type partnerResponse struct {
	AgentID         string `json:"agent_id"`
	LastMessageTime string `json:"last_message_time"`
}

// messageResponse is the JSON shape of a stored message, shared by the
// query endpoints and the SSE stream. Empty recipient and correlation
// ids serialize as null.
type messageResponse struct {
	MessageID     string  `json:"message_id"`
	SenderID      string  `json:"sender_id"`
	RecipientID   *string `json:"recipient_id"`
	MessageType   int16   `json:"message_type"`
	Payload       string  `json:"payload"`
	Timestamp     string  `json:"timestamp"`
	CorrelationID *string `json:"correlation_id"`
}

func toMessageResponse(m *store.Message) messageResponse {
	out := messageResponse{
		MessageID:   m.ID,
		SenderID:    m.SenderID,
		MessageType: int16(m.Kind),
		Payload:     string(m.Payload),
		Timestamp:   m.Timestamp.Format(time.RFC3339Nano),
	}
	if m.RecipientID != "" {
		out.RecipientID = &m.RecipientID
	}
	if m.CorrelationID != "" {
		out.CorrelationID = &m.CorrelationID
	}
	return out
}

func toMessageResponses(msgs []*store.Message) []messageResponse {
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return out
}

// registerHTTPRoutes wires the HTTP surface. Token issuance, health, and
// metrics are open; the query endpoints require a Bearer token; the SSE
// endpoint accepts the token as a query parameter because EventSource
// cannot set headers.
func (h *Hub) registerHTTPRoutes(mux *http.ServeMux) {
	authn := auth.HTTPAuthMiddleware(h.tokens)
	sseAuthn := auth.StreamAuthMiddleware(h.tokens)

	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/ready", h.handleReady)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/token", h.handleIssueToken)

	mux.Handle("/messages/send", authn(http.HandlerFunc(h.handleSendMessage)))
	mux.Handle("/agents", authn(http.HandlerFunc(h.handleListAgents)))
	mux.Handle("/conversations/", authn(http.HandlerFunc(h.handleConversation)))
	mux.Handle("/messages", authn(http.HandlerFunc(h.handleListMessages)))
	mux.Handle("/messages/stream", sseAuthn(http.HandlerFunc(h.handleStreamMessages)))
}

// handleHealth returns 200 if the server is alive.
func (h *Hub) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]string{"status": "ok"})
}

// handleReady reports readiness with the current session count. The hub
// is ready as soon as it serves: zero bound agents is a valid idle state.
func (h *Hub) handleReady(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]any{
		"status":          "ready",
		"server_id":       h.serverID,
		"active_sessions": h.sessions.Len(),
	})
}

// handleIssueToken handles POST /token: re-issue a token for a known
// agent id. Possession of the id is the only credential, the same trust
// model as registration where the id and token are handed out together.
func (h *Hub) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.AgentID == "" {
		h.sendJSONError(w, http.StatusBadRequest, "agent_id is required")
		return
	}

	ttl := h.config.Auth.TokenTTL
	if ttl <= 0 {
		ttl = config.DefaultTokenTTL
	}

	token, err := h.tokens.Generate(req.AgentID, ttl)
	if err != nil {
		h.logger.Error("minting token failed", "error", err)
		h.sendJSONError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	h.writeJSON(w, tokenResponse{Token: token, ExpiresIn: int64(ttl.Seconds())})
}

// handleSendMessage handles POST /messages/send. The message takes the
// same persist-then-route path as a stream frame, so live recipients see
// it immediately and offline ones get it from replay.
func (h *Hub) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	authCtx := auth.MustFromContext(r.Context())

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.SenderID != authCtx.AgentID {
		h.sendJSONError(w, http.StatusForbidden, "cannot send messages as another agent")
		return
	}

	kind := store.Kind(req.MessageType)
	if !kind.Valid() {
		h.sendJSONError(w, http.StatusBadRequest, "message_type out of range")
		return
	}
	if kind == store.KindHeartbeat {
		h.sendJSONError(w, http.StatusBadRequest, "heartbeats are not accepted over HTTP")
		return
	}

	msg := &store.Message{
		SenderID:      req.SenderID,
		RecipientID:   req.RecipientID,
		Kind:          kind,
		Payload:       []byte(req.Payload),
		CorrelationID: req.CorrelationID,
	}

	if err := h.store.Append(r.Context(), msg); err != nil {
		metrics.PersistFailures.Inc()
		h.logger.Error("persisting message", "sender_id", req.SenderID, "error", err)
		h.sendJSONError(w, http.StatusInternalServerError, "failed to send message")
		return
	}
	metrics.MessagesPersisted.Inc()

	h.router.Route(msg)

	h.writeJSON(w, sendMessageResponse{
		MessageID: msg.ID,
		Timestamp: msg.Timestamp.Format(time.RFC3339Nano),
	})
}

// handleListAgents handles GET /agents: the calling agent's conversation
// partners, most recently active first.
func (h *Hub) handleListAgents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	agentID, ok := h.callerAgentID(w, r)
	if !ok {
		return
	}

	partners, err := h.store.ListConversationPartners(r.Context(), agentID)
	if err != nil {
		h.logger.Error("listing conversation partners", "error", err)
		h.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response := make([]partnerResponse, 0, len(partners))
	for _, p := range partners {
		response = append(response, partnerResponse{
			AgentID:         p.AgentID,
			LastMessageTime: p.LastMessageTime.Format(time.RFC3339Nano),
		})
	}
	h.writeJSON(w, response)
}

// handleConversation handles GET /conversations/{other_agent_id}: the
// two-way history between the caller and another agent, newest first.
func (h *Hub) handleConversation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	otherID := strings.TrimPrefix(r.URL.Path, "/conversations/")
	if otherID == "" || strings.Contains(otherID, "/") {
		h.sendJSONError(w, http.StatusNotFound, "not found")
		return
	}

	agentID, ok := h.callerAgentID(w, r)
	if !ok {
		return
	}

	limit, ok := h.queryInt(w, r, "limit", 50)
	if !ok {
		return
	}
	offset, ok := h.queryInt(w, r, "offset", 0)
	if !ok {
		return
	}

	msgs, err := h.store.Conversation(r.Context(), agentID, otherID, limit, offset)
	if err != nil {
		h.logger.Error("fetching conversation", "error", err)
		h.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, toMessageResponses(msgs))
}

// handleListMessages handles GET /messages: everything the caller sent or
// could receive, newest first, with optional time-range and kind filters.
func (h *Hub) handleListMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	agentID, ok := h.callerAgentID(w, r)
	if !ok {
		return
	}

	limit, ok := h.queryInt(w, r, "limit", 100)
	if !ok {
		return
	}
	offset, ok := h.queryInt(w, r, "offset", 0)
	if !ok {
		return
	}
	filter := store.MessageFilter{Limit: limit, Offset: offset}

	if raw := r.URL.Query().Get("start_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.sendJSONError(w, http.StatusBadRequest, "start_time must be RFC3339")
			return
		}
		filter.Start = &t
	}
	if raw := r.URL.Query().Get("end_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.sendJSONError(w, http.StatusBadRequest, "end_time must be RFC3339")
			return
		}
		filter.End = &t
	}
	if raw := r.URL.Query().Get("message_type"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.sendJSONError(w, http.StatusBadRequest, "message_type must be an integer")
			return
		}
		kind := store.Kind(n)
		filter.Kind = &kind
	}

	msgs, err := h.store.ListMessages(r.Context(), agentID, filter)
	if err != nil {
		h.logger.Error("listing messages", "error", err)
		h.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, toMessageResponses(msgs))
}

// handleStreamMessages handles GET /messages/stream, the SSE push
// surface. The loop runs the replay scan discipline with the cursor
// starting at connect time: subscribers get live traffic, history is
// the query endpoints' job. Scan failures skip a beat and retry; the
// heartbeat comment line keeps intermediaries from timing the stream
// out.
func (h *Hub) handleStreamMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	agentID, ok := h.callerAgentID(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error("streaming not supported")
		h.sendJSONError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	metrics.SSEClients.Inc()
	defer metrics.SSEClients.Dec()
	h.logger.Info("SSE subscriber connected", "agent_id", agentID)
	defer h.logger.Info("SSE subscriber disconnected", "agent_id", agentID)

	cursor := time.Now().UTC()
	ticker := time.NewTicker(ssePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		msgs, err := h.store.ScanAfter(r.Context(), agentID, cursor)
		if err != nil {
			h.logger.Warn("SSE scan failed", "agent_id", agentID, "error", err)
			continue
		}

		for _, msg := range msgs {
			data, err := json.Marshal(toMessageResponse(msg))
			if err != nil {
				h.logger.Error("marshaling SSE message", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return
			}
			cursor = msg.Timestamp
		}

		if _, err := io.WriteString(w, ":heartbeat\n\n"); err != nil {
			return
		}
		flusher.Flush()
	}
}

// callerAgentID extracts the agent_id query parameter and checks it
// against the authenticated identity. A mismatch is a 403: tokens only
// open their own mailbox.
func (h *Hub) callerAgentID(w http.ResponseWriter, r *http.Request) (string, bool) {
	authCtx := auth.MustFromContext(r.Context())

	agentID := r.URL.Query().Get("agent_id")
	if agentID == "" {
		h.sendJSONError(w, http.StatusBadRequest, "agent_id is required")
		return "", false
	}
	if agentID != authCtx.AgentID {
		h.sendJSONError(w, http.StatusForbidden, "forbidden")
		return "", false
	}
	return agentID, true
}

// queryInt parses a non-negative integer query parameter.
func (h *Hub) queryInt(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		h.sendJSONError(w, http.StatusBadRequest, name+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}

// writeJSON writes a JSON response.
func (h *Hub) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encoding response", "error", err)
	}
}

// sendJSONError writes a JSON error response.
func (h *Hub) sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
