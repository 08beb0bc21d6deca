// ABOUTME: Live message router fanning persisted messages out to bound sessions
// ABOUTME: DIRECT goes to the recipient, BROADCAST and EVENT to everyone else

package hub

import (
	"log/slog"

	"github.com/agentmesh/meshhub/internal/metrics"
	"github.com/agentmesh/meshhub/internal/session"
	"github.com/agentmesh/meshhub/internal/store"
	pb "github.com/agentmesh/meshhub/proto/mesh"
)

// Router fans persisted messages out to live sessions. Delivery is
// best-effort: enqueues never block, and a message dropped on a full
// queue is recovered by that session's catch-up scan.
type Router struct {
	sessions *session.Table
	logger   *slog.Logger
}

// NewRouter creates a router over the given session table.
func NewRouter(sessions *session.Table, logger *slog.Logger) *Router {
	return &Router{
		sessions: sessions,
		logger:   logger,
	}
}

// Route dispatches an already-persisted message by kind. Heartbeats are
// a no-op; unknown kinds are logged and dropped.
func (r *Router) Route(msg *store.Message) {
	switch msg.Kind {
	case store.KindDirect:
		r.routeDirect(msg)
	case store.KindBroadcast, store.KindEvent:
		r.fanOut(msg)
	case store.KindHeartbeat:
		// Liveness signal, not traffic.
	default:
		r.logger.Warn("dropping message of unknown kind",
			"message_id", msg.ID,
			"kind", int16(msg.Kind),
		)
		metrics.MessagesDropped.Inc()
	}
}

// routeDirect enqueues onto the recipient's session if one is bound.
// An unbound recipient is not an error: the message is persisted and the
// replay loop delivers it when the agent reconnects.
func (r *Router) routeDirect(msg *store.Message) {
	sess, ok := r.sessions.Lookup(msg.RecipientID)
	if !ok {
		r.logger.Debug("recipient not bound, leaving message for replay",
			"message_id", msg.ID,
			"recipient_id", msg.RecipientID,
		)
		return
	}

	if r.deliver(sess, msg.ID, outboundFrame(msg)) {
		metrics.MessagesRouted.WithLabelValues(msg.Kind.String()).Inc()
	}
}

// fanOut enqueues onto every bound session except the sender's own. The
// snapshot keeps enqueues outside the table lock.
func (r *Router) fanOut(msg *store.Message) {
	frame := outboundFrame(msg)

	delivered := 0
	for _, sess := range r.sessions.Snapshot() {
		if sess.AgentID == msg.SenderID {
			continue
		}
		if r.deliver(sess, msg.ID, frame) {
			delivered++
		}
	}

	if delivered > 0 {
		metrics.MessagesRouted.WithLabelValues(msg.Kind.String()).Add(float64(delivered))
	}
}

func (r *Router) deliver(sess *session.Session, messageID string, frame *pb.AgentMessage) bool {
	if sess.TryEnqueue(messageID, frame) {
		return true
	}

	r.logger.Warn("session queue full, dropping live delivery",
		"message_id", messageID,
		"agent_id", sess.AgentID,
	)
	metrics.MessagesDropped.Inc()
	return false
}

// outboundFrame builds the wire frame for a persisted message. The frame
// carries the server-assigned timestamp as epoch seconds, not whatever
// the sender claimed.
func outboundFrame(msg *store.Message) *pb.AgentMessage {
	return &pb.AgentMessage{
		SenderId:      msg.SenderID,
		RecipientId:   msg.RecipientID,
		MessageType:   pb.AgentMessage_MessageType(msg.Kind),
		Payload:       msg.Payload,
		Timestamp:     msg.Timestamp.Unix(),
		CorrelationId: msg.CorrelationID,
	}
}
