// ABOUTME: Tests for the live message router
// ABOUTME: Validates direct delivery, fan-out exclusion, and overflow behavior

package hub

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentmesh/meshhub/internal/session"
	"github.com/agentmesh/meshhub/internal/store"
	pb "github.com/agentmesh/meshhub/proto/mesh"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(queueCap int) (*Router, *session.Table) {
	table := session.NewTable(queueCap, discardLogger())
	return NewRouter(table, discardLogger()), table
}

func storedMessage(id, sender, recipient string, kind store.Kind, payload string) *store.Message {
	return &store.Message{
		ID:          id,
		SenderID:    sender,
		RecipientID: recipient,
		Kind:        kind,
		Payload:     []byte(payload),
		Timestamp:   time.Now().UTC(),
	}
}

func receiveFrame(t *testing.T, sess *session.Session) *pb.AgentMessage {
	t.Helper()
	select {
	case frame := <-sess.Messages():
		return frame
	case <-time.After(time.Second):
		t.Fatal("expected a frame, got none")
		return nil
	}
}

func assertNoFrame(t *testing.T, sess *session.Session) {
	t.Helper()
	select {
	case frame := <-sess.Messages():
		t.Fatalf("unexpected frame: %v", frame)
	default:
	}
}

func TestRouteDirectDeliversToRecipient(t *testing.T) {
	router, table := newTestRouter(4)
	bob := table.Bind("bob")
	carol := table.Bind("carol")

	router.Route(storedMessage("m1", "alice", "bob", store.KindDirect, "hi bob"))

	frame := receiveFrame(t, bob)
	assert.Equal(t, "alice", frame.SenderId)
	assert.Equal(t, "bob", frame.RecipientId)
	assert.Equal(t, pb.AgentMessage_DIRECT, frame.MessageType)
	assert.Equal(t, []byte("hi bob"), frame.Payload)

	assertNoFrame(t, carol)
}

func TestRouteDirectUnboundRecipient(t *testing.T) {
	router, table := newTestRouter(4)
	carol := table.Bind("carol")

	// Nothing to deliver to and nothing to deliver through: the message
	// waits in the store for bob's next catch-up scan.
	router.Route(storedMessage("m1", "alice", "bob", store.KindDirect, "offline"))

	assertNoFrame(t, carol)
}

func TestRouteDirectToSelf(t *testing.T) {
	router, table := newTestRouter(4)
	alice := table.Bind("alice")

	// A self-addressed direct message takes the ordinary lookup path.
	router.Route(storedMessage("m1", "alice", "alice", store.KindDirect, "note to self"))

	frame := receiveFrame(t, alice)
	assert.Equal(t, "alice", frame.RecipientId)
	assert.Equal(t, []byte("note to self"), frame.Payload)
}

func TestRouteBroadcastExcludesSender(t *testing.T) {
	router, table := newTestRouter(4)
	alice := table.Bind("alice")
	bob := table.Bind("bob")
	carol := table.Bind("carol")

	router.Route(storedMessage("m1", "alice", "", store.KindBroadcast, "all hands"))

	for _, sess := range []*session.Session{bob, carol} {
		frame := receiveFrame(t, sess)
		assert.Equal(t, "alice", frame.SenderId)
		assert.Equal(t, pb.AgentMessage_BROADCAST, frame.MessageType)
		assert.Equal(t, []byte("all hands"), frame.Payload)
	}
	assertNoFrame(t, alice)
}

func TestRouteEventFansOut(t *testing.T) {
	router, table := newTestRouter(4)
	alice := table.Bind("alice")
	bob := table.Bind("bob")

	router.Route(storedMessage("m1", "alice", "", store.KindEvent, "deploy finished"))

	frame := receiveFrame(t, bob)
	assert.Equal(t, pb.AgentMessage_EVENT, frame.MessageType)
	assertNoFrame(t, alice)
}

func TestRouteHeartbeatIsNotDelivered(t *testing.T) {
	router, table := newTestRouter(4)
	bob := table.Bind("bob")

	router.Route(storedMessage("m1", "alice", "bob", store.KindHeartbeat, ""))

	assertNoFrame(t, bob)
}

func TestRouteUnknownKindDropped(t *testing.T) {
	router, table := newTestRouter(4)
	bob := table.Bind("bob")

	router.Route(storedMessage("m1", "alice", "bob", store.Kind(9), "???"))

	assertNoFrame(t, bob)
}

func TestRouteDirectFullQueueDropsLiveDelivery(t *testing.T) {
	router, table := newTestRouter(1)
	bob := table.Bind("bob")

	router.Route(storedMessage("m1", "alice", "bob", store.KindDirect, "first"))
	router.Route(storedMessage("m2", "alice", "bob", store.KindDirect, "second"))

	frame := receiveFrame(t, bob)
	assert.Equal(t, []byte("first"), frame.Payload)
	assertNoFrame(t, bob)

	// The drop left m2 unmarked, so the catch-up path re-routing it
	// delivers it once there is room.
	router.Route(storedMessage("m2", "alice", "bob", store.KindDirect, "second"))
	frame = receiveFrame(t, bob)
	assert.Equal(t, []byte("second"), frame.Payload)
}

func TestRouteBroadcastSkipsOnlyFullSessions(t *testing.T) {
	router, table := newTestRouter(1)
	bob := table.Bind("bob")
	carol := table.Bind("carol")

	router.Route(storedMessage("m1", "alice", "bob", store.KindDirect, "fill"))
	router.Route(storedMessage("m2", "alice", "", store.KindBroadcast, "fanout"))

	// bob's queue was full; carol still gets the broadcast.
	frame := receiveFrame(t, carol)
	assert.Equal(t, []byte("fanout"), frame.Payload)

	frame = receiveFrame(t, bob)
	assert.Equal(t, []byte("fill"), frame.Payload)
	assertNoFrame(t, bob)
}

func TestRouteDuplicateIDSuppressed(t *testing.T) {
	router, table := newTestRouter(4)
	bob := table.Bind("bob")

	msg := storedMessage("m1", "alice", "bob", store.KindDirect, "once")
	router.Route(msg)
	router.Route(msg)

	receiveFrame(t, bob)
	assertNoFrame(t, bob)
}

func TestOutboundFrame(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	msg := &store.Message{
		ID:            "m1",
		SenderID:      "alice",
		RecipientID:   "bob",
		Kind:          store.KindDirect,
		Payload:       []byte("ping"),
		Timestamp:     ts,
		CorrelationID: "corr-7",
	}

	frame := outboundFrame(msg)
	require.NotNil(t, frame)
	assert.Equal(t, "alice", frame.SenderId)
	assert.Equal(t, "bob", frame.RecipientId)
	assert.Equal(t, pb.AgentMessage_DIRECT, frame.MessageType)
	assert.Equal(t, []byte("ping"), frame.Payload)
	assert.Equal(t, ts.Unix(), frame.Timestamp)
	assert.Equal(t, "corr-7", frame.CorrelationId)
}
