// ABOUTME: Tests for the Session queue and teardown behavior
// ABOUTME: Covers non-blocking and blocking enqueues, dedup marking, and close

package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pb "github.com/agentmesh/meshhub/proto/mesh"
)

func testFrame(payload string) *pb.AgentMessage {
	return &pb.AgentMessage{
		SenderId:    "sender",
		MessageType: pb.AgentMessage_DIRECT,
		Payload:     []byte(payload),
	}
}

func TestSession_TryEnqueue(t *testing.T) {
	s := newSession("agent-a", 2)
	defer s.close()

	assert.True(t, s.TryEnqueue("m1", testFrame("one")))
	assert.True(t, s.TryEnqueue("m2", testFrame("two")))
	assert.False(t, s.TryEnqueue("m3", testFrame("three")), "queue is full")

	got := <-s.Messages()
	assert.Equal(t, []byte("one"), got.Payload)
	got = <-s.Messages()
	assert.Equal(t, []byte("two"), got.Payload)
}

func TestSession_TryEnqueueSuppressesDuplicates(t *testing.T) {
	s := newSession("agent-a", 4)
	defer s.close()

	require.True(t, s.TryEnqueue("m1", testFrame("first copy")))
	assert.True(t, s.TryEnqueue("m1", testFrame("second copy")), "duplicate reports handled")
	assert.Len(t, s.queue, 1, "duplicate is not queued")
}

func TestSession_TryEnqueueDropLeavesIDUnmarked(t *testing.T) {
	s := newSession("agent-a", 1)
	defer s.close()

	require.True(t, s.TryEnqueue("m1", testFrame("fills queue")))
	require.False(t, s.TryEnqueue("m2", testFrame("dropped")))

	<-s.Messages()

	// The dropped id was never marked delivered, so a later attempt
	// (the catch-up scan) still queues it.
	assert.True(t, s.TryEnqueue("m2", testFrame("redelivered")))
	got := <-s.Messages()
	assert.Equal(t, []byte("redelivered"), got.Payload)
}

func TestSession_TryEnqueueAfterClose(t *testing.T) {
	s := newSession("agent-a", 2)
	s.close()

	assert.False(t, s.TryEnqueue("m1", testFrame("late")))
}

func TestSession_EnqueueBlocksForSpace(t *testing.T) {
	s := newSession("agent-a", 1)
	defer s.close()

	require.NoError(t, s.Enqueue(context.Background(), "m1", testFrame("one")))

	done := make(chan error, 1)
	go func() {
		done <- s.Enqueue(context.Background(), "m2", testFrame("two"))
	}()

	select {
	case err := <-done:
		t.Fatalf("enqueue completed against a full queue: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	<-s.Messages()
	require.NoError(t, <-done)

	got := <-s.Messages()
	assert.Equal(t, []byte("two"), got.Payload)
}

func TestSession_EnqueueDuplicateReturnsWithoutBlocking(t *testing.T) {
	s := newSession("agent-a", 1)
	defer s.close()

	require.NoError(t, s.Enqueue(context.Background(), "m1", testFrame("one")))
	// Queue is full, but m1 is already delivered: must not block.
	require.NoError(t, s.Enqueue(context.Background(), "m1", testFrame("copy")))
	assert.Len(t, s.queue, 1)
}

func TestSession_EnqueueSessionClosed(t *testing.T) {
	s := newSession("agent-a", 0)

	done := make(chan error, 1)
	go func() {
		done <- s.Enqueue(context.Background(), "m1", testFrame("stuck"))
	}()

	s.close()
	assert.ErrorIs(t, <-done, ErrSessionClosed)
}

func TestSession_EnqueueContextCancelled(t *testing.T) {
	s := newSession("agent-a", 0)
	defer s.close()

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- s.Enqueue(ctx, "m1", testFrame("stuck"))
	}()

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestSession_Done(t *testing.T) {
	s := newSession("agent-a", 2)

	select {
	case <-s.Done():
		t.Fatal("session reported done before close")
	default:
	}

	s.close()
	s.close() // idempotent

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("session not done after close")
	}
}

func TestSession_DistinctIDsAllQueued(t *testing.T) {
	s := newSession("agent-a", 64)
	defer s.close()

	for i := 0; i < 64; i++ {
		require.True(t, s.TryEnqueue(fmt.Sprintf("m%d", i), testFrame("payload")))
	}
	assert.Len(t, s.queue, 64)
}
