// ABOUTME: Session type representing one bound message stream for an agent
// ABOUTME: Owns the bounded outbound queue and the delivered-id cache

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/agentmesh/meshhub/internal/dedupe"
	pb "github.com/agentmesh/meshhub/proto/mesh"
)

// ErrSessionClosed indicates the session was torn down while enqueueing.
var ErrSessionClosed = errors.New("session closed")

// Delivered-id cache bounds. Replay overlap happens within a poll interval
// or two, so a short TTL is plenty.
const (
	deliveredTTL = 5 * time.Minute
	deliveredCap = 4096
)

// Session is one bound message stream for an agent. The hub's stream
// handler drains Messages and writes to the wire; the router and the
// replay loop fill the queue from the other side.
//
// Both enqueue paths deduplicate by message id, and an id is marked
// delivered only once its frame is actually queued. A frame dropped on
// overflow stays unmarked so a later catch-up scan re-delivers it.
type Session struct {
	AgentID string
	BoundAt time.Time

	queue  chan *pb.AgentMessage
	ctx    context.Context
	cancel context.CancelFunc
	seen   *dedupe.Cache
	closer sync.Once
}

func newSession(agentID string, queueCap int) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		AgentID: agentID,
		BoundAt: time.Now().UTC(),
		queue:   make(chan *pb.AgentMessage, queueCap),
		ctx:     ctx,
		cancel:  cancel,
		seen:    dedupe.New(deliveredTTL, deliveredCap),
	}
}

// Messages is the outbound queue. The stream handler is its only reader.
func (s *Session) Messages() <-chan *pb.AgentMessage {
	return s.queue
}

// Done is closed when the session is torn down, either by Release or by a
// newer Bind for the same agent.
func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

// TryEnqueue queues the frame without blocking. It returns true when the
// frame is queued or the message was already delivered on this session,
// false when the session is torn down or the queue is full. A false from
// overflow leaves the id unmarked, so the catch-up scan picks it up.
func (s *Session) TryEnqueue(messageID string, frame *pb.AgentMessage) bool {
	select {
	case <-s.ctx.Done():
		return false
	default:
	}

	if s.seen.Check(messageID) {
		return true
	}

	select {
	case s.queue <- frame:
		s.seen.Mark(messageID)
		return true
	default:
		return false
	}
}

// Enqueue blocks until the frame is queued, the session is torn down, or
// ctx is cancelled. Replay uses this so a slow consumer applies
// backpressure instead of losing scanned messages. Duplicates return nil
// without touching the queue.
func (s *Session) Enqueue(ctx context.Context, messageID string, frame *pb.AgentMessage) error {
	if s.seen.Check(messageID) {
		return nil
	}

	select {
	case s.queue <- frame:
		s.seen.Mark(messageID)
		return nil
	case <-s.ctx.Done():
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close tears the session down: wakes the stream handler and any blocked
// enqueuers, and stops the dedupe cache. Safe to call multiple times.
func (s *Session) close() {
	s.closer.Do(func() {
		s.cancel()
		s.seen.Close()
	})
}
