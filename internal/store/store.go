// ABOUTME: Store interface and data types for meshhub message persistence
// ABOUTME: Defines the Message struct, kind constants, and the append/scan contract

package store

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// Kind identifies how a message is routed. Values match the wire enum.
type Kind int16

const (
	KindDirect    Kind = 0
	KindBroadcast Kind = 1
	KindEvent     Kind = 2
	KindHeartbeat Kind = 3
)

// Valid reports whether k is one of the known message kinds.
func (k Kind) Valid() bool {
	return k >= KindDirect && k <= KindHeartbeat
}

func (k Kind) String() string {
	switch k {
	case KindDirect:
		return "direct"
	case KindBroadcast:
		return "broadcast"
	case KindEvent:
		return "event"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Message is a single persisted hub message. ID and Timestamp are assigned
// by the store at append time; the hub never trusts client-supplied values
// for either.
type Message struct {
	ID            string
	SenderID      string
	RecipientID   string // empty for broadcast/event
	Kind          Kind
	Payload       []byte
	Timestamp     time.Time // server-assigned, UTC, strictly increasing per store
	CorrelationID string
}

// ConversationPartner is an agent another agent has exchanged messages with.
type ConversationPartner struct {
	AgentID         string
	LastMessageTime time.Time
}

// MessageFilter narrows ListMessages results. Zero-value fields are ignored.
type MessageFilter struct {
	Start  *time.Time
	End    *time.Time
	Kind   *Kind
	Limit  int // defaults to 100 when <= 0
	Offset int
}

// Store is the persistence contract for hub messages.
//
// Append assigns msg.ID and msg.Timestamp and writes the row. Timestamps are
// strictly greater than those of all previously appended messages under the
// same store, even with concurrent appenders.
//
// ScanAfter returns every message newer than after that the given agent
// would have received from the live router: addressed to it directly,
// addressed to nobody, or a broadcast/event. Messages the agent sent itself
// are excluded. Results are ordered by (timestamp, message_id) ascending.
type Store interface {
	Append(ctx context.Context, msg *Message) error
	ScanAfter(ctx context.Context, agentID string, after time.Time) ([]*Message, error)

	// Query surface for the HTTP API.
	ListConversationPartners(ctx context.Context, agentID string) ([]*ConversationPartner, error)
	Conversation(ctx context.Context, agentID, otherID string, limit, offset int) ([]*Message, error)
	ListMessages(ctx context.Context, agentID string, filter MessageFilter) ([]*Message, error)

	Close() error
}

// timestampGuard hands out strictly increasing UTC timestamps. Both backends
// serialize timestamp assignment through one guard so that the monotonicity
// guarantee holds under concurrent appenders regardless of the database's
// own clock behavior. Timestamps are truncated to microseconds because
// timestamptz stores no finer.
type timestampGuard struct {
	mu   sync.Mutex
	last time.Time
}

func (g *timestampGuard) next() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UTC().Truncate(time.Microsecond)
	if !now.After(g.last) {
		now = g.last.Add(time.Microsecond)
	}
	g.last = now
	return now
}

func (f MessageFilter) limit() int {
	if f.Limit <= 0 {
		return 100
	}
	return f.Limit
}
