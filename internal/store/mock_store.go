// ABOUTME: In-memory mock implementation of the Store interface for testing
// ABOUTME: Supports error injection for exercising persistence failure paths

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockStore is an in-memory implementation of Store for testing.
// Appended messages get the same server-assigned ids and monotonic
// timestamps as the real backends.
type MockStore struct {
	mu    sync.RWMutex
	clock timestampGuard
	msgs  []*Message

	appendErr error
	scanErr   error
}

// NewMockStore creates a new mock store
func NewMockStore() *MockStore {
	return &MockStore{}
}

// SetAppendError makes subsequent Append calls fail with err. Pass nil to clear.
func (m *MockStore) SetAppendError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendErr = err
}

// SetScanError makes subsequent ScanAfter calls fail with err. Pass nil to clear.
func (m *MockStore) SetScanError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scanErr = err
}

// Append persists the message in memory, assigning id and timestamp.
func (m *MockStore) Append(ctx context.Context, msg *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.appendErr != nil {
		return m.appendErr
	}

	msg.ID = uuid.NewString()
	msg.Timestamp = m.clock.next()

	stored := *msg
	m.msgs = append(m.msgs, &stored)
	return nil
}

func (m *MockStore) ScanAfter(ctx context.Context, agentID string, after time.Time) ([]*Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.scanErr != nil {
		return nil, m.scanErr
	}

	// msgs is already in (timestamp, id) order: timestamps are strictly
	// monotonic at append time.
	var out []*Message
	for _, msg := range m.msgs {
		if !msg.Timestamp.After(after) {
			continue
		}
		if msg.SenderID == agentID {
			continue
		}
		if msg.RecipientID != agentID && msg.RecipientID != "" &&
			msg.Kind != KindBroadcast && msg.Kind != KindEvent {
			continue
		}
		cp := *msg
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockStore) ListConversationPartners(ctx context.Context, agentID string) ([]*ConversationPartner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	last := make(map[string]time.Time)
	for _, msg := range m.msgs {
		var partner string
		switch {
		case msg.SenderID == agentID:
			partner = msg.RecipientID
		case msg.RecipientID == agentID:
			partner = msg.SenderID
		default:
			continue
		}
		if partner == "" || partner == agentID {
			continue
		}
		if msg.Timestamp.After(last[partner]) {
			last[partner] = msg.Timestamp
		}
	}

	partners := make([]*ConversationPartner, 0, len(last))
	for id, ts := range last {
		partners = append(partners, &ConversationPartner{AgentID: id, LastMessageTime: ts})
	}
	sort.Slice(partners, func(i, j int) bool {
		return partners[i].LastMessageTime.After(partners[j].LastMessageTime)
	})
	return partners, nil
}

func (m *MockStore) Conversation(ctx context.Context, agentID, otherID string, limit, offset int) ([]*Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	var matched []*Message
	for _, msg := range m.msgs {
		if (msg.SenderID == agentID && msg.RecipientID == otherID) ||
			(msg.SenderID == otherID && msg.RecipientID == agentID) {
			cp := *msg
			matched = append(matched, &cp)
		}
	}
	sortNewestFirst(matched)
	return page(matched, limit, offset), nil
}

func (m *MockStore) ListMessages(ctx context.Context, agentID string, filter MessageFilter) ([]*Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*Message
	for _, msg := range m.msgs {
		if msg.SenderID != agentID && msg.RecipientID != agentID && msg.RecipientID != "" {
			continue
		}
		if filter.Start != nil && msg.Timestamp.Before(*filter.Start) {
			continue
		}
		if filter.End != nil && msg.Timestamp.After(*filter.End) {
			continue
		}
		if filter.Kind != nil && msg.Kind != *filter.Kind {
			continue
		}
		cp := *msg
		matched = append(matched, &cp)
	}
	sortNewestFirst(matched)
	return page(matched, filter.limit(), filter.Offset), nil
}

// Close is a no-op for the mock store.
func (m *MockStore) Close() error {
	return nil
}

// All returns a copy of every stored message in append order.
func (m *MockStore) All() []*Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Message, len(m.msgs))
	for i, msg := range m.msgs {
		cp := *msg
		out[i] = &cp
	}
	return out
}

func sortNewestFirst(msgs []*Message) {
	sort.Slice(msgs, func(i, j int) bool {
		if !msgs[i].Timestamp.Equal(msgs[j].Timestamp) {
			return msgs[i].Timestamp.After(msgs[j].Timestamp)
		}
		return msgs[i].ID > msgs[j].ID
	})
}

func page(msgs []*Message, limit, offset int) []*Message {
	if offset >= len(msgs) {
		return nil
	}
	msgs = msgs[offset:]
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs
}
