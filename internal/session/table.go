// ABOUTME: Session table mapping agent ids to their single live session
// ABOUTME: Bind tears down any prior session so an agent has at most one stream

package session

import (
	"log/slog"
	"sync"

	"github.com/agentmesh/meshhub/internal/metrics"
)

// DefaultQueueSize bounds each session's outbound queue when the config
// doesn't say otherwise.
const DefaultQueueSize = 256

// Table tracks the live session for each agent. One lock serializes bind,
// release, and lookup, and is never held across an enqueue.
type Table struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	queueCap int
	logger   *slog.Logger
}

// NewTable creates a new session table. queueCap <= 0 selects
// DefaultQueueSize.
func NewTable(queueCap int, logger *slog.Logger) *Table {
	if queueCap <= 0 {
		queueCap = DefaultQueueSize
	}
	return &Table{
		sessions: make(map[string]*Session),
		queueCap: queueCap,
		logger:   logger,
	}
}

// Bind registers a fresh session for the agent. Any existing session is
// torn down first so an agent never has two live streams; the old stream
// handler wakes up via Done holding a session that is no longer bound.
func (t *Table) Bind(agentID string) *Session {
	sess := newSession(agentID, t.queueCap)

	t.mu.Lock()
	prev := t.sessions[agentID]
	t.sessions[agentID] = sess
	total := len(t.sessions)
	t.mu.Unlock()

	if prev != nil {
		prev.close()
		t.logger.Info("tearing down replaced session", "agent_id", agentID)
	}

	metrics.SessionsActive.Set(float64(total))
	t.logger.Info("=== AGENT CONNECTED ===",
		"agent_id", agentID,
		"total_sessions", total,
	)
	return sess
}

// Release tears the session down and removes it from the table if it is
// still the bound one. A session already replaced by a newer Bind must not
// evict its replacement.
func (t *Table) Release(sess *Session) {
	sess.close()

	t.mu.Lock()
	cur, ok := t.sessions[sess.AgentID]
	current := ok && cur == sess
	if current {
		delete(t.sessions, sess.AgentID)
	}
	total := len(t.sessions)
	t.mu.Unlock()

	if !current {
		return
	}

	metrics.SessionsActive.Set(float64(total))
	t.logger.Info("=== AGENT DISCONNECTED ===",
		"agent_id", sess.AgentID,
		"total_sessions", total,
	)
}

// Lookup returns the live session for the agent, if any.
func (t *Table) Lookup(agentID string) (*Session, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	sess, ok := t.sessions[agentID]
	return sess, ok
}

// Snapshot returns the bound sessions at a point in time. Fan-out happens
// against the returned slice, not under the table lock.
func (t *Table) Snapshot() []*Session {
	t.mu.RLock()
	defer t.mu.RUnlock()

	sessions := make([]*Session, 0, len(t.sessions))
	for _, sess := range t.sessions {
		sessions = append(sessions, sess)
	}
	return sessions
}

// Len returns the number of bound sessions.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}

// CloseAll tears down every session and empties the table. Used at
// shutdown after the gRPC server stops accepting new streams.
func (t *Table) CloseAll() {
	t.mu.Lock()
	sessions := make([]*Session, 0, len(t.sessions))
	for _, sess := range t.sessions {
		sessions = append(sessions, sess)
	}
	t.sessions = make(map[string]*Session)
	t.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
	metrics.SessionsActive.Set(0)
}
