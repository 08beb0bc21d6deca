// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides message persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	clock  timestampGuard
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if err := s.seedClock(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding timestamp guard: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist.
// Timestamps are stored as integer unix microseconds (UTC); microsecond
// resolution matches what the timestamp guard hands out.
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS agent_messages (
			message_id TEXT PRIMARY KEY,
			sender_id TEXT NOT NULL,
			recipient_id TEXT,
			message_type INTEGER NOT NULL,
			payload BLOB,
			timestamp INTEGER NOT NULL,
			correlation_id TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_agent_messages_timestamp
			ON agent_messages(timestamp);

		CREATE INDEX IF NOT EXISTS idx_agent_messages_recipient_timestamp
			ON agent_messages(recipient_id, timestamp);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}

	return nil
}

// seedClock advances the timestamp guard past the newest persisted row so
// monotonicity survives a restart even if the wall clock stepped backwards.
func (s *SQLiteStore) seedClock() error {
	var maxTS sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(timestamp) FROM agent_messages").Scan(&maxTS)
	if err != nil {
		return err
	}
	if maxTS.Valid {
		s.clock.last = time.UnixMicro(maxTS.Int64).UTC()
	}
	return nil
}

// Append persists the message, assigning its id and server timestamp.
func (s *SQLiteStore) Append(ctx context.Context, msg *Message) error {
	msg.ID = uuid.NewString()
	msg.Timestamp = s.clock.next()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO agent_messages (message_id, sender_id, recipient_id, message_type, payload, timestamp, correlation_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.SenderID, nullable(msg.RecipientID), int16(msg.Kind),
		msg.Payload, msg.Timestamp.UnixMicro(), nullable(msg.CorrelationID))
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}

	return nil
}

// ScanAfter returns the messages the agent would have received after the
// given time: addressed to it, addressed to nobody, or broadcast/event,
// excluding its own sends.
func (s *SQLiteStore) ScanAfter(ctx context.Context, agentID string, after time.Time) ([]*Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT message_id, sender_id, recipient_id, message_type, payload, timestamp, correlation_id
		FROM agent_messages
		WHERE timestamp > ?
		  AND sender_id != ?
		  AND (recipient_id = ? OR recipient_id IS NULL OR message_type IN (?, ?))
		ORDER BY timestamp ASC, message_id ASC`,
		after.UnixMicro(), agentID, agentID, KindBroadcast, KindEvent)
	if err != nil {
		return nil, fmt.Errorf("scanning messages: %w", err)
	}
	defer rows.Close()

	return collectSQLiteMessages(rows)
}

// ListConversationPartners returns the agents the given agent has exchanged
// direct messages with, most recently active first.
func (s *SQLiteStore) ListConversationPartners(ctx context.Context, agentID string) ([]*ConversationPartner, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT partner, MAX(timestamp) AS last_message_time
		FROM (
			SELECT CASE WHEN sender_id = ? THEN recipient_id ELSE sender_id END AS partner, timestamp
			FROM agent_messages
			WHERE sender_id = ? OR recipient_id = ?
		)
		WHERE partner IS NOT NULL AND partner != '' AND partner != ?
		GROUP BY partner
		ORDER BY last_message_time DESC`,
		agentID, agentID, agentID, agentID)
	if err != nil {
		return nil, fmt.Errorf("listing conversation partners: %w", err)
	}
	defer rows.Close()

	var partners []*ConversationPartner
	for rows.Next() {
		var (
			p  ConversationPartner
			ts int64
		)
		if err := rows.Scan(&p.AgentID, &ts); err != nil {
			return nil, fmt.Errorf("scanning partner row: %w", err)
		}
		p.LastMessageTime = time.UnixMicro(ts).UTC()
		partners = append(partners, &p)
	}
	return partners, rows.Err()
}

// Conversation returns the two-way message history between two agents,
// newest first.
func (s *SQLiteStore) Conversation(ctx context.Context, agentID, otherID string, limit, offset int) ([]*Message, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT message_id, sender_id, recipient_id, message_type, payload, timestamp, correlation_id
		FROM agent_messages
		WHERE (sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)
		ORDER BY timestamp DESC, message_id DESC
		LIMIT ? OFFSET ?`,
		agentID, otherID, otherID, agentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying conversation: %w", err)
	}
	defer rows.Close()

	return collectSQLiteMessages(rows)
}

// ListMessages returns messages visible to the agent, newest first, with
// optional time-range and kind filters.
func (s *SQLiteStore) ListMessages(ctx context.Context, agentID string, filter MessageFilter) ([]*Message, error) {
	conds := []string{"(sender_id = ? OR recipient_id = ? OR recipient_id IS NULL)"}
	args := []any{agentID, agentID}

	if filter.Start != nil {
		conds = append(conds, "timestamp >= ?")
		args = append(args, filter.Start.UnixMicro())
	}
	if filter.End != nil {
		conds = append(conds, "timestamp <= ?")
		args = append(args, filter.End.UnixMicro())
	}
	if filter.Kind != nil {
		conds = append(conds, "message_type = ?")
		args = append(args, *filter.Kind)
	}
	args = append(args, filter.limit(), filter.Offset)

	query := fmt.Sprintf(`
		SELECT message_id, sender_id, recipient_id, message_type, payload, timestamp, correlation_id
		FROM agent_messages
		WHERE %s
		ORDER BY timestamp DESC, message_id DESC
		LIMIT ? OFFSET ?`, strings.Join(conds, " AND "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	return collectSQLiteMessages(rows)
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func collectSQLiteMessages(rows *sql.Rows) ([]*Message, error) {
	var msgs []*Message
	for rows.Next() {
		var (
			m         Message
			recipient sql.NullString
			corr      sql.NullString
			kind      int16
			ts        int64
		)
		if err := rows.Scan(&m.ID, &m.SenderID, &recipient, &kind, &m.Payload, &ts, &corr); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		m.RecipientID = recipient.String
		m.CorrelationID = corr.String
		m.Kind = Kind(kind)
		m.Timestamp = time.UnixMicro(ts).UTC()
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}

// nullable maps empty strings to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
