// ABOUTME: Per-session catch-up loop scanning the store for missed messages
// ABOUTME: Epoch-sentinel cursor, sleep-then-scan cadence, capped backoff on failure

package hub

import (
	"context"
	"log/slog"
	"time"

	"github.com/agentmesh/meshhub/internal/config"
	"github.com/agentmesh/meshhub/internal/metrics"
	"github.com/agentmesh/meshhub/internal/session"
	"github.com/agentmesh/meshhub/internal/store"
)

// replayLoop re-delivers persisted messages a session's agent has not
// received yet. One goroutine per bound session runs run; all loops share
// this immutable configuration.
type replayLoop struct {
	store        store.Store
	pollInterval time.Duration
	maxBackoff   time.Duration
	logger       *slog.Logger
}

func newReplayLoop(st store.Store, pollInterval, maxBackoff time.Duration, logger *slog.Logger) *replayLoop {
	if pollInterval <= 0 {
		pollInterval = config.DefaultPollInterval
	}
	if maxBackoff < pollInterval {
		maxBackoff = config.DefaultMaxBackoff
	}
	return &replayLoop{
		store:        st,
		pollInterval: pollInterval,
		maxBackoff:   maxBackoff,
		logger:       logger,
	}
}

// run polls the store for messages the agent missed and enqueues them in
// order, blocking on a full queue rather than truncating a batch. The
// cursor starts at the epoch sentinel, so a reconnecting agent sees its
// whole visible history again; the session's dedupe cache and the
// receiver make that at-least-once behavior tolerable.
//
// run returns when the session is torn down or ctx is cancelled. A failed
// scan backs off exponentially up to maxBackoff and never ends the loop.
func (r *replayLoop) run(ctx context.Context, sess *session.Session) {
	cursor := time.Time{}
	delay := r.pollInterval

	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sess.Done():
			return
		case <-timer.C:
		}

		metrics.ReplayScans.Inc()
		msgs, err := r.store.ScanAfter(ctx, sess.AgentID, cursor)
		if err != nil {
			metrics.ReplayScanErrors.Inc()
			r.logger.Warn("catch-up scan failed, backing off",
				"agent_id", sess.AgentID,
				"retry_in", delay,
				"error", err,
			)
			timer.Reset(delay)
			delay = r.nextBackoff(delay)
			continue
		}

		for _, msg := range msgs {
			if err := sess.Enqueue(ctx, msg.ID, outboundFrame(msg)); err != nil {
				// Session torn down or shutdown; the cursor dies with us.
				return
			}
			cursor = msg.Timestamp
		}

		if len(msgs) > 0 {
			r.logger.Debug("catch-up scan delivered messages",
				"agent_id", sess.AgentID,
				"count", len(msgs),
			)
		}

		delay = r.pollInterval
		timer.Reset(delay)
	}
}

// nextBackoff doubles the retry delay up to the configured cap.
func (r *replayLoop) nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > r.maxBackoff {
		next = r.maxBackoff
	}
	return next
}
