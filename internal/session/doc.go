// Package session tracks which agents currently hold a live message
// stream and owns the queue between the hub and each stream writer.
//
// # One stream per agent
//
// The Table maps agent id to at most one Session. Bind installs a fresh
// session and tears down whatever was bound before, so a reconnecting
// agent displaces its old stream instead of racing it. Teardown is a
// context cancellation: the old stream handler sees Done and exits, and
// an identity check in Release keeps it from evicting its replacement.
//
// # Queues
//
// Each session carries a bounded channel of outbound messages. The live
// router fills it with TryEnqueue and treats a full queue as a drop (the
// message is already persisted; replay will find it). The replay loop
// fills it with the blocking Enqueue so catch-up applies backpressure
// rather than losing scanned rows. The stream handler on the other end is
// the only reader.
//
// # Duplicate suppression
//
// Live routing and replay can pick up the same message. Both enqueue paths carry the
// message id and consult a per-session cache of recently delivered ids, so
// the agent sees each message once per connection even when both paths
// pick it up. An id is marked delivered only once its frame is queued; a
// drop on overflow leaves it unmarked for the next scan.
package session
