// Package dedupe tracks delivered message ids behind a TTL so a session
// does not send the same message twice when reconnect replay and live
// routing overlap.
package dedupe
