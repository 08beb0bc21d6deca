// Package hub orchestrates the meshhub server components.
//
// # Overview
//
// The hub package is the central coordinator of the meshhub server. It
// owns and manages all major components: gRPC server, HTTP server,
// session table, message store, router, and catch-up replay.
//
// # Hub Struct
//
// The Hub struct is the main entry point:
//
//	type Hub struct {
//	    config     *config.Config
//	    store      store.Store
//	    sessions   *session.Table
//	    router     *Router
//	    replay     *replayLoop
//	    tokens     *auth.JWTVerifier
//	    grpcServer *grpc.Server
//	    httpServer *http.Server
//	    // ... and more
//	}
//
// # HTTP API
//
// The hub exposes HTTP endpoints in api.go:
//
//   - POST /token - Re-issue a token for a known agent id
//   - POST /messages/send - Send a message without a stream
//   - GET /agents - List the caller's conversation partners
//   - GET /conversations/{other_agent_id} - Two-way history with another agent
//   - GET /messages - Filtered message history
//   - GET /messages/stream - Live message push (SSE)
//   - GET /health - Liveness check
//   - GET /ready - Readiness check
//   - GET /metrics - Prometheus metrics
//
// All query endpoints take an agent_id parameter that must match the
// Bearer token's identity.
//
// # SSE Streaming
//
// /messages/stream pushes messages as Server-Sent Events:
//
//	data: {"message_id": "...", "sender_id": "...", "payload": "..."}
//
//	:heartbeat
//
// The cursor starts at connect time, so subscribers see live traffic
// only; history belongs to the query endpoints. A comment line every
// poll keeps proxies from timing out the stream.
//
// # gRPC Services
//
// The hub implements two gRPC services:
//
//	service AgentRegistry {
//	    rpc RegisterAgent(RegisterAgentRequest) returns (RegisterAgentResponse);
//	}
//
//	service AgentComm {
//	    rpc StreamMessages(stream AgentMessage) returns (stream AgentMessage);
//	}
//
// Registration is open and mints a fresh identity per call. The stream
// requires a Bearer token and the first frame's sender_id must match it.
//
// # Message Routing
//
// Every inbound frame is persisted first, then routed to live sessions:
//
//  1. DIRECT goes to the recipient's session if one is bound
//  2. BROADCAST and EVENT fan out to every session except the sender's
//  3. HEARTBEAT is accepted and discarded
//
// A full session queue drops the live delivery; the replay scan picks
// the message up on its next pass.
//
// # Catch-up Replay
//
// Each stream runs a replay loop that polls the store for messages the
// agent has not seen, starting from the beginning of time. Sessions
// deduplicate by message id, so the live path and the replay path can
// race without double delivery.
//
// # Lifecycle
//
// Start the hub:
//
//	h, err := hub.New(ctx, cfg, logger)
//	err = h.Run(ctx)
//
// Run blocks until SIGINT/SIGTERM or a server error, then drains
// sessions and shuts both servers down gracefully.
//
// # Key Files
//
//   - hub.go: Hub struct, initialization, Run/Shutdown
//   - api.go: HTTP handlers and SSE streaming
//   - grpc.go: stream intake and per-session send loop
//   - router.go: kind-based fan-out to live sessions
//   - replay.go: persistent catch-up scan with backoff
package hub
