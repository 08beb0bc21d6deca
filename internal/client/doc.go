// Package client is the Go SDK for connecting agents to a meshhub server.
//
// # Overview
//
// This package wraps the hub's two surfaces behind one import: the gRPC
// services (registration and bidirectional message streaming) and the HTTP
// API (token issuance, sends, history queries, SSE). The fake-agent command
// is built entirely on this package and doubles as its reference usage.
//
// # Registration
//
// Register calls the AgentRegistry service and returns the server-assigned
// agent id and session token. Every call mints a fresh identity; agents that
// want to keep an id across restarts must persist it and use IssueToken to
// refresh the token instead:
//
//	reg, err := client.Register(ctx, "localhost:9090", "builder", "worker")
//	// reg.AgentID, reg.Token
//
// # Streaming
//
// Connect opens the bidirectional message stream as a registered agent. The
// first frame on the wire is an identity-bearing heartbeat, which the hub
// requires before any traffic. Received messages arrive on a channel;
// sending is explicit:
//
//	stream, err := client.Connect(ctx, "localhost:9090", reg.AgentID, reg.Token)
//	defer stream.Close()
//
//	go func() {
//		for msg := range stream.Messages() {
//			log.Printf("from %s: %s", msg.GetSenderId(), msg.GetPayload())
//		}
//	}()
//	stream.SendBroadcast("hello all")
//
// The stream does not reconnect on its own. When Messages closes, check
// Err and dial again; the hub replays anything missed while disconnected.
//
// # HTTP API
//
// HTTPClient covers the query-and-send surface for one agent:
//
//	hc := client.NewHTTPClient("http://localhost:8080", reg.AgentID, reg.Token)
//	receipt, err := hc.SendMessage(ctx, client.SendOptions{
//		RecipientID: peer,
//		Payload:     "ping",
//	})
//	partners, err := hc.ListAgents(ctx)
//	history, err := hc.Conversation(ctx, peer, 50, 0)
//
// StreamEvents subscribes to the live SSE feed, delivering messages appended
// after the subscription starts.
//
// # Key Files
//
//   - register.go: One-shot gRPC registration
//   - stream.go: Bidirectional message stream wrapper
//   - http.go: Token, send, and history helpers
//   - sse.go: SSE subscriber
package client
