// Package auth provides token authentication for meshhub.
//
// # Tokens
//
// Agents authenticate with JWT bearer tokens signed with HS256 using the
// configured jwt_secret. A token is minted at registration time and carries
// two claims that matter:
//
//   - agent_id: the server-assigned agent identifier
//   - exp: expiry, one hour after issue by default
//
// Tokens are self-contained. The hub keeps no registered-agent table, so a
// valid signature and an unexpired exp claim are the whole check.
//
// # gRPC
//
// StreamInterceptor authenticates the message stream:
//
//	grpc.StreamInterceptor(auth.StreamInterceptor(verifier, logger))
//
// It reads "authorization: Bearer <token>" from the stream metadata, verifies
// it, and attaches an AuthContext to the stream context. Registration is the
// only unary method and stays open, so no unary interceptor exists.
//
// Note that the interceptor only establishes who the caller is. The stream
// handler separately checks that the first frame's sender_id matches the
// token's agent_id before binding a session.
//
// # HTTP
//
// HTTPAuthMiddleware guards the REST endpoints with the same bearer scheme.
// StreamAuthMiddleware additionally accepts ?token= for the SSE endpoint
// because browser EventSource clients cannot set request headers.
//
// Handlers retrieve the identity with FromContext:
//
//	authCtx := auth.FromContext(r.Context())
//	agentID := authCtx.AgentID
package auth
