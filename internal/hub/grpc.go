// ABOUTME: AgentComm gRPC service implementing the bidirectional message stream
// ABOUTME: First-frame identity check, persist-then-route ingest, queue drain to the wire

package hub

import (
	"context"
	"io"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/agentmesh/meshhub/internal/auth"
	"github.com/agentmesh/meshhub/internal/metrics"
	"github.com/agentmesh/meshhub/internal/session"
	"github.com/agentmesh/meshhub/internal/store"
	pb "github.com/agentmesh/meshhub/proto/mesh"
)

// commServer implements the AgentComm gRPC service.
type commServer struct {
	pb.UnimplementedAgentCommServer
	hub    *Hub
	logger *slog.Logger
}

func newCommServer(h *Hub, logger *slog.Logger) *commServer {
	return &commServer{
		hub:    h,
		logger: logger,
	}
}

// StreamMessages handles one agent's bidirectional stream.
//
// The interceptor has already verified the bearer token. The first frame
// must carry a sender_id matching the token identity; the stream is
// rejected before any session state exists if it does not. After the
// session binds, this goroutine ingests inbound frames (persist, then
// route) while a sender goroutine drains the session queue to the wire
// and a replay goroutine scans for missed history.
func (s *commServer) StreamMessages(stream pb.AgentComm_StreamMessagesServer) error {
	ctx := stream.Context()
	authCtx := auth.MustFromContext(ctx)

	first, err := stream.Recv()
	if err != nil {
		if err == io.EOF {
			return nil
		}
		return status.Errorf(codes.Internal, "receiving first frame: %v", err)
	}

	if first.GetSenderId() != authCtx.AgentID {
		s.logger.Warn("first frame sender does not match token identity",
			"agent_id", authCtx.AgentID,
			"claimed_sender_id", first.GetSenderId(),
		)
		return status.Error(codes.Unauthenticated, "sender ID does not match token agent ID")
	}

	sess := s.hub.sessions.Bind(authCtx.AgentID)
	defer s.hub.sessions.Release(sess)

	go s.sendLoop(stream, sess)
	go s.hub.replay.run(ctx, sess)

	// The first frame is an ordinary message once the identity check has
	// passed.
	s.ingestFrame(ctx, first, sess.AgentID)

	for {
		frame, err := stream.Recv()
		if err != nil {
			if err == io.EOF {
				s.logger.Info("agent closed stream", "agent_id", sess.AgentID)
				return nil
			}
			if status.Code(err) == codes.Canceled {
				s.logger.Info("agent stream cancelled", "agent_id", sess.AgentID)
				return nil
			}
			s.logger.Error("receiving frame", "agent_id", sess.AgentID, "error", err)
			return status.Errorf(codes.Internal, "receiving frame: %v", err)
		}

		s.ingestFrame(ctx, frame, sess.AgentID)
	}
}

// ingestFrame persists one inbound frame and hands it to the router.
// Heartbeats keep the transport alive and are neither persisted nor
// routed. The authenticated identity stamps the stored row; after the
// first frame the wire sender_id is advisory. A failed append is logged
// and counted but never ends the stream.
func (s *commServer) ingestFrame(ctx context.Context, frame *pb.AgentMessage, agentID string) {
	kind := store.Kind(frame.GetMessageType())
	if kind == store.KindHeartbeat {
		s.logger.Debug("heartbeat", "agent_id", agentID)
		return
	}

	msg := &store.Message{
		SenderID:      agentID,
		RecipientID:   frame.GetRecipientId(),
		Kind:          kind,
		Payload:       frame.GetPayload(),
		CorrelationID: frame.GetCorrelationId(),
	}

	if err := s.hub.store.Append(ctx, msg); err != nil {
		metrics.PersistFailures.Inc()
		s.logger.Error("persisting message",
			"agent_id", agentID,
			"kind", kind.String(),
			"error", err,
		)
		return
	}
	metrics.MessagesPersisted.Inc()

	s.hub.router.Route(msg)
}

// sendLoop drains the session queue onto the wire. It exits when the
// session is torn down or a write fails; a broken transport surfaces to
// the ingest loop's Recv shortly after.
func (s *commServer) sendLoop(stream pb.AgentComm_StreamMessagesServer, sess *session.Session) {
	for {
		select {
		case <-sess.Done():
			return
		case frame := <-sess.Messages():
			if err := stream.Send(frame); err != nil {
				s.logger.Error("writing to stream", "agent_id", sess.AgentID, "error", err)
				return
			}
		}
	}
}
