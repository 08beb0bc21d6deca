// ABOUTME: Bidirectional message stream client for the AgentComm service
// ABOUTME: Authenticates with the bearer token and pumps received frames to a channel

package client

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	pb "github.com/agentmesh/meshhub/proto/mesh"
)

// recvBuffer is the size of the channel between the receive loop and the
// caller. A slow caller backs up the gRPC flow control, not the hub.
const recvBuffer = 64

// Stream is one agent's live connection to the hub. Received frames
// arrive on Messages; the channel closes when the stream dies, with the
// cause available from Err. Reconnecting is the caller's concern: open a
// new Stream and the hub replays anything missed.
//
// Send and its wrappers must not be called concurrently.
type Stream struct {
	agentID string
	conn    *grpc.ClientConn
	stream  pb.AgentComm_StreamMessagesClient
	cancel  context.CancelFunc

	recv chan *pb.AgentMessage

	mu  sync.Mutex
	err error

	closeOnce sync.Once
	closeErr  error
}

// Connect opens an authenticated stream to the hub at addr and sends the
// identity-bearing first frame. The hub tears the stream down if agentID
// does not match the token.
func Connect(ctx context.Context, addr, agentID, token string) (*Stream, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connecting to hub: %w", err)
	}

	streamCtx, cancel := context.WithCancel(ctx)
	streamCtx = metadata.AppendToOutgoingContext(streamCtx, "authorization", "Bearer "+token)

	grpcStream, err := pb.NewAgentCommClient(conn).StreamMessages(streamCtx)
	if err != nil {
		cancel()
		_ = conn.Close()
		return nil, fmt.Errorf("opening stream: %w", err)
	}

	s := &Stream{
		agentID: agentID,
		conn:    conn,
		stream:  grpcStream,
		cancel:  cancel,
		recv:    make(chan *pb.AgentMessage, recvBuffer),
	}

	// First frame announces the sender. A heartbeat carries the identity
	// without becoming traffic.
	if err := s.Heartbeat(); err != nil {
		cancel()
		_ = conn.Close()
		return nil, fmt.Errorf("sending first frame: %w", err)
	}

	go s.recvLoop()
	return s, nil
}

// AgentID returns the identity this stream was opened with.
func (s *Stream) AgentID() string {
	return s.agentID
}

// Send transmits a frame, stamping this stream's agent id as the sender.
func (s *Stream) Send(msg *pb.AgentMessage) error {
	msg.SenderId = s.agentID
	return s.stream.Send(msg)
}

// SendDirect sends a payload to one agent.
func (s *Stream) SendDirect(recipientID string, payload []byte) error {
	return s.Send(&pb.AgentMessage{
		RecipientId: recipientID,
		MessageType: pb.AgentMessage_DIRECT,
		Payload:     payload,
	})
}

// SendBroadcast sends a payload to every other connected agent.
func (s *Stream) SendBroadcast(payload []byte) error {
	return s.Send(&pb.AgentMessage{
		MessageType: pb.AgentMessage_BROADCAST,
		Payload:     payload,
	})
}

// SendEvent publishes an event payload to every other connected agent.
func (s *Stream) SendEvent(payload []byte) error {
	return s.Send(&pb.AgentMessage{
		MessageType: pb.AgentMessage_EVENT,
		Payload:     payload,
	})
}

// Heartbeat tells the hub this agent is alive. Heartbeats are neither
// persisted nor routed.
func (s *Stream) Heartbeat() error {
	return s.Send(&pb.AgentMessage{MessageType: pb.AgentMessage_HEARTBEAT})
}

// Messages returns the channel of received frames. It closes when the
// stream ends; check Err for the cause.
func (s *Stream) Messages() <-chan *pb.AgentMessage {
	return s.recv
}

// Err reports why the receive loop stopped, once Messages has closed.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close ends the stream and releases the connection.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		err := s.stream.CloseSend()
		s.cancel()
		if cerr := s.conn.Close(); err == nil {
			err = cerr
		}
		s.closeErr = err
	})
	return s.closeErr
}

func (s *Stream) recvLoop() {
	defer close(s.recv)
	for {
		msg, err := s.stream.Recv()
		if err != nil {
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
			return
		}
		s.recv <- msg
	}
}
