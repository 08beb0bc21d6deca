// ABOUTME: Agent registry service minting identities and bearer tokens
// ABOUTME: Implements the unary RegisterAgent RPC

package registry

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/agentmesh/meshhub/internal/auth"
	"github.com/agentmesh/meshhub/internal/metrics"
	pb "github.com/agentmesh/meshhub/proto/mesh"
)

// Service implements the AgentRegistry gRPC service. Every call mints a
// fresh identity; nothing about the agent is persisted, the token is the
// registration.
type Service struct {
	pb.UnimplementedAgentRegistryServer

	tokens   *auth.JWTVerifier
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewService creates a registry backed by the given token minter.
// tokenTTL <= 0 selects one hour.
func NewService(tokens *auth.JWTVerifier, tokenTTL time.Duration, logger *slog.Logger) *Service {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &Service{
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// RegisterAgent assigns a new agent id and returns it with a signed token.
// The requested name and type are advisory; they show up in logs and
// nowhere else. Registering twice yields two independent identities.
func (s *Service) RegisterAgent(ctx context.Context, req *pb.RegisterAgentRequest) (*pb.RegisterAgentResponse, error) {
	agentID := uuid.NewString()

	token, err := s.tokens.Generate(agentID, s.tokenTTL)
	if err != nil {
		s.logger.Error("minting token failed", "error", err)
		return nil, status.Error(codes.Internal, "failed to generate token")
	}

	metrics.RegistrationsTotal.Inc()
	s.logger.Info("agent registered",
		"agent_id", agentID,
		"agent_name", req.GetAgentName(),
		"agent_type", req.GetAgentType(),
	)

	return &pb.RegisterAgentResponse{
		AgentId: agentID,
		Token:   token,
		Message: "Registration successful",
	}, nil
}
