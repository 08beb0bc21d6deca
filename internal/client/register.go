// ABOUTME: Agent registration against the hub's AgentRegistry service
// ABOUTME: Dials the hub, requests an identity, and returns the id and token

package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	pb "github.com/agentmesh/meshhub/proto/mesh"
)

// Registration is the identity the hub hands out. The token authenticates
// every later stream and HTTP call; the id is how other agents address
// this one.
type Registration struct {
	AgentID string
	Token   string
	Message string
}

// Register requests a fresh identity from the hub at addr. Every call
// returns a new agent id; re-registering never revokes earlier identities.
func Register(ctx context.Context, addr, name, agentType string) (*Registration, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connecting to hub: %w", err)
	}
	defer conn.Close()

	resp, err := pb.NewAgentRegistryClient(conn).RegisterAgent(ctx, &pb.RegisterAgentRequest{
		AgentName: name,
		AgentType: agentType,
	})
	if err != nil {
		return nil, fmt.Errorf("registering agent: %w", err)
	}

	return &Registration{
		AgentID: resp.GetAgentId(),
		Token:   resp.GetToken(),
		Message: resp.GetMessage(),
	}, nil
}
