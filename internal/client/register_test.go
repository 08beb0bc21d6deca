// ABOUTME: Tests for one-shot agent registration against an in-process hub
// ABOUTME: Covers successful registration and unreachable-hub errors

package client

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	hub := startFakeHub(t)

	reg, err := Register(t.Context(), hub.addr, "builder", "worker")
	require.NoError(t, err)

	assert.Equal(t, "3f8deab2-1f60-4a92-9f8e-000000000001", reg.AgentID)
	assert.Equal(t, "fake-token", reg.Token)
	assert.Equal(t, "Registration successful", reg.Message)

	hub.mu.Lock()
	defer hub.mu.Unlock()
	require.Len(t, hub.registered, 1)
	assert.Equal(t, "builder", hub.registered[0].GetAgentName())
	assert.Equal(t, "worker", hub.registered[0].GetAgentType())
}

func TestRegisterUnreachableHub(t *testing.T) {
	// Grab a port with no server behind it.
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	ctx, cancel := context.WithTimeout(t.Context(), 500*time.Millisecond)
	defer cancel()

	_, err = Register(ctx, addr, "builder", "worker")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registering agent")
}
