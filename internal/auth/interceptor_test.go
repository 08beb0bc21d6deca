// ABOUTME: Unit tests for the gRPC stream auth interceptor
// ABOUTME: Tests metadata extraction, token verification, and context injection

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// fakeServerStream carries a custom context through the interceptor.
type fakeServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (f *fakeServerStream) Context() context.Context {
	return f.ctx
}

func newTestVerifier(t *testing.T) *JWTVerifier {
	t.Helper()
	return NewJWTVerifier([]byte("interceptor-test-secret"))
}

func invokeInterceptor(t *testing.T, verifier TokenVerifier, ctx context.Context, handler grpc.StreamHandler) error {
	t.Helper()
	interceptor := StreamInterceptor(verifier, nil)
	stream := &fakeServerStream{ctx: ctx}
	info := &grpc.StreamServerInfo{FullMethod: "/mesh.AgentComm/StreamMessages", IsClientStream: true, IsServerStream: true}
	return interceptor(nil, stream, info, handler)
}

func TestStreamInterceptor_ValidToken(t *testing.T) {
	verifier := newTestVerifier(t)
	token, err := verifier.Generate("agent-abc", time.Hour)
	require.NoError(t, err)

	ctx := metadata.NewIncomingContext(context.Background(),
		metadata.Pairs("authorization", "Bearer "+token))

	var handlerCalled bool
	err = invokeInterceptor(t, verifier, ctx, func(srv any, ss grpc.ServerStream) error {
		handlerCalled = true
		authCtx := FromContext(ss.Context())
		require.NotNil(t, authCtx)
		assert.Equal(t, "agent-abc", authCtx.AgentID)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, handlerCalled)
}

func TestStreamInterceptor_Rejections(t *testing.T) {
	verifier := newTestVerifier(t)

	expired, err := verifier.Generate("agent-abc", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		ctx     context.Context
		wantMsg string
	}{
		{
			name:    "no metadata",
			ctx:     context.Background(),
			wantMsg: "missing or invalid authorization token",
		},
		{
			name:    "no authorization header",
			ctx:     metadata.NewIncomingContext(context.Background(), metadata.Pairs("other", "value")),
			wantMsg: "missing or invalid authorization token",
		},
		{
			name: "not a bearer token",
			ctx: metadata.NewIncomingContext(context.Background(),
				metadata.Pairs("authorization", "Basic dXNlcjpwYXNz")),
			wantMsg: "missing or invalid authorization token",
		},
		{
			name: "garbage token",
			ctx: metadata.NewIncomingContext(context.Background(),
				metadata.Pairs("authorization", "Bearer not-a-jwt")),
			wantMsg: "invalid token",
		},
		{
			name: "expired token",
			ctx: metadata.NewIncomingContext(context.Background(),
				metadata.Pairs("authorization", "Bearer "+expired)),
			wantMsg: "token expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := invokeInterceptor(t, verifier, tt.ctx, func(srv any, ss grpc.ServerStream) error {
				t.Fatal("handler must not run for rejected streams")
				return nil
			})

			require.Error(t, err)
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, codes.Unauthenticated, st.Code())
			assert.Equal(t, tt.wantMsg, st.Message())
		})
	}
}

func TestStreamInterceptor_WrongSecret(t *testing.T) {
	verifier := newTestVerifier(t)

	other := NewJWTVerifier([]byte("some-other-secret"))
	token, err := other.Generate("agent-abc", time.Hour)
	require.NoError(t, err)

	ctx := metadata.NewIncomingContext(context.Background(),
		metadata.Pairs("authorization", "Bearer "+token))

	err = invokeInterceptor(t, verifier, ctx, func(srv any, ss grpc.ServerStream) error {
		return nil
	})

	require.Error(t, err)
	st, _ := status.FromError(err)
	assert.Equal(t, codes.Unauthenticated, st.Code())
	assert.Equal(t, "invalid token", st.Message())
}
