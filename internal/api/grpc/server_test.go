package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"rentshare-backend/internal/api/grpc/interceptor"
	"rentshare-backend/internal/security"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakePinger struct {
	fail atomic.Bool
}

func (p *fakePinger) PingContext(ctx context.Context) error {
	if p.fail.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func dialBufconn(t *testing.T, s *grpc.Server) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHealthFollowsDatabase(t *testing.T) {
	tm := security.NewTokenManager(testSecret, "rentshare", time.Hour)
	s, hs := NewServer(tm)
	client := healthpb.NewHealthClient(dialBufconn(t, s))

	db := &fakePinger{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go MonitorDatabase(ctx, hs, db, 10*time.Millisecond)

	waitFor := func(want healthpb.HealthCheckResponse_ServingStatus) {
		assert.Eventually(t, func() bool {
			resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{})
			return err == nil && resp.GetStatus() == want
		}, 2*time.Second, 10*time.Millisecond)
	}

	waitFor(healthpb.HealthCheckResponse_SERVING)
	db.fail.Store(true)
	waitFor(healthpb.HealthCheckResponse_NOT_SERVING)
	db.fail.Store(false)
	waitFor(healthpb.HealthCheckResponse_SERVING)
}

func TestAuthInterceptor(t *testing.T) {
	tm := security.NewTokenManager(testSecret, "rentshare", time.Hour)
	unary := interceptor.NewAuthInterceptor(tm).Unary()

	var seen *security.UserClaims
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		seen, _ = interceptor.ClaimsFromContext(ctx)
		return "ok", nil
	}

	t.Run("Public health check", func(t *testing.T) {
		info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
		_, err := unary(context.Background(), nil, info, handler)
		assert.NoError(t, err)
	})

	info := &grpc.UnaryServerInfo{FullMethod: "/rentshare.v1.BookingService/Create"}

	t.Run("Missing token", func(t *testing.T) {
		_, err := unary(context.Background(), nil, info, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("Valid token", func(t *testing.T) {
		token, err := tm.GenerateAccessToken("renter-1", "r@test.com", nil)
		require.NoError(t, err)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))

		res, err := unary(ctx, nil, info, handler)
		require.NoError(t, err)
		assert.Equal(t, "ok", res)
		require.NotNil(t, seen)
		assert.Equal(t, "renter-1", seen.UserID)
	})
}
