// Package grpc contains the dialing and interceptor plumbing shared by every remote service client.
package grpc

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"go.hpp.dev/manipulation/logging"
)

// DefaultDialTimeout bounds how long Dial waits for a connection to become ready when the
// context carries no deadline.
var DefaultDialTimeout = 20 * time.Second

// DialConfig controls how a connection to a remote service is made.
type DialConfig struct {
	// Credentials is used for TLS. When nil the connection is insecure.
	Credentials credentials.TransportCredentials
	// MethodTimeout is applied to calls whose context has no deadline. Zero means
	// DefaultMethodTimeout.
	MethodTimeout time.Duration
	// Metrics, when set, records every unary call.
	Metrics *ClientMetrics
	// NoWait skips waiting for the connection to become ready.
	NoWait bool
}

// DialOptions returns the grpc dial options described by the config.
func (cfg DialConfig) DialOptions() []grpc.DialOption {
	creds := cfg.Credentials
	if creds == nil {
		creds = insecure.NewCredentials()
	}
	timeouts := &TimeoutInterceptor{Timeout: cfg.MethodTimeout}
	interceptors := []grpc.UnaryClientInterceptor{
		timeouts.UnaryClientInterceptor,
		logging.UnaryClientInterceptor,
	}
	if cfg.Metrics != nil {
		interceptors = append(interceptors, cfg.Metrics.UnaryClientInterceptor)
	}
	return []grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithChainUnaryInterceptor(interceptors...),
	}
}

// Dial dials a gRPC server. Unless cfg.NoWait is set it blocks until the connection is ready, the
// context is done, or DefaultDialTimeout elapses.
func Dial(
	ctx context.Context,
	address string,
	cfg DialConfig,
	logger logging.Logger,
	opts ...grpc.DialOption,
) (*grpc.ClientConn, error) {
	if address == "" {
		return nil, errors.New("no address to dial")
	}
	optsCopy := append(cfg.DialOptions(), opts...)

	conn, err := grpc.NewClient(address, optsCopy...)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %q", address)
	}
	if cfg.NoWait {
		return conn, nil
	}

	if _, ok := ctx.Deadline(); !ok {
		timeoutCtx, timeoutCancel := context.WithTimeout(ctx, DefaultDialTimeout)
		ctx = timeoutCtx
		defer timeoutCancel()
	}
	if err := WaitForReady(ctx, conn); err != nil {
		logger.CDebugw(ctx, "connection never became ready", "address", address, "error", err)
		if closeErr := conn.Close(); closeErr != nil {
			logger.Warnw("failed to close connection", "address", address, "error", closeErr)
		}
		return nil, errors.Wrapf(err, "connecting to %q", address)
	}
	logger.CDebugw(ctx, "connected", "address", address)
	return conn, nil
}

// WaitForReady blocks until conn is ready or ctx is done.
func WaitForReady(ctx context.Context, conn *grpc.ClientConn) error {
	conn.Connect()
	for {
		state := conn.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.Shutdown:
			return errors.New("connection shut down")
		case connectivity.Idle, connectivity.Connecting, connectivity.TransientFailure:
		}
		if !conn.WaitForStateChange(ctx, state) {
			return ctx.Err()
		}
	}
}
