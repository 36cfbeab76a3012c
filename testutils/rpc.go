package testutils

import (
	"context"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"go.hpp.dev/manipulation/logging"
)

const bufSize = 1 << 20

// BufNetwork is an in-memory network of gRPC servers addressed by name. Targets have the form
// "passthrough:///<name>" so they bypass DNS resolution.
type BufNetwork struct {
	mu        sync.Mutex
	listeners map[string]*bufconn.Listener
	dials     map[string]int
}

// NewBufNetwork returns an empty network.
func NewBufNetwork() *BufNetwork {
	return &BufNetwork{
		listeners: map[string]*bufconn.Listener{},
		dials:     map[string]int{},
	}
}

// Target returns the dial target for the named server.
func Target(name string) string {
	return "passthrough:///" + name
}

// Serve starts a gRPC server named name on the network. register is called before serving. The
// server is stopped when the test ends and propagates debug tags sent by clients. Returns the dial
// target of the server.
func (n *BufNetwork) Serve(tb testing.TB, name string, register func(*grpc.Server), opts ...grpc.ServerOption) string {
	tb.Helper()
	listener := bufconn.Listen(bufSize)
	n.mu.Lock()
	n.listeners[name] = listener
	n.mu.Unlock()

	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(logging.UnaryServerInterceptor)}, opts...)
	server := grpc.NewServer(opts...)
	register(server)
	go func() {
		// Serve returns once Stop is called.
		//nolint:errcheck
		server.Serve(listener)
	}()
	tb.Cleanup(server.Stop)
	return Target(name)
}

// DialOption routes dials through the in-memory listeners.
func (n *BufNetwork) DialOption() grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, addr string) (net.Conn, error) {
		name := strings.TrimPrefix(addr, "passthrough:///")
		n.mu.Lock()
		listener, ok := n.listeners[name]
		n.dials[name]++
		n.mu.Unlock()
		if !ok {
			return nil, errors.Errorf("no server named %q", name)
		}
		return listener.DialContext(ctx)
	})
}

// DialCount returns how many connections were attempted to the named server.
func (n *BufNetwork) DialCount(name string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dials[name]
}

// InsecureCredentials is the transport option used by in-memory test connections.
func InsecureCredentials() grpc.DialOption {
	return grpc.WithTransportCredentials(insecure.NewCredentials())
}
