package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

// DefaultMethodTimeout is the default context timeout for outbound calls to the planning
// services, only used when no deadline is set on the context.
var DefaultMethodTimeout = 10 * time.Minute

// TimeoutInterceptor sets a default timeout on outbound calls whose context has none.
type TimeoutInterceptor struct {
	Timeout time.Duration
}

// UnaryClientInterceptor sets a default timeout on the context if one is not already set. To be
// called as the first unary client interceptor.
func (ti *TimeoutInterceptor) UnaryClientInterceptor(
	ctx context.Context,
	method string, req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if _, deadlineSet := ctx.Deadline(); !deadlineSet {
		timeout := ti.Timeout
		if timeout <= 0 {
			timeout = DefaultMethodTimeout
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}
