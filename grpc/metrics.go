package grpc

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// ClientMetrics counts and times outbound calls per full method name.
type ClientMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewClientMetrics creates the client collectors and registers them with reg. Collectors that
// are already registered on reg are reused.
func NewClientMetrics(reg prometheus.Registerer) (*ClientMetrics, error) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hpp",
		Subsystem: "client",
		Name:      "rpc_requests_total",
		Help:      "Remote calls issued to the planning services, by method and status code.",
	}, []string{"method", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hpp",
		Subsystem: "client",
		Name:      "rpc_duration_seconds",
		Help:      "Latency of remote calls to the planning services.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	m := &ClientMetrics{requests: requests, duration: duration}
	if reg == nil {
		return m, nil
	}
	if err := reg.Register(requests); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		m.requests = are.ExistingCollector.(*prometheus.CounterVec)
	}
	if err := reg.Register(duration); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		m.duration = are.ExistingCollector.(*prometheus.HistogramVec)
	}
	return m, nil
}

// UnaryClientInterceptor records the outcome and latency of every unary call.
func (m *ClientMetrics) UnaryClientInterceptor(
	ctx context.Context,
	method string, req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	start := time.Now()
	err := invoker(ctx, method, req, reply, cc, opts...)
	m.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	m.requests.WithLabelValues(method, status.Code(err).String()).Inc()
	return err
}
