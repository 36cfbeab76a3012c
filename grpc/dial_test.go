package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.viam.com/test"
	googlegrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.hpp.dev/manipulation/logging"
	"go.hpp.dev/manipulation/services/graph"
	"go.hpp.dev/manipulation/testutils"
	"go.hpp.dev/manipulation/testutils/inject"
)

func TestDial(t *testing.T) {
	logger := logging.NewTestLogger(t)
	network := testutils.NewBufNetwork()
	target := network.Serve(t, "planner", func(*googlegrpc.Server) {})

	t.Run("ready", func(t *testing.T) {
		conn, err := Dial(context.Background(), target, DialConfig{}, logger, network.DialOption())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, conn.Close(), test.ShouldBeNil)
		test.That(t, network.DialCount("planner"), test.ShouldBeGreaterThanOrEqualTo, 1)
	})

	t.Run("unreachable", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		_, err := Dial(ctx, testutils.Target("missing"), DialConfig{}, logger, network.DialOption())
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "missing")
	})

	t.Run("no address", func(t *testing.T) {
		_, err := Dial(context.Background(), "", DialConfig{}, logger)
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("no wait", func(t *testing.T) {
		conn, err := Dial(context.Background(), testutils.Target("missing"), DialConfig{NoWait: true}, logger, network.DialOption())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, conn.Close(), test.ShouldBeNil)
	})
}

func TestDebugTagPropagation(t *testing.T) {
	logger := logging.NewTestLogger(t)
	network := testutils.NewBufNetwork()
	var tags []string
	svc := &inject.GraphService{
		DisplayFunc: func(ctx context.Context, filename string) error {
			tags = append(tags, logging.DebugTag(ctx))
			return nil
		},
	}
	target := network.Serve(t, "planner", func(s *googlegrpc.Server) {
		graph.RegisterServer(s, svc)
	})
	conn, err := Dial(context.Background(), target, DialConfig{}, logger, network.DialOption())
	test.That(t, err, test.ShouldBeNil)
	defer conn.Close()
	c := graph.NewClientFromConn(conn, logger)

	test.That(t, c.Display(context.Background(), "/tmp/a.dot"), test.ShouldBeNil)
	test.That(t, c.Display(logging.EnableDebugMode(context.Background(), "abc"), "/tmp/a.dot"), test.ShouldBeNil)
	test.That(t, tags, test.ShouldResemble, []string{"", "abc"})
}

func TestTimeoutInterceptor(t *testing.T) {
	var deadline time.Time
	var hasDeadline bool
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *googlegrpc.ClientConn,
		opts ...googlegrpc.CallOption,
	) error {
		deadline, hasDeadline = ctx.Deadline()
		return nil
	}

	ti := &TimeoutInterceptor{Timeout: time.Minute}
	err := ti.UnaryClientInterceptor(context.Background(), "/svc/M", nil, nil, nil, invoker)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hasDeadline, test.ShouldBeTrue)
	test.That(t, time.Until(deadline), test.ShouldBeLessThanOrEqualTo, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()
	expected, _ := ctx.Deadline()
	err = ti.UnaryClientInterceptor(ctx, "/svc/M", nil, nil, nil, invoker)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, deadline, test.ShouldEqual, expected)

	defaults := &TimeoutInterceptor{}
	err = defaults.UnaryClientInterceptor(context.Background(), "/svc/M", nil, nil, nil, invoker)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, time.Until(deadline), test.ShouldBeGreaterThan, time.Minute)
}

func TestClientMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewClientMetrics(reg)
	test.That(t, err, test.ShouldBeNil)

	failing := func(ctx context.Context, method string, req, reply interface{}, cc *googlegrpc.ClientConn,
		opts ...googlegrpc.CallOption,
	) error {
		return status.Error(codes.NotFound, "no such node")
	}
	ok := func(ctx context.Context, method string, req, reply interface{}, cc *googlegrpc.ClientConn,
		opts ...googlegrpc.CallOption,
	) error {
		return nil
	}

	const method = "/hpp.manipulation.graph.v1.GraphService/CreateNode"
	test.That(t, metrics.UnaryClientInterceptor(context.Background(), method, nil, nil, nil, failing), test.ShouldNotBeNil)
	test.That(t, metrics.UnaryClientInterceptor(context.Background(), method, nil, nil, nil, ok), test.ShouldBeNil)
	test.That(t, metrics.UnaryClientInterceptor(context.Background(), method, nil, nil, nil, ok), test.ShouldBeNil)

	test.That(t, testutil.ToFloat64(metrics.requests.WithLabelValues(method, "NotFound")), test.ShouldEqual, 1)
	test.That(t, testutil.ToFloat64(metrics.requests.WithLabelValues(method, "OK")), test.ShouldEqual, 2)

	// A second set of metrics on the same registry shares the collectors.
	again, err := NewClientMetrics(reg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, again.UnaryClientInterceptor(context.Background(), method, nil, nil, nil, ok), test.ShouldBeNil)
	test.That(t, testutil.ToFloat64(metrics.requests.WithLabelValues(method, "OK")), test.ShouldEqual, 3)
}
