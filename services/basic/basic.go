// Package basic defines the subset of the remote basic problem service used by manipulation
// clients.
package basic

import (
	"context"

	"go.opencensus.io/trace"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"go.hpp.dev/manipulation/logging"
	"go.hpp.dev/manipulation/protoutils"
)

// ServiceName is the gRPC service name of the basic problem service.
const ServiceName = "hpp.corbaserver.problem.v1.ProblemService"

// A Service is the remote basic problem service.
type Service interface {
	// SetPassiveDofs declares joints whose degrees of freedom are ignored by the constraint named
	// name.
	SetPassiveDofs(ctx context.Context, name string, joints []string) error
}

type passiveDofsRequest struct {
	Name   string   `json:"name"`
	Joints []string `json:"joints"`
}

// client implements Service over a gRPC connection.
type client struct {
	conn   grpc.ClientConnInterface
	logger logging.Logger
}

// NewClientFromConn constructs a new basic service client from the connection passed in.
func NewClientFromConn(conn grpc.ClientConnInterface, logger logging.Logger) Service {
	return &client{conn: conn, logger: logger}
}

func (c *client) SetPassiveDofs(ctx context.Context, name string, joints []string) error {
	ctx, span := trace.StartSpan(ctx, "basic::client::SetPassiveDofs")
	defer span.End()
	c.logger.CDebugw(ctx, "setting passive dofs", "constraint", name, "joints", joints)
	return protoutils.Call(ctx, c.conn, protoutils.FullMethod(ServiceName, "SetPassiveDofs"),
		passiveDofsRequest{Name: name, Joints: joints}, nil)
}

type serviceServer interface {
	service() Service
}

type server struct {
	svc Service
}

func (s *server) service() Service {
	return s.svc
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*serviceServer)(nil),
	Methods: []grpc.MethodDesc{
		protoutils.UnaryMethod(ServiceName, "SetPassiveDofs", handleSetPassiveDofs),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hpp/corbaserver/problem/v1/problem.proto",
}

// RegisterServer exposes svc as the basic problem service on s.
func RegisterServer(s grpc.ServiceRegistrar, svc Service) {
	s.RegisterService(&serviceDesc, &server{svc: svc})
}

func handleSetPassiveDofs(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in passiveDofsRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	return protoutils.Respond(nil, srv.(serviceServer).service().SetPassiveDofs(ctx, in.Name, in.Joints))
}
