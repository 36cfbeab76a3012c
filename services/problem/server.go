package problem

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"go.hpp.dev/manipulation/protoutils"
)

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
		protoutils.UnaryMethod(ServiceName, "CreateGrasp", handleCreateGrasp),
		protoutils.UnaryMethod(ServiceName, "CreatePreGrasp", handleCreatePreGrasp),
		protoutils.UnaryMethod(ServiceName, "CreateLockedDofConstraint", handleCreateLockedDofConstraint),
		protoutils.UnaryMethod(ServiceName, "IsLockedDofParametric", handleIsLockedDofParametric),
		protoutils.UnaryMethod(ServiceName, "ApplyConstraints", handleApplyConstraints),
		protoutils.UnaryMethod(ServiceName, "ApplyConstraintsWithOffset", handleApplyConstraintsWithOffset),
		protoutils.UnaryMethod(ServiceName, "Extend", handleExtend),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hpp/manipulation/problem/v1/problem.proto",
}

// RegisterServer exposes svc as the manipulation problem service on s.
func RegisterServer(s grpc.ServiceRegistrar, svc Service) {
	s.RegisterService(&serviceDesc, &server{svc: svc})
}

func svcOf(srv interface{}) Service {
	return srv.(serviceServer).service()
}

func handleCreateGrasp(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in graspRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	return protoutils.Respond(nil, svcOf(srv).CreateGrasp(ctx, in.Name, in.Gripper, in.Handle))
}

func handleCreatePreGrasp(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in graspRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	return protoutils.Respond(nil, svcOf(srv).CreatePreGrasp(ctx, in.Name, in.Gripper, in.Handle))
}

func handleCreateLockedDofConstraint(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in LockedDof
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	return protoutils.Respond(nil, svcOf(srv).CreateLockedDofConstraint(ctx, in))
}

func handleIsLockedDofParametric(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in parametricRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	return protoutils.Respond(nil, svcOf(srv).IsLockedDofParametric(ctx, in.Name, in.Parametric))
}

func handleApplyConstraints(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in applyRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	if len(in.IDs) == 0 {
		return nil, status.Error(codes.InvalidArgument, "ID list is empty")
	}
	return protoutils.Respond(svcOf(srv).ApplyConstraints(ctx, in.IDs, in.Config))
}

func handleApplyConstraintsWithOffset(
	ctx context.Context,
	srv interface{},
	req *structpb.Struct,
) (*structpb.Struct, error) {
	var in applyRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	if len(in.IDs) == 0 {
		return nil, status.Error(codes.InvalidArgument, "ID list is empty")
	}
	return protoutils.Respond(svcOf(srv).ApplyConstraintsWithOffset(ctx, in.IDs, in.QNear, in.Config))
}

func handleExtend(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in extendRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	config, err := svcOf(srv).Extend(ctx, in.QNear, in.QRand)
	return protoutils.Respond(configResponse{Config: config}, err)
}
