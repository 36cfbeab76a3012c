package graph

import (
	"context"

	"google.golang.org/grpc"
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
		protoutils.UnaryMethod(ServiceName, "CreateGraph", handleCreateGraph),
		protoutils.UnaryMethod(ServiceName, "CreateSubGraph", handleCreateSubGraph),
		protoutils.UnaryMethod(ServiceName, "CreateNode", handleCreateNode),
		protoutils.UnaryMethod(ServiceName, "CreateEdge", handleCreateEdge),
		protoutils.UnaryMethod(ServiceName, "CreateWaypointEdge", handleCreateWaypointEdge),
		protoutils.UnaryMethod(ServiceName, "CreateLevelSetEdge", handleCreateLevelSetEdge),
		protoutils.UnaryMethod(ServiceName, "GetWaypoint", handleGetWaypoint),
		protoutils.UnaryMethod(ServiceName, "SetLevelSetConstraints", handleSetLevelSetConstraints),
		protoutils.UnaryMethod(ServiceName, "IsInNodeFrom", handleIsInNodeFrom),
		protoutils.UnaryMethod(ServiceName, "SetNumericalConstraints", handleSetNumericalConstraints),
		protoutils.UnaryMethod(ServiceName, "SetNumericalConstraintsForPath", handleSetNumericalConstraintsForPath),
		protoutils.UnaryMethod(ServiceName, "SetLockedDofConstraints", handleSetLockedDofConstraints),
		protoutils.UnaryMethod(ServiceName, "StatOnConstraint", handleStatOnConstraint),
		protoutils.UnaryMethod(ServiceName, "GetNode", handleGetNode),
		protoutils.UnaryMethod(ServiceName, "Display", handleDisplay),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hpp/manipulation/graph/v1/graph.proto",
}

// RegisterServer exposes svc as the constraint graph service on s.
func RegisterServer(s grpc.ServiceRegistrar, svc Service) {
	s.RegisterService(&serviceDesc, &server{svc: svc})
}

func svcOf(srv interface{}) Service {
	return srv.(serviceServer).service()
}

func respondID(id ID, err error) (*structpb.Struct, error) {
	return protoutils.Respond(idResponse{ID: id}, err)
}

func handleCreateGraph(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in nameRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	return respondID(svcOf(srv).CreateGraph(ctx, in.Name))
}

func handleCreateSubGraph(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in nameRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	return respondID(svcOf(srv).CreateSubGraph(ctx, in.Name))
}

func handleCreateNode(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in createNodeRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	return respondID(svcOf(srv).CreateNode(ctx, in.SubGraph, in.Name))
}

func handleCreateEdge(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in edgeRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	return respondID(svcOf(srv).CreateEdge(ctx, in.spec()))
}

func handleCreateWaypointEdge(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in edgeRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	elmts, err := svcOf(srv).CreateWaypointEdge(ctx, in.spec(), in.Waypoints)
	return protoutils.Respond(elmts, err)
}

func handleCreateLevelSetEdge(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in edgeRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	return respondID(svcOf(srv).CreateLevelSetEdge(ctx, in.spec()))
}

func handleGetWaypoint(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in idRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	edge, node, err := svcOf(srv).GetWaypoint(ctx, in.ID)
	return protoutils.Respond(waypointResponse{Edge: edge, Node: node}, err)
}

func handleSetLevelSetConstraints(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in levelSetRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	return protoutils.Respond(nil, svcOf(srv).SetLevelSetConstraints(ctx, in.Edge, in.Numerical, in.LockedDofs))
}

func handleIsInNodeFrom(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in isInNodeFromRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	return protoutils.Respond(nil, svcOf(srv).IsInNodeFrom(ctx, in.Edge, in.IsInNodeFrom))
}

func handleSetNumericalConstraints(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in constraintsRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	return protoutils.Respond(nil, svcOf(srv).SetNumericalConstraints(ctx, in.Component, in.Names))
}

func handleSetNumericalConstraintsForPath(
	ctx context.Context,
	srv interface{},
	req *structpb.Struct,
) (*structpb.Struct, error) {
	var in constraintsRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	return protoutils.Respond(nil, svcOf(srv).SetNumericalConstraintsForPath(ctx, in.Component, in.Names))
}

func handleSetLockedDofConstraints(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in constraintsRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	return protoutils.Respond(nil, svcOf(srv).SetLockedDofConstraints(ctx, in.Component, in.Names))
}

func handleStatOnConstraint(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in idRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	return protoutils.Respond(nil, svcOf(srv).StatOnConstraint(ctx, in.ID))
}

func handleGetNode(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in configRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	return respondID(svcOf(srv).GetNode(ctx, in.Config))
}

func handleDisplay(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in filenameRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, err
	}
	return protoutils.Respond(nil, svcOf(srv).Display(ctx, in.Filename))
}
