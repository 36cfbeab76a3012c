package naming

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"go.hpp.dev/manipulation/protoutils"
)

// serviceServer serves a Registry over gRPC.
type serviceServer interface {
	registry() Registry
}

type server struct {
	reg Registry
}

func (s *server) registry() Registry {
	return s.reg
}

// serviceDesc describes the directory service. HandlerType is only used to check registrations.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*serviceServer)(nil),
	Methods: []grpc.MethodDesc{
		protoutils.UnaryMethod(ServiceName, "Resolve", handleResolve),
		protoutils.UnaryMethod(ServiceName, "List", handleList),
		protoutils.UnaryMethod(ServiceName, "Bind", handleBind),
		protoutils.UnaryMethod(ServiceName, "Unbind", handleUnbind),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hpp/naming/v1/naming.proto",
}

// RegisterServer exposes reg as the directory service on s.
func RegisterServer(s grpc.ServiceRegistrar, reg Registry) {
	s.RegisterService(&serviceDesc, &server{reg: reg})
}

func decodeName(req *structpb.Struct, allowEmpty bool) (Name, error) {
	var in nameRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, toStatus(err)
	}
	if in.Name == "" && allowEmpty {
		return nil, nil
	}
	name, err := ParseName(in.Name)
	if err != nil {
		return nil, toStatus(err)
	}
	return name, nil
}

func handleResolve(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	name, err := decodeName(req, false)
	if err != nil {
		return nil, err
	}
	ref, err := srv.(serviceServer).registry().Resolve(ctx, name)
	return protoutils.Respond(ref, toStatus(err))
}

func handleList(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	prefix, err := decodeName(req, true)
	if err != nil {
		return nil, err
	}
	bindings, err := srv.(serviceServer).registry().List(ctx, prefix)
	if err != nil {
		return nil, toStatus(err)
	}
	resp := listResponse{Bindings: make([]bindingMessage, 0, len(bindings))}
	for _, b := range bindings {
		resp.Bindings = append(resp.Bindings, bindingMessage{Name: b.Name.String(), Ref: b.Ref})
	}
	return protoutils.Respond(resp, nil)
}

func handleBind(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	var in bindRequest
	if err := protoutils.DecodeStruct(req, &in); err != nil {
		return nil, toStatus(err)
	}
	name, err := ParseName(in.Name)
	if err != nil {
		return nil, toStatus(err)
	}
	reg := srv.(serviceServer).registry()
	var ref ObjectRef
	if in.Replace {
		ref, err = reg.Rebind(ctx, name, in.Ref)
	} else {
		ref, err = reg.Bind(ctx, name, in.Ref)
	}
	return protoutils.Respond(ref, toStatus(err))
}

func handleUnbind(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error) {
	name, err := decodeName(req, false)
	if err != nil {
		return nil, err
	}
	return protoutils.Respond(nil, toStatus(srv.(serviceServer).registry().Unbind(ctx, name)))
}
