package protoutils

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// FullMethod returns the gRPC full method name for a method of a service.
func FullMethod(service, method string) string {
	return "/" + service + "/" + method
}

// Call invokes a unary method whose request and response are both structpb.Struct. The request
// may be any struct or map accepted by InterfaceToMap; the response is decoded into resp unless
// resp is nil.
func Call(
	ctx context.Context,
	conn grpc.ClientConnInterface,
	fullMethod string,
	req, resp interface{},
	opts ...grpc.CallOption,
) error {
	in, err := StructToStructPb(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := conn.Invoke(ctx, fullMethod, in, out, opts...); err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	return DecodeStruct(out, resp)
}

// Handler serves one unary method. srv is the implementation registered with the service
// description.
type Handler func(ctx context.Context, srv interface{}, req *structpb.Struct) (*structpb.Struct, error)

// UnaryMethod builds a grpc.MethodDesc for a structpb based method so services can be registered
// without generated stubs.
func UnaryMethod(service, method string, handler Handler) grpc.MethodDesc {
	fullMethod := FullMethod(service, method)
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(
			srv interface{},
			ctx context.Context,
			dec func(interface{}) error,
			interceptor grpc.UnaryServerInterceptor,
		) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return handler(ctx, srv, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod,
			}
			return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
				return handler(ctx, srv, req.(*structpb.Struct))
			})
		},
	}
}

// Respond encodes a handler result. A nil result becomes an empty struct.
func Respond(result interface{}, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, err
	}
	if result == nil {
		return &structpb.Struct{}, nil
	}
	return StructToStructPb(result)
}
