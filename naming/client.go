package naming

import (
	"context"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.hpp.dev/manipulation/logging"
	"go.hpp.dev/manipulation/protoutils"
)

// ServiceName is the gRPC service name of the directory.
const ServiceName = "hpp.naming.v1.NamingService"

type nameRequest struct {
	Name string `json:"name"`
}

type bindRequest struct {
	Name    string    `json:"name"`
	Ref     ObjectRef `json:"ref"`
	Replace bool      `json:"replace"`
}

type bindingMessage struct {
	Name string    `json:"name"`
	Ref  ObjectRef `json:"ref"`
}

type listResponse struct {
	Bindings []bindingMessage `json:"bindings"`
}

// client implements Registry over a gRPC connection.
type client struct {
	conn   grpc.ClientConnInterface
	logger logging.Logger
}

// NewClientFromConn constructs a directory client from the connection passed in.
func NewClientFromConn(conn grpc.ClientConnInterface, logger logging.Logger) Registry {
	return &client{conn: conn, logger: logger}
}

func (c *client) Resolve(ctx context.Context, name Name) (ObjectRef, error) {
	ctx, span := trace.StartSpan(ctx, "naming::client::Resolve")
	defer span.End()

	var ref ObjectRef
	err := protoutils.Call(ctx, c.conn, protoutils.FullMethod(ServiceName, "Resolve"),
		nameRequest{Name: name.String()}, &ref)
	if err != nil {
		return ObjectRef{}, fromStatus(err, name)
	}
	c.logger.CDebugw(ctx, "resolved", "name", name, "address", ref.Address, "type", ref.TypeID)
	return ref, nil
}

func (c *client) List(ctx context.Context, prefix Name) ([]Binding, error) {
	ctx, span := trace.StartSpan(ctx, "naming::client::List")
	defer span.End()

	var resp listResponse
	err := protoutils.Call(ctx, c.conn, protoutils.FullMethod(ServiceName, "List"),
		nameRequest{Name: prefix.String()}, &resp)
	if err != nil {
		return nil, err
	}
	bindings := make([]Binding, 0, len(resp.Bindings))
	for _, b := range resp.Bindings {
		name, err := ParseName(b.Name)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, Binding{Name: name, Ref: b.Ref})
	}
	return bindings, nil
}

func (c *client) Bind(ctx context.Context, name Name, ref ObjectRef) (ObjectRef, error) {
	return c.bind(ctx, name, ref, false)
}

func (c *client) Rebind(ctx context.Context, name Name, ref ObjectRef) (ObjectRef, error) {
	return c.bind(ctx, name, ref, true)
}

func (c *client) bind(ctx context.Context, name Name, ref ObjectRef, replace bool) (ObjectRef, error) {
	ctx, span := trace.StartSpan(ctx, "naming::client::Bind")
	defer span.End()

	var bound ObjectRef
	err := protoutils.Call(ctx, c.conn, protoutils.FullMethod(ServiceName, "Bind"),
		bindRequest{Name: name.String(), Ref: ref, Replace: replace}, &bound)
	if err != nil {
		return ObjectRef{}, fromStatus(err, name)
	}
	return bound, nil
}

func (c *client) Unbind(ctx context.Context, name Name) error {
	ctx, span := trace.StartSpan(ctx, "naming::client::Unbind")
	defer span.End()

	err := protoutils.Call(ctx, c.conn, protoutils.FullMethod(ServiceName, "Unbind"),
		nameRequest{Name: name.String()}, nil)
	return fromStatus(err, name)
}

// fromStatus turns directory status codes back into the typed errors.
func fromStatus(err error, name Name) error {
	switch status.Code(err) {
	case codes.OK:
		return err
	case codes.NotFound:
		return &NotFoundError{Name: name.String()}
	case codes.AlreadyExists:
		return &AlreadyBoundError{Name: name.String()}
	default:
		return err
	}
}

// toStatus turns the typed errors into status errors for the wire.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	var notFound *NotFoundError
	var bound *AlreadyBoundError
	switch {
	case errors.As(err, &notFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.As(err, &bound):
		return status.Error(codes.AlreadyExists, err.Error())
	default:
		return status.Error(codes.InvalidArgument, err.Error())
	}
}
