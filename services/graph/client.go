package graph

import (
	"context"

	"go.opencensus.io/trace"
	"google.golang.org/grpc"

	"go.hpp.dev/manipulation/logging"
	"go.hpp.dev/manipulation/protoutils"
)

// client implements Service over a gRPC connection.
type client struct {
	conn   grpc.ClientConnInterface
	logger logging.Logger
}

// NewClientFromConn constructs a new graph service client from the connection passed in.
func NewClientFromConn(conn grpc.ClientConnInterface, logger logging.Logger) Service {
	return &client{conn: conn, logger: logger}
}

func (c *client) call(ctx context.Context, method string, req, resp interface{}) error {
	ctx, span := trace.StartSpan(ctx, "graph::client::"+method)
	defer span.End()
	c.logger.CDebugw(ctx, "calling", "method", method)
	return protoutils.Call(ctx, c.conn, protoutils.FullMethod(ServiceName, method), req, resp)
}

func (c *client) callID(ctx context.Context, method string, req interface{}) (ID, error) {
	var resp idResponse
	if err := c.call(ctx, method, req, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (c *client) CreateGraph(ctx context.Context, name string) (ID, error) {
	return c.callID(ctx, "CreateGraph", nameRequest{Name: name})
}

func (c *client) CreateSubGraph(ctx context.Context, name string) (ID, error) {
	return c.callID(ctx, "CreateSubGraph", nameRequest{Name: name})
}

func (c *client) CreateNode(ctx context.Context, subgraph ID, name string) (ID, error) {
	return c.callID(ctx, "CreateNode", createNodeRequest{SubGraph: subgraph, Name: name})
}

func (c *client) CreateEdge(ctx context.Context, spec EdgeSpec) (ID, error) {
	return c.callID(ctx, "CreateEdge", newEdgeRequest(spec))
}

func (c *client) CreateWaypointEdge(ctx context.Context, spec EdgeSpec, waypoints int64) (GraphElements, error) {
	req := newEdgeRequest(spec)
	req.Waypoints = waypoints
	var elmts GraphElements
	if err := c.call(ctx, "CreateWaypointEdge", req, &elmts); err != nil {
		return GraphElements{}, err
	}
	return elmts, nil
}

func (c *client) CreateLevelSetEdge(ctx context.Context, spec EdgeSpec) (ID, error) {
	return c.callID(ctx, "CreateLevelSetEdge", newEdgeRequest(spec))
}

func (c *client) GetWaypoint(ctx context.Context, edge ID) (ID, ID, error) {
	var resp waypointResponse
	if err := c.call(ctx, "GetWaypoint", idRequest{ID: edge}, &resp); err != nil {
		return 0, 0, err
	}
	return resp.Edge, resp.Node, nil
}

func (c *client) SetLevelSetConstraints(ctx context.Context, edge ID, numerical, lockedDofs []string) error {
	return c.call(ctx, "SetLevelSetConstraints", levelSetRequest{Edge: edge, Numerical: numerical, LockedDofs: lockedDofs}, nil)
}

func (c *client) IsInNodeFrom(ctx context.Context, edge ID, isInNodeFrom bool) error {
	return c.call(ctx, "IsInNodeFrom", isInNodeFromRequest{Edge: edge, IsInNodeFrom: isInNodeFrom}, nil)
}

func (c *client) SetNumericalConstraints(ctx context.Context, component ID, names []string) error {
	return c.call(ctx, "SetNumericalConstraints", constraintsRequest{Component: component, Names: names}, nil)
}

func (c *client) SetNumericalConstraintsForPath(ctx context.Context, node ID, names []string) error {
	return c.call(ctx, "SetNumericalConstraintsForPath", constraintsRequest{Component: node, Names: names}, nil)
}

func (c *client) SetLockedDofConstraints(ctx context.Context, component ID, names []string) error {
	return c.call(ctx, "SetLockedDofConstraints", constraintsRequest{Component: component, Names: names}, nil)
}

func (c *client) StatOnConstraint(ctx context.Context, edge ID) error {
	return c.call(ctx, "StatOnConstraint", idRequest{ID: edge}, nil)
}

func (c *client) GetNode(ctx context.Context, config []float64) (ID, error) {
	return c.callID(ctx, "GetNode", configRequest{Config: config})
}

func (c *client) Display(ctx context.Context, filename string) error {
	return c.call(ctx, "Display", filenameRequest{Filename: filename}, nil)
}
