package problem

import (
	"context"

	"go.opencensus.io/trace"
	"google.golang.org/grpc"

	"go.hpp.dev/manipulation/logging"
	"go.hpp.dev/manipulation/protoutils"
	"go.hpp.dev/manipulation/services/graph"
)

type graspRequest struct {
	Name    string `json:"name"`
	Gripper string `json:"gripper"`
	Handle  string `json:"handle"`
}

type parametricRequest struct {
	Name       string `json:"name"`
	Parametric bool   `json:"parametric"`
}

type applyRequest struct {
	IDs    []graph.ID `json:"ids"`
	QNear  []float64  `json:"qnear,omitempty"`
	Config []float64  `json:"config"`
}

type extendRequest struct {
	QNear []float64 `json:"qnear"`
	QRand []float64 `json:"qrand"`
}

type configResponse struct {
	Config []float64 `json:"config"`
}

// client implements Service over a gRPC connection.
type client struct {
	conn   grpc.ClientConnInterface
	logger logging.Logger
}

// NewClientFromConn constructs a new problem service client from the connection passed in.
func NewClientFromConn(conn grpc.ClientConnInterface, logger logging.Logger) Service {
	return &client{conn: conn, logger: logger}
}

func (c *client) call(ctx context.Context, method string, req, resp interface{}) error {
	ctx, span := trace.StartSpan(ctx, "problem::client::"+method)
	defer span.End()
	return protoutils.Call(ctx, c.conn, protoutils.FullMethod(ServiceName, method), req, resp)
}

func (c *client) CreateGrasp(ctx context.Context, name, gripper, handle string) error {
	return c.call(ctx, "CreateGrasp", graspRequest{Name: name, Gripper: gripper, Handle: handle}, nil)
}

func (c *client) CreatePreGrasp(ctx context.Context, name, gripper, handle string) error {
	return c.call(ctx, "CreatePreGrasp", graspRequest{Name: name, Gripper: gripper, Handle: handle}, nil)
}

func (c *client) CreateLockedDofConstraint(ctx context.Context, dof LockedDof) error {
	return c.call(ctx, "CreateLockedDofConstraint", dof, nil)
}

func (c *client) IsLockedDofParametric(ctx context.Context, name string, parametric bool) error {
	return c.call(ctx, "IsLockedDofParametric", parametricRequest{Name: name, Parametric: parametric}, nil)
}

func (c *client) ApplyConstraints(ctx context.Context, nodes []graph.ID, config []float64) (Projection, error) {
	var proj Projection
	if err := c.call(ctx, "ApplyConstraints", applyRequest{IDs: nodes, Config: config}, &proj); err != nil {
		return Projection{}, err
	}
	return proj, nil
}

func (c *client) ApplyConstraintsWithOffset(
	ctx context.Context,
	edges []graph.ID,
	qnear, config []float64,
) (Projection, error) {
	var proj Projection
	req := applyRequest{IDs: edges, QNear: qnear, Config: config}
	if err := c.call(ctx, "ApplyConstraintsWithOffset", req, &proj); err != nil {
		return Projection{}, err
	}
	return proj, nil
}

func (c *client) Extend(ctx context.Context, qnear, qrand []float64) ([]float64, error) {
	var resp configResponse
	if err := c.call(ctx, "Extend", extendRequest{QNear: qnear, QRand: qrand}, &resp); err != nil {
		return nil, err
	}
	return resp.Config, nil
}
