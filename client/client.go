// Package client connects to the remote manipulation planner through its naming directory.
package client

import (
	"context"

	"go.uber.org/multierr"
	"google.golang.org/grpc"

	rpc "go.hpp.dev/manipulation/grpc"
	"go.hpp.dev/manipulation/logging"
	"go.hpp.dev/manipulation/naming"
	"go.hpp.dev/manipulation/services/basic"
	"go.hpp.dev/manipulation/services/graph"
	"go.hpp.dev/manipulation/services/problem"
)

// Type IDs the bound objects must carry to be narrowed.
const (
	ManipulationTypeID = "hpp.manipulation.v1.Manipulation"
	BasicTypeID        = "hpp.corbaserver.v1.Basic"
)

// Config controls how Connect finds and dials the planner.
type Config struct {
	// NameServiceAddress is the dial target of the naming directory. Ignored when Directory is
	// set.
	NameServiceAddress string
	// Directory replaces the remote naming directory.
	Directory naming.Directory
	// ManipulationName defaults to naming.ManipulationName.
	ManipulationName naming.Name
	// BasicName defaults to naming.BasicName.
	BasicName naming.Name
	Dial      rpc.DialConfig
	// DialOptions are appended to the options built from Dial.
	DialOptions []grpc.DialOption
}

// Client holds the connections to the planner services.
type Client struct {
	logger logging.Logger
	conns  []*grpc.ClientConn

	manipulationRef naming.ObjectRef
	basicRef        naming.ObjectRef

	graph   graph.Service
	problem problem.Service
	basic   basic.Service
}

// Connect resolves the manipulation service in the naming directory, checks that it implements
// the expected interface and dials it. The basic service is looked up too; when its name is not
// bound it is reached through the manipulation endpoint. Failures are *ConnectionError values.
func Connect(ctx context.Context, cfg Config, logger logging.Logger) (*Client, error) {
	c := &Client{logger: logger}
	if err := c.connect(ctx, cfg); err != nil {
		if closeErr := c.Close(); closeErr != nil {
			logger.Warnw("failed to close connections", "error", closeErr)
		}
		return nil, err
	}
	return c, nil
}

func (c *Client) connect(ctx context.Context, cfg Config) error {
	manipName := cfg.ManipulationName
	if len(manipName) == 0 {
		manipName = naming.ManipulationName
	}
	basicName := cfg.BasicName
	if len(basicName) == 0 {
		basicName = naming.BasicName
	}

	dir, err := c.rootContext(ctx, cfg)
	if err != nil {
		return &ConnectionError{Reason: ReasonRootContextUnavailable, Err: err}
	}

	manipRef, err := resolve(ctx, dir, manipName, ManipulationTypeID)
	if err != nil {
		return err
	}
	manipConn, err := c.dial(ctx, cfg, manipRef.Address)
	if err != nil {
		return &ConnectionError{Reason: ReasonServiceUnavailable, Name: manipName.String(), Err: err}
	}

	basicRef, err := resolve(ctx, dir, basicName, BasicTypeID)
	switch {
	case err == nil:
	case naming.IsNotFoundError(err):
		// the basic service is served next to the manipulation service unless bound elsewhere
		c.logger.Debugw("basic service not bound, using manipulation endpoint", "name", basicName)
		basicRef = manipRef
	default:
		return err
	}
	basicConn := manipConn
	if basicRef.Address != manipRef.Address {
		basicConn, err = c.dial(ctx, cfg, basicRef.Address)
		if err != nil {
			return &ConnectionError{Reason: ReasonServiceUnavailable, Name: basicName.String(), Err: err}
		}
	}

	c.manipulationRef = manipRef
	c.basicRef = basicRef
	c.graph = graph.NewClientFromConn(manipConn, c.logger.Sublogger("graph"))
	c.problem = problem.NewClientFromConn(manipConn, c.logger.Sublogger("problem"))
	c.basic = basic.NewClientFromConn(basicConn, c.logger.Sublogger("basic"))
	c.logger.Infow("connected to planner", "manipulation", manipRef.Address, "basic", basicRef.Address)
	return nil
}

// rootContext returns a directory that answered a root listing.
func (c *Client) rootContext(ctx context.Context, cfg Config) (naming.Directory, error) {
	dir := cfg.Directory
	if dir == nil {
		conn, err := c.dial(ctx, cfg, cfg.NameServiceAddress)
		if err != nil {
			return nil, err
		}
		dir = naming.NewClientFromConn(conn, c.logger.Sublogger("naming"))
	}
	if _, err := dir.List(ctx, nil); err != nil {
		return nil, err
	}
	return dir, nil
}

func resolve(ctx context.Context, dir naming.Directory, name naming.Name, typeID string) (naming.ObjectRef, error) {
	ref, err := dir.Resolve(ctx, name)
	if err != nil {
		return naming.ObjectRef{}, &ConnectionError{Reason: ReasonServiceNotFound, Name: name.String(), Err: err}
	}
	if ref.TypeID != typeID {
		return naming.ObjectRef{}, &ConnectionError{
			Reason: ReasonTypeMismatch,
			Name:   name.String(),
			Err:    &TypeMismatchError{Expected: typeID, Actual: ref.TypeID},
		}
	}
	return ref, nil
}

func (c *Client) dial(ctx context.Context, cfg Config, address string) (*grpc.ClientConn, error) {
	conn, err := rpc.Dial(ctx, address, cfg.Dial, c.logger, cfg.DialOptions...)
	if err != nil {
		return nil, err
	}
	c.conns = append(c.conns, conn)
	return conn, nil
}

// Graph returns the constraint graph service.
func (c *Client) Graph() graph.Service {
	return c.graph
}

// Problem returns the manipulation problem service.
func (c *Client) Problem() problem.Service {
	return c.problem
}

// Basic returns the basic problem service.
func (c *Client) Basic() basic.Service {
	return c.basic
}

// ManipulationRef returns the reference the manipulation service resolved to.
func (c *Client) ManipulationRef() naming.ObjectRef {
	return c.manipulationRef
}

// BasicRef returns the reference the basic service resolved to, or the manipulation reference
// when the basic name is not bound.
func (c *Client) BasicRef() naming.ObjectRef {
	return c.basicRef
}

// Close closes every connection the client opened.
func (c *Client) Close() error {
	var err error
	for _, conn := range c.conns {
		err = multierr.Combine(err, conn.Close())
	}
	c.conns = nil
	return err
}
