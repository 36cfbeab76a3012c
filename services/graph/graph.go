// Package graph defines the remote constraint graph service of the manipulation planner and its
// gRPC client and server.
package graph

import (
	"context"
	"strconv"
)

// ServiceName is the gRPC service name of the constraint graph service.
const ServiceName = "hpp.manipulation.graph.v1.GraphService"

// ID is an opaque identifier assigned by the remote service to a graph component (graph,
// subgraph, node or edge). IDs are only compared by the edge direction heuristic; nothing else
// about their value is meaningful on the client side.
type ID int64

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// GraphComp names one remote graph component.
type GraphComp struct {
	Name string `json:"name"`
	ID   ID     `json:"id"`
}

// GraphElements is what the remote returns when it creates several components at once.
type GraphElements struct {
	Nodes []GraphComp `json:"nodes"`
	Edges []GraphComp `json:"edges"`
}

// EdgeSpec describes an edge to create between two existing nodes.
type EdgeSpec struct {
	From ID
	To   ID
	Name string
	// Weight is a priority used by the remote when picking among outgoing edges.
	Weight int64
	// IsInNodeFrom tells the remote which node's constraints hold along the edge.
	IsInNodeFrom bool
}

// A Service is the remote constraint graph service.
type Service interface {
	// CreateGraph creates the graph of the current problem and returns its ID.
	CreateGraph(ctx context.Context, name string) (ID, error)
	// CreateSubGraph creates a node selector in the graph and returns its ID.
	CreateSubGraph(ctx context.Context, name string) (ID, error)
	// CreateNode creates a node in the given subgraph.
	CreateNode(ctx context.Context, subgraph ID, name string) (ID, error)
	// CreateEdge links two nodes.
	CreateEdge(ctx context.Context, spec EdgeSpec) (ID, error)
	// CreateWaypointEdge links two nodes through waypoints intermediate nodes. The result lists
	// every created edge and node in order from the source.
	CreateWaypointEdge(ctx context.Context, spec EdgeSpec, waypoints int64) (GraphElements, error)
	// CreateLevelSetEdge links two nodes with an edge whose path stays in a level set.
	CreateLevelSetEdge(ctx context.Context, spec EdgeSpec) (ID, error)
	// GetWaypoint returns the first edge and node of a waypoint edge.
	GetWaypoint(ctx context.Context, edge ID) (edgeID, nodeID ID, err error)
	// SetLevelSetConstraints sets the constraints defining the level set of an edge.
	SetLevelSetConstraints(ctx context.Context, edge ID, numerical, lockedDofs []string) error
	// IsInNodeFrom changes the node an edge belongs to.
	IsInNodeFrom(ctx context.Context, edge ID, isInNodeFrom bool) error
	// SetNumericalConstraints adds numerical constraints to a node or edge.
	SetNumericalConstraints(ctx context.Context, component ID, names []string) error
	// SetNumericalConstraintsForPath adds numerical constraints to the paths in a node.
	SetNumericalConstraintsForPath(ctx context.Context, node ID, names []string) error
	// SetLockedDofConstraints adds locked degree of freedom constraints to a node or edge.
	SetLockedDofConstraints(ctx context.Context, component ID, names []string) error
	// StatOnConstraint starts collecting statistics on the foliation of an edge.
	StatOnConstraint(ctx context.Context, edge ID) error
	// GetNode returns the node a configuration belongs to.
	GetNode(ctx context.Context, config []float64) (ID, error)
	// Display writes the graph in dot format to filename on the remote host.
	Display(ctx context.Context, filename string) error
}
