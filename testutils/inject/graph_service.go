package inject

import (
	"context"

	"go.hpp.dev/manipulation/services/graph"
)

// GraphService is an injected constraint graph service.
type GraphService struct {
	graph.Service
	CreateGraphFunc                    func(ctx context.Context, name string) (graph.ID, error)
	CreateSubGraphFunc                 func(ctx context.Context, name string) (graph.ID, error)
	CreateNodeFunc                     func(ctx context.Context, subgraph graph.ID, name string) (graph.ID, error)
	CreateEdgeFunc                     func(ctx context.Context, spec graph.EdgeSpec) (graph.ID, error)
	CreateWaypointEdgeFunc             func(ctx context.Context, spec graph.EdgeSpec, waypoints int64) (graph.GraphElements, error)
	CreateLevelSetEdgeFunc             func(ctx context.Context, spec graph.EdgeSpec) (graph.ID, error)
	GetWaypointFunc                    func(ctx context.Context, edge graph.ID) (graph.ID, graph.ID, error)
	SetLevelSetConstraintsFunc         func(ctx context.Context, edge graph.ID, numerical, lockedDofs []string) error
	IsInNodeFromFunc                   func(ctx context.Context, edge graph.ID, isInNodeFrom bool) error
	SetNumericalConstraintsFunc        func(ctx context.Context, component graph.ID, names []string) error
	SetNumericalConstraintsForPathFunc func(ctx context.Context, node graph.ID, names []string) error
	SetLockedDofConstraintsFunc        func(ctx context.Context, component graph.ID, names []string) error
	StatOnConstraintFunc               func(ctx context.Context, edge graph.ID) error
	GetNodeFunc                        func(ctx context.Context, config []float64) (graph.ID, error)
	DisplayFunc                        func(ctx context.Context, filename string) error
}

// CreateGraph calls the injected CreateGraph or the real version.
func (s *GraphService) CreateGraph(ctx context.Context, name string) (graph.ID, error) {
	if s.CreateGraphFunc == nil {
		return s.Service.CreateGraph(ctx, name)
	}
	return s.CreateGraphFunc(ctx, name)
}

// CreateSubGraph calls the injected CreateSubGraph or the real version.
func (s *GraphService) CreateSubGraph(ctx context.Context, name string) (graph.ID, error) {
	if s.CreateSubGraphFunc == nil {
		return s.Service.CreateSubGraph(ctx, name)
	}
	return s.CreateSubGraphFunc(ctx, name)
}

// CreateNode calls the injected CreateNode or the real version.
func (s *GraphService) CreateNode(ctx context.Context, subgraph graph.ID, name string) (graph.ID, error) {
	if s.CreateNodeFunc == nil {
		return s.Service.CreateNode(ctx, subgraph, name)
	}
	return s.CreateNodeFunc(ctx, subgraph, name)
}

// CreateEdge calls the injected CreateEdge or the real version.
func (s *GraphService) CreateEdge(ctx context.Context, spec graph.EdgeSpec) (graph.ID, error) {
	if s.CreateEdgeFunc == nil {
		return s.Service.CreateEdge(ctx, spec)
	}
	return s.CreateEdgeFunc(ctx, spec)
}

// CreateWaypointEdge calls the injected CreateWaypointEdge or the real version.
func (s *GraphService) CreateWaypointEdge(
	ctx context.Context,
	spec graph.EdgeSpec,
	waypoints int64,
) (graph.GraphElements, error) {
	if s.CreateWaypointEdgeFunc == nil {
		return s.Service.CreateWaypointEdge(ctx, spec, waypoints)
	}
	return s.CreateWaypointEdgeFunc(ctx, spec, waypoints)
}

// CreateLevelSetEdge calls the injected CreateLevelSetEdge or the real version.
func (s *GraphService) CreateLevelSetEdge(ctx context.Context, spec graph.EdgeSpec) (graph.ID, error) {
	if s.CreateLevelSetEdgeFunc == nil {
		return s.Service.CreateLevelSetEdge(ctx, spec)
	}
	return s.CreateLevelSetEdgeFunc(ctx, spec)
}

// GetWaypoint calls the injected GetWaypoint or the real version.
func (s *GraphService) GetWaypoint(ctx context.Context, edge graph.ID) (graph.ID, graph.ID, error) {
	if s.GetWaypointFunc == nil {
		return s.Service.GetWaypoint(ctx, edge)
	}
	return s.GetWaypointFunc(ctx, edge)
}

// SetLevelSetConstraints calls the injected SetLevelSetConstraints or the real version.
func (s *GraphService) SetLevelSetConstraints(ctx context.Context, edge graph.ID, numerical, lockedDofs []string) error {
	if s.SetLevelSetConstraintsFunc == nil {
		return s.Service.SetLevelSetConstraints(ctx, edge, numerical, lockedDofs)
	}
	return s.SetLevelSetConstraintsFunc(ctx, edge, numerical, lockedDofs)
}

// IsInNodeFrom calls the injected IsInNodeFrom or the real version.
func (s *GraphService) IsInNodeFrom(ctx context.Context, edge graph.ID, isInNodeFrom bool) error {
	if s.IsInNodeFromFunc == nil {
		return s.Service.IsInNodeFrom(ctx, edge, isInNodeFrom)
	}
	return s.IsInNodeFromFunc(ctx, edge, isInNodeFrom)
}

// SetNumericalConstraints calls the injected SetNumericalConstraints or the real version.
func (s *GraphService) SetNumericalConstraints(ctx context.Context, component graph.ID, names []string) error {
	if s.SetNumericalConstraintsFunc == nil {
		return s.Service.SetNumericalConstraints(ctx, component, names)
	}
	return s.SetNumericalConstraintsFunc(ctx, component, names)
}

// SetNumericalConstraintsForPath calls the injected SetNumericalConstraintsForPath or the real version.
func (s *GraphService) SetNumericalConstraintsForPath(ctx context.Context, node graph.ID, names []string) error {
	if s.SetNumericalConstraintsForPathFunc == nil {
		return s.Service.SetNumericalConstraintsForPath(ctx, node, names)
	}
	return s.SetNumericalConstraintsForPathFunc(ctx, node, names)
}

// SetLockedDofConstraints calls the injected SetLockedDofConstraints or the real version.
func (s *GraphService) SetLockedDofConstraints(ctx context.Context, component graph.ID, names []string) error {
	if s.SetLockedDofConstraintsFunc == nil {
		return s.Service.SetLockedDofConstraints(ctx, component, names)
	}
	return s.SetLockedDofConstraintsFunc(ctx, component, names)
}

// StatOnConstraint calls the injected StatOnConstraint or the real version.
func (s *GraphService) StatOnConstraint(ctx context.Context, edge graph.ID) error {
	if s.StatOnConstraintFunc == nil {
		return s.Service.StatOnConstraint(ctx, edge)
	}
	return s.StatOnConstraintFunc(ctx, edge)
}

// GetNode calls the injected GetNode or the real version.
func (s *GraphService) GetNode(ctx context.Context, config []float64) (graph.ID, error) {
	if s.GetNodeFunc == nil {
		return s.Service.GetNode(ctx, config)
	}
	return s.GetNodeFunc(ctx, config)
}

// Display calls the injected Display or the real version.
func (s *GraphService) Display(ctx context.Context, filename string) error {
	if s.DisplayFunc == nil {
		return s.Service.Display(ctx, filename)
	}
	return s.DisplayFunc(ctx, filename)
}
