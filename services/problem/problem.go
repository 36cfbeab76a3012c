// Package problem defines the remote manipulation problem service: grasps, locked degrees of
// freedom and projection of configurations onto graph constraints.
package problem

import (
	"context"

	"go.hpp.dev/manipulation/services/graph"
)

// ServiceName is the gRPC service name of the manipulation problem service.
const ServiceName = "hpp.manipulation.problem.v1.ProblemService"

// Projection is the result of applying the constraints of graph components to a configuration.
type Projection struct {
	Success       bool      `json:"success"`
	Config        []float64 `json:"config"`
	ResidualError float64   `json:"residual_error"`
}

// LockedDof describes a locked degree of freedom constraint.
type LockedDof struct {
	Name  string  `json:"name"`
	Joint string  `json:"joint"`
	Value float64 `json:"value"`
	// RankInConfiguration and RankInVelocity select the joint component that is locked.
	RankInConfiguration uint16 `json:"rank_in_configuration"`
	RankInVelocity      uint16 `json:"rank_in_velocity"`
}

// A Service is the remote manipulation problem service.
type Service interface {
	// CreateGrasp registers a grasp constraint named name between a gripper and a handle.
	CreateGrasp(ctx context.Context, name, gripper, handle string) error
	// CreatePreGrasp registers a pre-grasp constraint named name between a gripper and a handle.
	CreatePreGrasp(ctx context.Context, name, gripper, handle string) error
	// CreateLockedDofConstraint registers a locked degree of freedom constraint.
	CreateLockedDofConstraint(ctx context.Context, dof LockedDof) error
	// IsLockedDofParametric toggles whether a locked dof value is taken from the configuration.
	IsLockedDofParametric(ctx context.Context, name string, parametric bool) error
	// ApplyConstraints projects config onto the constraints of the given nodes.
	ApplyConstraints(ctx context.Context, nodes []graph.ID, config []float64) (Projection, error)
	// ApplyConstraintsWithOffset projects config onto the constraints of the given edges, the
	// right hand side being computed from qnear.
	ApplyConstraintsWithOffset(ctx context.Context, edges []graph.ID, qnear, config []float64) (Projection, error)
	// Extend extends qnear toward qrand with the manipulation planner and returns the reached
	// configuration.
	Extend(ctx context.Context, qnear, qrand []float64) ([]float64, error)
}
