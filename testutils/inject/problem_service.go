package inject

import (
	"context"

	"go.hpp.dev/manipulation/services/graph"
	"go.hpp.dev/manipulation/services/problem"
)

// ProblemService is an injected manipulation problem service.
type ProblemService struct {
	problem.Service
	CreateGraspFunc                func(ctx context.Context, name, gripper, handle string) error
	CreatePreGraspFunc             func(ctx context.Context, name, gripper, handle string) error
	CreateLockedDofConstraintFunc  func(ctx context.Context, dof problem.LockedDof) error
	IsLockedDofParametricFunc      func(ctx context.Context, name string, parametric bool) error
	ApplyConstraintsFunc           func(ctx context.Context, nodes []graph.ID, config []float64) (problem.Projection, error)
	ApplyConstraintsWithOffsetFunc func(
		ctx context.Context, edges []graph.ID, qnear, config []float64,
	) (problem.Projection, error)
	ExtendFunc func(ctx context.Context, qnear, qrand []float64) ([]float64, error)
}

// CreateGrasp calls the injected CreateGrasp or the real version.
func (s *ProblemService) CreateGrasp(ctx context.Context, name, gripper, handle string) error {
	if s.CreateGraspFunc == nil {
		return s.Service.CreateGrasp(ctx, name, gripper, handle)
	}
	return s.CreateGraspFunc(ctx, name, gripper, handle)
}

// CreatePreGrasp calls the injected CreatePreGrasp or the real version.
func (s *ProblemService) CreatePreGrasp(ctx context.Context, name, gripper, handle string) error {
	if s.CreatePreGraspFunc == nil {
		return s.Service.CreatePreGrasp(ctx, name, gripper, handle)
	}
	return s.CreatePreGraspFunc(ctx, name, gripper, handle)
}

// CreateLockedDofConstraint calls the injected CreateLockedDofConstraint or the real version.
func (s *ProblemService) CreateLockedDofConstraint(ctx context.Context, dof problem.LockedDof) error {
	if s.CreateLockedDofConstraintFunc == nil {
		return s.Service.CreateLockedDofConstraint(ctx, dof)
	}
	return s.CreateLockedDofConstraintFunc(ctx, dof)
}

// IsLockedDofParametric calls the injected IsLockedDofParametric or the real version.
func (s *ProblemService) IsLockedDofParametric(ctx context.Context, name string, parametric bool) error {
	if s.IsLockedDofParametricFunc == nil {
		return s.Service.IsLockedDofParametric(ctx, name, parametric)
	}
	return s.IsLockedDofParametricFunc(ctx, name, parametric)
}

// ApplyConstraints calls the injected ApplyConstraints or the real version.
func (s *ProblemService) ApplyConstraints(
	ctx context.Context,
	nodes []graph.ID,
	config []float64,
) (problem.Projection, error) {
	if s.ApplyConstraintsFunc == nil {
		return s.Service.ApplyConstraints(ctx, nodes, config)
	}
	return s.ApplyConstraintsFunc(ctx, nodes, config)
}

// ApplyConstraintsWithOffset calls the injected ApplyConstraintsWithOffset or the real version.
func (s *ProblemService) ApplyConstraintsWithOffset(
	ctx context.Context,
	edges []graph.ID,
	qnear, config []float64,
) (problem.Projection, error) {
	if s.ApplyConstraintsWithOffsetFunc == nil {
		return s.Service.ApplyConstraintsWithOffset(ctx, edges, qnear, config)
	}
	return s.ApplyConstraintsWithOffsetFunc(ctx, edges, qnear, config)
}

// Extend calls the injected Extend or the real version.
func (s *ProblemService) Extend(ctx context.Context, qnear, qrand []float64) ([]float64, error) {
	if s.ExtendFunc == nil {
		return s.Service.Extend(ctx, qnear, qrand)
	}
	return s.ExtendFunc(ctx, qnear, qrand)
}
