package constraintgraph

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"go.hpp.dev/manipulation/services/problem"
)

// EdgeDefinition declares an edge between two nodes.
type EdgeDefinition struct {
	Name   string `yaml:"name"`
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Weight *int64 `yaml:"weight,omitempty"`
	// IsInNodeFrom overrides the default membership when set.
	IsInNodeFrom *bool `yaml:"is_in_node_from,omitempty"`
	// Waypoints is only used by waypoint edges.
	Waypoints int64 `yaml:"waypoints,omitempty"`
	// Numerical and LockedDofs are the level set constraints of level set edges.
	Numerical  []string `yaml:"numerical,omitempty"`
	LockedDofs []string `yaml:"locked_dofs,omitempty"`
}

func (def EdgeDefinition) options() []EdgeOption {
	var opts []EdgeOption
	if def.Weight != nil {
		opts = append(opts, WithWeight(*def.Weight))
	}
	if def.IsInNodeFrom != nil {
		opts = append(opts, WithIsInNodeFrom(*def.IsInNodeFrom))
	}
	if def.Waypoints > 0 {
		opts = append(opts, WithWaypoints(def.Waypoints))
	}
	return opts
}

// GraspDefinition declares a grasp or pre-grasp.
type GraspDefinition struct {
	Name    string `yaml:"name"`
	Gripper string `yaml:"gripper"`
	Handle  string `yaml:"handle"`
	// PassiveJoints, when present even if empty, creates the passive variant of the grasp.
	PassiveJoints []string `yaml:"passive_joints"`
}

// LockedDofDefinition declares a locked degree of freedom constraint.
type LockedDofDefinition struct {
	Name                string  `yaml:"name"`
	Joint               string  `yaml:"joint"`
	Value               float64 `yaml:"value"`
	RankInConfiguration uint16  `yaml:"rank_in_configuration"`
	RankInVelocity      uint16  `yaml:"rank_in_velocity"`
	Parametric          bool    `yaml:"parametric"`
}

// ConstraintDefinition attaches constraints to a node or edge.
type ConstraintDefinition struct {
	Component  string   `yaml:"component"`
	Numerical  []string `yaml:"numerical,omitempty"`
	Path       []string `yaml:"path,omitempty"`
	LockedDofs []string `yaml:"locked_dofs,omitempty"`
}

// Definition declares a whole constraint graph.
type Definition struct {
	// Name is the graph name; callers fall back to a configured name when it is empty.
	Name          string                 `yaml:"name"`
	Nodes         []string               `yaml:"nodes"`
	Edges         []EdgeDefinition       `yaml:"edges"`
	WaypointEdges []EdgeDefinition       `yaml:"waypoint_edges"`
	LevelSetEdges []EdgeDefinition       `yaml:"level_set_edges"`
	Grasps        []GraspDefinition      `yaml:"grasps"`
	PreGrasps     []GraspDefinition      `yaml:"pre_grasps"`
	LockedDofs    []LockedDofDefinition  `yaml:"locked_dofs"`
	Constraints   []ConstraintDefinition `yaml:"constraints"`
}

// LoadDefinition reads a YAML graph definition.
func LoadDefinition(path string) (Definition, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, errors.Wrap(err, "reading graph definition")
	}
	return ParseDefinition(data)
}

// ParseDefinition parses a YAML graph definition.
func ParseDefinition(data []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, errors.Wrap(err, "parsing graph definition")
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Validate checks that every declared element is named and that node and edge names are unique.
func (def Definition) Validate() error {
	for i, node := range def.Nodes {
		if node == "" {
			return errors.Errorf("nodes.%d: name is required", i)
		}
	}
	for field, edges := range map[string][]EdgeDefinition{
		"edges": def.Edges, "waypoint_edges": def.WaypointEdges, "level_set_edges": def.LevelSetEdges,
	} {
		for i, e := range edges {
			if e.Name == "" || e.From == "" || e.To == "" {
				return errors.Errorf("%s.%d: name, from and to are required", field, i)
			}
		}
	}
	for field, grasps := range map[string][]GraspDefinition{"grasps": def.Grasps, "pre_grasps": def.PreGrasps} {
		for i, g := range grasps {
			if g.Name == "" || g.Gripper == "" || g.Handle == "" {
				return errors.Errorf("%s.%d: name, gripper and handle are required", field, i)
			}
		}
	}
	if dups := lo.FindDuplicates(def.Nodes); len(dups) > 0 {
		return errors.Errorf("nodes: duplicate names %v", dups)
	}
	edgeNames := lo.Map(append(append(append([]EdgeDefinition{}, def.Edges...), def.WaypointEdges...), def.LevelSetEdges...),
		func(e EdgeDefinition, _ int) string { return e.Name })
	if dups := lo.FindDuplicates(edgeNames); len(dups) > 0 {
		return errors.Errorf("edges: duplicate names %v", dups)
	}
	for i, c := range def.Constraints {
		if c.Component == "" {
			return errors.Errorf("constraints.%d: component is required", i)
		}
	}
	return nil
}

// Apply builds the elements of def on cg: nodes, edges, waypoint edges, level set edges, grasps,
// pre-grasps, locked dofs and finally constraints. It stops at the first error.
func (cg *ConstraintGraph) Apply(ctx context.Context, def Definition) error {
	if err := cg.CreateNode(ctx, def.Nodes...); err != nil {
		return err
	}
	for _, e := range def.Edges {
		if _, err := cg.CreateEdge(ctx, e.From, e.To, e.Name, e.options()...); err != nil {
			return err
		}
	}
	for _, e := range def.WaypointEdges {
		if _, err := cg.CreateWaypointEdge(ctx, e.From, e.To, e.Name, e.options()...); err != nil {
			return err
		}
	}
	for _, e := range def.LevelSetEdges {
		if _, err := cg.CreateLevelSetEdge(ctx, e.From, e.To, e.Name, e.options()...); err != nil {
			return err
		}
	}
	for _, g := range def.Grasps {
		if err := cg.CreateGrasp(ctx, g.Name, g.Gripper, g.Handle, g.PassiveJoints...); err != nil {
			return err
		}
	}
	for _, g := range def.PreGrasps {
		if err := cg.CreatePreGrasp(ctx, g.Name, g.Gripper, g.Handle); err != nil {
			return err
		}
	}
	for _, l := range def.LockedDofs {
		dof := problem.LockedDof{
			Name:                l.Name,
			Joint:               l.Joint,
			Value:               l.Value,
			RankInConfiguration: l.RankInConfiguration,
			RankInVelocity:      l.RankInVelocity,
		}
		if err := cg.CreateLockedDof(ctx, dof, l.Parametric); err != nil {
			return err
		}
	}
	for _, e := range def.LevelSetEdges {
		if len(e.Numerical) == 0 && len(e.LockedDofs) == 0 {
			continue
		}
		if err := cg.SetLevelSetConstraints(ctx, e.Name, e.Numerical, e.LockedDofs); err != nil {
			return err
		}
	}
	for _, c := range def.Constraints {
		if len(c.Numerical) > 0 {
			if err := cg.SetNumericalConstraints(ctx, c.Component, c.Numerical); err != nil {
				return err
			}
		}
		if len(c.Path) > 0 {
			if err := cg.SetNumericalConstraintsForPath(ctx, c.Component, c.Path); err != nil {
				return err
			}
		}
		if len(c.LockedDofs) > 0 {
			if err := cg.SetLockedDofConstraints(ctx, c.Component, c.LockedDofs); err != nil {
				return err
			}
		}
	}
	return nil
}
