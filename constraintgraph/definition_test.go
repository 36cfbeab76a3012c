package constraintgraph_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"go.hpp.dev/manipulation/constraintgraph"
)

const definitionYAML = `
name: pick-and-place
nodes: [grasp, placement, free]
edges:
  - {name: transit, from: free, to: free}
  - {name: transfer, from: grasp, to: grasp, weight: 2, is_in_node_from: true}
waypoint_edges:
  - {name: approach, from: free, to: grasp, waypoints: 2}
level_set_edges:
  - name: move_box
    from: placement
    to: placement
    numerical: [placement]
    locked_dofs: [box_lock]
grasps:
  - {name: g, gripper: ur5/gripper, handle: box/handle, passive_joints: []}
pre_grasps:
  - {name: pg, gripper: ur5/gripper, handle: box/handle}
locked_dofs:
  - {name: box_lock, joint: box/root, value: 0.5, parametric: true}
constraints:
  - {component: grasp, numerical: [g]}
  - {component: free, path: [placement]}
  - {component: transit, locked_dofs: [box_lock]}
`

func TestParseDefinition(t *testing.T) {
	def, err := constraintgraph.ParseDefinition([]byte(definitionYAML))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, def.Name, test.ShouldEqual, "pick-and-place")
	test.That(t, def.Nodes, test.ShouldResemble, []string{"grasp", "placement", "free"})
	test.That(t, def.Edges, test.ShouldHaveLength, 2)
	test.That(t, def.Edges[0].Weight, test.ShouldBeNil)
	test.That(t, *def.Edges[1].Weight, test.ShouldEqual, 2)
	test.That(t, def.Grasps[0].PassiveJoints, test.ShouldNotBeNil)
	test.That(t, def.PreGrasps[0].PassiveJoints, test.ShouldBeNil)
	test.That(t, def.LockedDofs[0].Parametric, test.ShouldBeTrue)

	def, err = constraintgraph.ParseDefinition([]byte("nodes: [a]"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, def.Name, test.ShouldBeEmpty)
	_, err = constraintgraph.ParseDefinition([]byte("name: x\nedges: [{name: e, from: a}]"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "edges.0")
	_, err = constraintgraph.ParseDefinition([]byte("name: x\nnodes: [a, b, a]"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "duplicate names [a]")
	_, err = constraintgraph.ParseDefinition([]byte(
		"name: x\nedges: [{name: e, from: a, to: a}]\nwaypoint_edges: [{name: e, from: a, to: a}]"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "edges: duplicate names [e]")
	_, err = constraintgraph.ParseDefinition([]byte("name: [unterminated"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLoadDefinition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.yaml")
	test.That(t, os.WriteFile(path, []byte(definitionYAML), 0o600), test.ShouldBeNil)
	def, err := constraintgraph.LoadDefinition(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, def.WaypointEdges[0].Waypoints, test.ShouldEqual, 2)

	_, err = constraintgraph.LoadDefinition(filepath.Join(t.TempDir(), "missing.yaml"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestApply(t *testing.T) {
	def, err := constraintgraph.ParseDefinition([]byte(definitionYAML))
	test.That(t, err, test.ShouldBeNil)

	p := newFakePlanner()
	cg := newGraph(t, p)
	test.That(t, cg.Apply(context.Background(), def), test.ShouldBeNil)

	// ids: grasp 3, placement 4, free 5, transit 6, transfer 7, approach call 8,
	// approach_e0 9, approach_n0 10, approach_e1 11, move_box 12
	test.That(t, p.calls, test.ShouldResemble, []string{
		"CreateNode(2,grasp)",
		"CreateNode(2,placement)",
		"CreateNode(2,free)",
		"CreateEdge(transit)",
		"CreateEdge(transfer)",
		"CreateWaypointEdge(approach,2)",
		"edge",
		"node",
		"edge",
		"CreateLevelSetEdge(move_box)",
		"CreateGrasp(g,ur5/gripper,box/handle)",
		"CreateGrasp(g_passive,ur5/gripper,box/handle)",
		"SetPassiveDofs(g_passive,[])",
		"CreatePreGrasp(pg,ur5/gripper,box/handle)",
		"CreateLockedDofConstraint(box_lock,box/root,0.5)",
		"IsLockedDofParametric(box_lock,true)",
		"SetLevelSetConstraints(12,placement,box_lock)",
		"SetNumericalConstraints(3,g)",
		"SetNumericalConstraintsForPath(5,placement)",
		"SetLockedDofConstraints(6,box_lock)",
	})
	test.That(t, p.edges[0].IsInNodeFrom, test.ShouldBeFalse)
	test.That(t, p.edges[1].Weight, test.ShouldEqual, 2)
	test.That(t, p.edges[1].IsInNodeFrom, test.ShouldBeTrue)
	test.That(t, cg.Edges(), test.ShouldHaveLength, 5)
	test.That(t, cg.Nodes(), test.ShouldHaveLength, 4)

	t.Run("stops at unknown component", func(t *testing.T) {
		p := newFakePlanner()
		cg := newGraph(t, p)
		bad := constraintgraph.Definition{
			Name:        "bad",
			Nodes:       []string{"a"},
			Constraints: []constraintgraph.ConstraintDefinition{{Component: "b", Numerical: []string{"c"}}},
		}
		err := cg.Apply(context.Background(), bad)
		var unknown *constraintgraph.UnknownComponentError
		test.That(t, err, test.ShouldHaveSameTypeAs, unknown)
	})
}
