package graph_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.hpp.dev/manipulation/logging"
	"go.hpp.dev/manipulation/services/graph"
	"go.hpp.dev/manipulation/testutils"
	"go.hpp.dev/manipulation/testutils/inject"
)

func newClient(t *testing.T, svc graph.Service) graph.Service {
	t.Helper()
	network := testutils.NewBufNetwork()
	target := network.Serve(t, "graph", func(s *grpc.Server) {
		graph.RegisterServer(s, svc)
	})
	conn, err := grpc.NewClient(target, network.DialOption(), testutils.InsecureCredentials())
	test.That(t, err, test.ShouldBeNil)
	t.Cleanup(func() { conn.Close() })
	return graph.NewClientFromConn(conn, logging.NewTestLogger(t))
}

func TestClient(t *testing.T) {
	ctx := context.Background()
	injectSvc := &inject.GraphService{}
	c := newClient(t, injectSvc)

	t.Run("create graph and subgraph", func(t *testing.T) {
		var names []string
		injectSvc.CreateGraphFunc = func(ctx context.Context, name string) (graph.ID, error) {
			names = append(names, name)
			return 1, nil
		}
		injectSvc.CreateSubGraphFunc = func(ctx context.Context, name string) (graph.ID, error) {
			names = append(names, name)
			return 2, nil
		}
		id, err := c.CreateGraph(ctx, "manip")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, id, test.ShouldEqual, graph.ID(1))
		id, err = c.CreateSubGraph(ctx, "manip_sg")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, id, test.ShouldEqual, graph.ID(2))
		test.That(t, names, test.ShouldResemble, []string{"manip", "manip_sg"})
	})

	t.Run("create node", func(t *testing.T) {
		injectSvc.CreateNodeFunc = func(ctx context.Context, subgraph graph.ID, name string) (graph.ID, error) {
			test.That(t, subgraph, test.ShouldEqual, graph.ID(2))
			test.That(t, name, test.ShouldEqual, "grasp")
			return 5, nil
		}
		id, err := c.CreateNode(ctx, 2, "grasp")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, id, test.ShouldEqual, graph.ID(5))
	})

	t.Run("create edge", func(t *testing.T) {
		var got graph.EdgeSpec
		injectSvc.CreateEdgeFunc = func(ctx context.Context, spec graph.EdgeSpec) (graph.ID, error) {
			got = spec
			return 9, nil
		}
		spec := graph.EdgeSpec{From: 5, To: 4, Name: "release", Weight: 3, IsInNodeFrom: true}
		id, err := c.CreateEdge(ctx, spec)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, id, test.ShouldEqual, graph.ID(9))
		test.That(t, got, test.ShouldResemble, spec)

		injectSvc.CreateLevelSetEdgeFunc = func(ctx context.Context, spec graph.EdgeSpec) (graph.ID, error) {
			got = spec
			return 10, nil
		}
		id, err = c.CreateLevelSetEdge(ctx, graph.EdgeSpec{From: 4, To: 5, Name: "ls"})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, id, test.ShouldEqual, graph.ID(10))
		test.That(t, got.IsInNodeFrom, test.ShouldBeFalse)
		test.That(t, got.Name, test.ShouldEqual, "ls")
	})

	t.Run("create waypoint edge", func(t *testing.T) {
		injectSvc.CreateWaypointEdgeFunc = func(
			ctx context.Context,
			spec graph.EdgeSpec,
			waypoints int64,
		) (graph.GraphElements, error) {
			test.That(t, waypoints, test.ShouldEqual, 2)
			return graph.GraphElements{
				Nodes: []graph.GraphComp{{Name: "approach_n0", ID: 20}},
				Edges: []graph.GraphComp{{Name: "approach_e0", ID: 21}, {Name: "approach_e1", ID: 22}},
			}, nil
		}
		elmts, err := c.CreateWaypointEdge(ctx, graph.EdgeSpec{From: 4, To: 5, Name: "approach", Weight: 1}, 2)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, elmts.Nodes, test.ShouldResemble, []graph.GraphComp{{Name: "approach_n0", ID: 20}})
		test.That(t, elmts.Edges, test.ShouldHaveLength, 2)
		test.That(t, elmts.Edges[1], test.ShouldResemble, graph.GraphComp{Name: "approach_e1", ID: 22})
	})

	t.Run("waypoint and constraints", func(t *testing.T) {
		injectSvc.GetWaypointFunc = func(ctx context.Context, edge graph.ID) (graph.ID, graph.ID, error) {
			return edge + 1, edge + 2, nil
		}
		e, n, err := c.GetWaypoint(ctx, 30)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, e, test.ShouldEqual, graph.ID(31))
		test.That(t, n, test.ShouldEqual, graph.ID(32))

		var calls []string
		record := func(method string) func(context.Context, graph.ID, []string) error {
			return func(ctx context.Context, id graph.ID, names []string) error {
				calls = append(calls, method+":"+id.String()+":"+names[0])
				return nil
			}
		}
		injectSvc.SetNumericalConstraintsFunc = record("num")
		injectSvc.SetNumericalConstraintsForPathFunc = record("path")
		injectSvc.SetLockedDofConstraintsFunc = record("locked")
		injectSvc.SetLevelSetConstraintsFunc = func(ctx context.Context, edge graph.ID, numerical, lockedDofs []string) error {
			calls = append(calls, "levelset:"+edge.String()+":"+numerical[0]+":"+lockedDofs[0])
			return nil
		}
		injectSvc.IsInNodeFromFunc = func(ctx context.Context, edge graph.ID, isInNodeFrom bool) error {
			test.That(t, isInNodeFrom, test.ShouldBeTrue)
			calls = append(calls, "inNodeFrom:"+edge.String())
			return nil
		}
		injectSvc.StatOnConstraintFunc = func(ctx context.Context, edge graph.ID) error {
			calls = append(calls, "stat:"+edge.String())
			return nil
		}
		test.That(t, c.SetNumericalConstraints(ctx, 5, []string{"grasp"}), test.ShouldBeNil)
		test.That(t, c.SetNumericalConstraintsForPath(ctx, 5, []string{"placement"}), test.ShouldBeNil)
		test.That(t, c.SetLockedDofConstraints(ctx, 9, []string{"box_x"}), test.ShouldBeNil)
		test.That(t, c.SetLevelSetConstraints(ctx, 10, []string{"grasp"}, []string{"box_y"}), test.ShouldBeNil)
		test.That(t, c.IsInNodeFrom(ctx, 9, true), test.ShouldBeNil)
		test.That(t, c.StatOnConstraint(ctx, 9), test.ShouldBeNil)
		test.That(t, calls, test.ShouldResemble, []string{
			"num:5:grasp", "path:5:placement", "locked:9:box_x", "levelset:10:grasp:box_y", "inNodeFrom:9", "stat:9",
		})
	})

	t.Run("get node and display", func(t *testing.T) {
		injectSvc.GetNodeFunc = func(ctx context.Context, config []float64) (graph.ID, error) {
			test.That(t, config, test.ShouldResemble, []float64{0.5, -1, 2})
			return 4, nil
		}
		id, err := c.GetNode(ctx, []float64{0.5, -1, 2})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, id, test.ShouldEqual, graph.ID(4))

		var filename string
		injectSvc.DisplayFunc = func(ctx context.Context, f string) error {
			filename = f
			return nil
		}
		test.That(t, c.Display(ctx, "/tmp/constraintgraph.dot"), test.ShouldBeNil)
		test.That(t, filename, test.ShouldEqual, "/tmp/constraintgraph.dot")
	})

	t.Run("remote error", func(t *testing.T) {
		injectSvc.CreateNodeFunc = func(ctx context.Context, subgraph graph.ID, name string) (graph.ID, error) {
			return 0, status.Error(codes.FailedPrecondition, "no robot")
		}
		_, err := c.CreateNode(ctx, 2, "free")
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, status.Code(errors.Cause(err)), test.ShouldEqual, codes.FailedPrecondition)
		test.That(t, err.Error(), test.ShouldContainSubstring, "no robot")
	})
}
