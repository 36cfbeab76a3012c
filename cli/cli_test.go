package cli_test

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"go.viam.com/test"
	"google.golang.org/grpc"

	"go.hpp.dev/manipulation/cli"
	"go.hpp.dev/manipulation/services/basic"
	"go.hpp.dev/manipulation/services/graph"
	"go.hpp.dev/manipulation/services/problem"
	"go.hpp.dev/manipulation/testutils/inject"
)

func servePlanner(t *testing.T, svc *inject.GraphService) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	test.That(t, err, test.ShouldBeNil)
	s := grpc.NewServer()
	graph.RegisterServer(s, svc)
	problem.RegisterServer(s, &inject.ProblemService{})
	basic.RegisterServer(s, &inject.BasicService{})
	go s.Serve(listener)
	t.Cleanup(s.Stop)
	return listener.Addr().String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	test.That(t, os.WriteFile(path, []byte(content), 0o600), test.ShouldBeNil)
	return path
}

func writeConfig(t *testing.T, address string) string {
	t.Helper()
	return writeFile(t, "config.json", fmt.Sprintf(`{
	"log": {"level": "error"},
	"directory": {
		"hpp.plannerContext/hpp.manipulation": {"address": %[1]q, "type_id": "hpp.manipulation.v1.Manipulation"},
		"hpp.plannerContext/hpp.basic": {"address": %[1]q, "type_id": "hpp.corbaserver.v1.Basic"}
	}
}`, address))
}

func runApp(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	err := cli.NewApp(&out, &errOut).Run(append([]string{"hppmanip"}, args...))
	return out.String(), err
}

func TestCheck(t *testing.T) {
	color.NoColor = true
	address := servePlanner(t, &inject.GraphService{})
	out, err := runApp("-c", writeConfig(t, address), "check")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "manipulation: "+address+" (hpp.manipulation.v1.Manipulation)")
	test.That(t, out, test.ShouldContainSubstring, "basic: "+address)

	_, err = runApp("-c", filepath.Join(t.TempDir(), "missing.json"), "check")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestBuildGraph(t *testing.T) {
	var next graph.ID
	newID := func() graph.ID {
		next++
		return next
	}
	var edges []graph.EdgeSpec
	svc := &inject.GraphService{
		CreateGraphFunc: func(ctx context.Context, name string) (graph.ID, error) {
			return newID(), nil
		},
		CreateSubGraphFunc: func(ctx context.Context, name string) (graph.ID, error) {
			return newID(), nil
		},
		CreateNodeFunc: func(ctx context.Context, subgraph graph.ID, name string) (graph.ID, error) {
			return newID(), nil
		},
		CreateEdgeFunc: func(ctx context.Context, spec graph.EdgeSpec) (graph.ID, error) {
			edges = append(edges, spec)
			return newID(), nil
		},
	}
	address := servePlanner(t, svc)
	def := writeFile(t, "graph.yaml", `
name: pick
nodes: [free, grasp]
edges:
  - {name: transit, from: free, to: free}
  - {name: release, from: grasp, to: free}
`)

	out, err := runApp("-c", writeConfig(t, address), "graph", "build", "--definition", def)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "graph pick (id 1, subgraph 2)")
	test.That(t, out, test.ShouldContainSubstring, "node 3 free")
	test.That(t, out, test.ShouldContainSubstring, "edge 6 release")
	test.That(t, edges, test.ShouldHaveLength, 2)
	test.That(t, edges[1].From, test.ShouldEqual, 4)
	test.That(t, edges[1].IsInNodeFrom, test.ShouldBeTrue)

	_, err = runApp("-c", writeConfig(t, address), "graph", "build")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRenderGraph(t *testing.T) {
	_, err := runApp("graph", "render", "only-one.dot")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "expected a dot file")

	dot := writeFile(t, "g.dot", "digraph g { a -> b }")
	out := filepath.Join(t.TempDir(), "g.svg")
	cfg := writeFile(t, "config.json", `{
		"name_service": {"address": "localhost:2809"},
		"log": {"level": "error"},
		"render": {"engine": "graphviz"}
	}`)
	stdout, err := runApp("-c", cfg, "graph", "render", dot, out)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, stdout, test.ShouldContainSubstring, "rendered "+out)
	_, err = os.Stat(out)
	test.That(t, err, test.ShouldBeNil)
}
