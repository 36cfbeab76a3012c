// Package constraintgraph is a client side proxy for a constraint graph held by the remote
// manipulation planner. It forwards graph construction to the planner and keeps the identifiers
// the planner assigns, by name, in creation order.
package constraintgraph

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"go.hpp.dev/manipulation/logging"
	"go.hpp.dev/manipulation/render"
	"go.hpp.dev/manipulation/services/basic"
	"go.hpp.dev/manipulation/services/graph"
	"go.hpp.dev/manipulation/services/problem"
)

// SubGraphSuffix is appended to the graph name to name its subgraph.
const SubGraphSuffix = "_sg"

// PassiveSuffix is appended to a grasp name to name its passive variant.
const PassiveSuffix = "_passive"

// Services are the remote services a ConstraintGraph forwards to.
type Services struct {
	Graph   graph.Service
	Problem problem.Service
	Basic   basic.Service
}

type nameTable = orderedmap.OrderedMap[string, graph.ID]

// ConstraintGraph is a proxy for one remote constraint graph.
type ConstraintGraph struct {
	name   string
	svc    Services
	logger logging.Logger

	renderer render.Renderer
	viewer   render.Viewer
	dotPath  string
	pdfPath  string

	graphID    graph.ID
	subGraphID graph.ID

	mu    sync.RWMutex
	nodes *nameTable
	edges *nameTable
}

// New creates the graph and its subgraph on the remote planner.
func New(ctx context.Context, svc Services, name string, logger logging.Logger, opts ...Option) (*ConstraintGraph, error) {
	if svc.Graph == nil || svc.Problem == nil || svc.Basic == nil {
		return nil, errors.New("graph, problem and basic services are required")
	}
	cg := &ConstraintGraph{
		name:    name,
		svc:     svc,
		logger:  logger,
		dotPath: render.DefaultDotPath,
		pdfPath: render.DefaultPdfPath,
		nodes:   orderedmap.New[string, graph.ID](),
		edges:   orderedmap.New[string, graph.ID](),
	}
	for _, opt := range opts {
		opt(cg)
	}
	if cg.renderer == nil || cg.viewer == nil {
		renderer, viewer, err := render.New(render.DefaultConfig(), nil, logger)
		if err != nil {
			return nil, err
		}
		if cg.renderer == nil {
			cg.renderer = renderer
		}
		if cg.viewer == nil {
			cg.viewer = viewer
		}
	}

	var err error
	cg.graphID, err = svc.Graph.CreateGraph(ctx, name)
	if err != nil {
		return nil, errors.Wrapf(err, "creating graph %q", name)
	}
	cg.subGraphID, err = svc.Graph.CreateSubGraph(ctx, name+SubGraphSuffix)
	if err != nil {
		return nil, errors.Wrapf(err, "creating subgraph %q", name+SubGraphSuffix)
	}
	logger.Debugw("graph created", "name", name, "graph", cg.graphID, "subgraph", cg.subGraphID)
	return cg, nil
}

// Name returns the graph name.
func (cg *ConstraintGraph) Name() string {
	return cg.name
}

// GraphID returns the remote identifier of the graph.
func (cg *ConstraintGraph) GraphID() graph.ID {
	return cg.graphID
}

// SubGraphID returns the remote identifier of the subgraph nodes are created in.
func (cg *ConstraintGraph) SubGraphID() graph.ID {
	return cg.subGraphID
}

// Node returns the identifier of a node.
func (cg *ConstraintGraph) Node(name string) (graph.ID, bool) {
	cg.mu.RLock()
	defer cg.mu.RUnlock()
	return cg.nodes.Get(name)
}

// Edge returns the identifier of an edge.
func (cg *ConstraintGraph) Edge(name string) (graph.ID, bool) {
	cg.mu.RLock()
	defer cg.mu.RUnlock()
	return cg.edges.Get(name)
}

// Nodes returns the known nodes in the order their names were first recorded.
func (cg *ConstraintGraph) Nodes() []graph.GraphComp {
	cg.mu.RLock()
	defer cg.mu.RUnlock()
	return snapshot(cg.nodes)
}

// Edges returns the known edges in the order their names were first recorded.
func (cg *ConstraintGraph) Edges() []graph.GraphComp {
	cg.mu.RLock()
	defer cg.mu.RUnlock()
	return snapshot(cg.edges)
}

func snapshot(table *nameTable) []graph.GraphComp {
	comps := make([]graph.GraphComp, 0, table.Len())
	for pair := table.Oldest(); pair != nil; pair = pair.Next() {
		comps = append(comps, graph.GraphComp{Name: pair.Key, ID: pair.Value})
	}
	return comps
}

func (cg *ConstraintGraph) record(table *nameTable, comps ...graph.GraphComp) {
	cg.mu.Lock()
	defer cg.mu.Unlock()
	for _, comp := range comps {
		table.Set(comp.Name, comp.ID)
	}
}

func (cg *ConstraintGraph) nodePair(from, to string) (graph.ID, graph.ID, error) {
	cg.mu.RLock()
	defer cg.mu.RUnlock()
	fromID, ok := cg.nodes.Get(from)
	if !ok {
		return 0, 0, &UnknownNodeError{Name: from}
	}
	toID, ok := cg.nodes.Get(to)
	if !ok {
		return 0, 0, &UnknownNodeError{Name: to}
	}
	return fromID, toID, nil
}

func (cg *ConstraintGraph) edgeID(name string) (graph.ID, error) {
	if id, ok := cg.Edge(name); ok {
		return id, nil
	}
	return 0, &UnknownComponentError{Kind: "edge", Name: name}
}

// componentID resolves a node name, then an edge name.
func (cg *ConstraintGraph) componentID(name string) (graph.ID, error) {
	if id, ok := cg.Node(name); ok {
		return id, nil
	}
	if id, ok := cg.Edge(name); ok {
		return id, nil
	}
	return 0, &UnknownComponentError{Kind: "component", Name: name}
}

// CreateNode creates nodes in the given order. Order matters: a configuration belongs to the
// first node whose constraints it satisfies, so the most restrictive node must come first.
// Creation stops at the first error; nodes created before it stay recorded.
func (cg *ConstraintGraph) CreateNode(ctx context.Context, names ...string) error {
	for _, name := range names {
		id, err := cg.svc.Graph.CreateNode(ctx, cg.subGraphID, name)
		if err != nil {
			return errors.Wrapf(err, "creating node %q", name)
		}
		cg.record(cg.nodes, graph.GraphComp{Name: name, ID: id})
	}
	return nil
}

func (cg *ConstraintGraph) edgeSpec(from, to, name string, o edgeOptions) (graph.EdgeSpec, error) {
	fromID, toID, err := cg.nodePair(from, to)
	if err != nil {
		return graph.EdgeSpec{}, err
	}
	spec := graph.EdgeSpec{From: fromID, To: toID, Name: name, Weight: o.weight, IsInNodeFrom: fromID > toID}
	if o.isInNodeFrom != nil {
		spec.IsInNodeFrom = *o.isInNodeFrom
	}
	return spec, nil
}

// CreateEdge creates an edge between two known nodes and records it.
func (cg *ConstraintGraph) CreateEdge(ctx context.Context, from, to, name string, opts ...EdgeOption) (graph.ID, error) {
	spec, err := cg.edgeSpec(from, to, name, newEdgeOptions(opts))
	if err != nil {
		return 0, err
	}
	id, err := cg.svc.Graph.CreateEdge(ctx, spec)
	if err != nil {
		return 0, errors.Wrapf(err, "creating edge %q", name)
	}
	cg.record(cg.edges, graph.GraphComp{Name: name, ID: id})
	return id, nil
}

// CreateWaypointEdge creates an edge going through intermediate nodes. Every edge and node the
// planner returns is recorded; other names are left untouched. The planner result is returned as
// is.
func (cg *ConstraintGraph) CreateWaypointEdge(
	ctx context.Context,
	from, to, name string,
	opts ...EdgeOption,
) (graph.GraphElements, error) {
	o := newEdgeOptions(opts)
	spec, err := cg.edgeSpec(from, to, name, o)
	if err != nil {
		return graph.GraphElements{}, err
	}
	elmts, err := cg.svc.Graph.CreateWaypointEdge(ctx, spec, o.waypoints)
	if err != nil {
		return graph.GraphElements{}, errors.Wrapf(err, "creating waypoint edge %q", name)
	}
	cg.record(cg.edges, elmts.Edges...)
	cg.record(cg.nodes, elmts.Nodes...)
	return elmts, nil
}

// CreateLevelSetEdge creates an edge whose paths stay in a level set and records it.
func (cg *ConstraintGraph) CreateLevelSetEdge(
	ctx context.Context,
	from, to, name string,
	opts ...EdgeOption,
) (graph.ID, error) {
	spec, err := cg.edgeSpec(from, to, name, newEdgeOptions(opts))
	if err != nil {
		return 0, err
	}
	id, err := cg.svc.Graph.CreateLevelSetEdge(ctx, spec)
	if err != nil {
		return 0, errors.Wrapf(err, "creating level set edge %q", name)
	}
	cg.record(cg.edges, graph.GraphComp{Name: name, ID: id})
	return id, nil
}

// CreateGrasp creates a grasp constraint. When passiveJoints is not nil, even if empty, a second
// grasp named name+"_passive" is created and the joints are declared passive for it. Nothing is
// undone if a later call fails.
func (cg *ConstraintGraph) CreateGrasp(ctx context.Context, name, gripper, handle string, passiveJoints ...string) error {
	if err := cg.svc.Problem.CreateGrasp(ctx, name, gripper, handle); err != nil {
		return errors.Wrapf(err, "creating grasp %q", name)
	}
	if passiveJoints == nil {
		return nil
	}
	passive := name + PassiveSuffix
	if err := cg.svc.Problem.CreateGrasp(ctx, passive, gripper, handle); err != nil {
		return errors.Wrapf(err, "creating grasp %q", passive)
	}
	return errors.Wrapf(cg.svc.Basic.SetPassiveDofs(ctx, passive, passiveJoints), "setting passive dofs of %q", passive)
}

// CreateGraspWithPassive is CreateGrasp with an explicit passive joint list. A nil list is treated
// as an empty one.
func (cg *ConstraintGraph) CreateGraspWithPassive(ctx context.Context, name, gripper, handle string, passiveJoints []string) error {
	if passiveJoints == nil {
		passiveJoints = []string{}
	}
	return cg.CreateGrasp(ctx, name, gripper, handle, passiveJoints...)
}

// CreatePreGrasp creates a pre-grasp constraint.
func (cg *ConstraintGraph) CreatePreGrasp(ctx context.Context, name, gripper, handle string) error {
	return errors.Wrapf(cg.svc.Problem.CreatePreGrasp(ctx, name, gripper, handle), "creating pre-grasp %q", name)
}

// CreateLockedDof creates a locked degree of freedom constraint, optionally parametric.
func (cg *ConstraintGraph) CreateLockedDof(ctx context.Context, dof problem.LockedDof, parametric bool) error {
	if err := cg.svc.Problem.CreateLockedDofConstraint(ctx, dof); err != nil {
		return errors.Wrapf(err, "creating locked dof %q", dof.Name)
	}
	if !parametric {
		return nil
	}
	return errors.Wrapf(cg.svc.Problem.IsLockedDofParametric(ctx, dof.Name, true), "making locked dof %q parametric", dof.Name)
}

// SetNumericalConstraints adds numerical constraints to a node or edge.
func (cg *ConstraintGraph) SetNumericalConstraints(ctx context.Context, component string, names []string) error {
	id, err := cg.componentID(component)
	if err != nil {
		return err
	}
	return errors.Wrapf(cg.svc.Graph.SetNumericalConstraints(ctx, id, names), "constraining %q", component)
}

// SetNumericalConstraintsForPath adds numerical constraints to the paths inside a node.
func (cg *ConstraintGraph) SetNumericalConstraintsForPath(ctx context.Context, node string, names []string) error {
	id, ok := cg.Node(node)
	if !ok {
		return &UnknownNodeError{Name: node}
	}
	return errors.Wrapf(cg.svc.Graph.SetNumericalConstraintsForPath(ctx, id, names), "constraining paths of %q", node)
}

// SetLockedDofConstraints adds locked degree of freedom constraints to a node or edge.
func (cg *ConstraintGraph) SetLockedDofConstraints(ctx context.Context, component string, names []string) error {
	id, err := cg.componentID(component)
	if err != nil {
		return err
	}
	return errors.Wrapf(cg.svc.Graph.SetLockedDofConstraints(ctx, id, names), "locking dofs of %q", component)
}

// SetLevelSetConstraints sets the constraints defining the level set of a level set edge.
func (cg *ConstraintGraph) SetLevelSetConstraints(ctx context.Context, edge string, numerical, lockedDofs []string) error {
	id, err := cg.edgeID(edge)
	if err != nil {
		return err
	}
	return errors.Wrapf(cg.svc.Graph.SetLevelSetConstraints(ctx, id, numerical, lockedDofs),
		"setting level set of %q", edge)
}

// SetIsInNodeFrom changes the node an existing edge belongs to.
func (cg *ConstraintGraph) SetIsInNodeFrom(ctx context.Context, edge string, isInNodeFrom bool) error {
	id, err := cg.edgeID(edge)
	if err != nil {
		return err
	}
	return errors.Wrapf(cg.svc.Graph.IsInNodeFrom(ctx, id, isInNodeFrom), "setting node of %q", edge)
}

// GetWaypoint returns the first edge and node of a waypoint edge. The planner renames them to
// "<edge>_waypoint" and "<edge>_waypoint_node", and they are recorded under those names.
func (cg *ConstraintGraph) GetWaypoint(ctx context.Context, edge string) (graph.ID, graph.ID, error) {
	id, err := cg.edgeID(edge)
	if err != nil {
		return 0, 0, err
	}
	edgeID, nodeID, err := cg.svc.Graph.GetWaypoint(ctx, id)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "getting waypoint of %q", edge)
	}
	cg.record(cg.edges, graph.GraphComp{Name: edge + "_waypoint", ID: edgeID})
	cg.record(cg.nodes, graph.GraphComp{Name: edge + "_waypoint_node", ID: nodeID})
	return edgeID, nodeID, nil
}

// StatOnConstraint starts collecting statistics on an edge.
func (cg *ConstraintGraph) StatOnConstraint(ctx context.Context, edge string) error {
	id, err := cg.edgeID(edge)
	if err != nil {
		return err
	}
	return errors.Wrapf(cg.svc.Graph.StatOnConstraint(ctx, id), "collecting statistics on %q", edge)
}

// NodeOf returns the node a configuration belongs to. The name is empty when the planner answers
// with a node this proxy does not know.
func (cg *ConstraintGraph) NodeOf(ctx context.Context, config []float64) (string, graph.ID, error) {
	id, err := cg.svc.Graph.GetNode(ctx, config)
	if err != nil {
		return "", 0, err
	}
	cg.mu.RLock()
	defer cg.mu.RUnlock()
	for pair := cg.nodes.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == id {
			return pair.Key, id, nil
		}
	}
	return "", id, nil
}

func (cg *ConstraintGraph) ids(names []string, lookup func(string) (graph.ID, error)) ([]graph.ID, error) {
	if len(names) == 0 {
		return nil, errors.New("no graph component given")
	}
	ids := make([]graph.ID, 0, len(names))
	for _, name := range names {
		id, err := lookup(name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ApplyNodeConstraints projects config onto the constraints of the given nodes.
func (cg *ConstraintGraph) ApplyNodeConstraints(ctx context.Context, nodes []string, config []float64) (problem.Projection, error) {
	ids, err := cg.ids(nodes, func(name string) (graph.ID, error) {
		if id, ok := cg.Node(name); ok {
			return id, nil
		}
		return 0, &UnknownNodeError{Name: name}
	})
	if err != nil {
		return problem.Projection{}, err
	}
	return cg.svc.Problem.ApplyConstraints(ctx, ids, config)
}

// ApplyEdgeConstraints projects config onto the constraints of the given edges, with the right
// hand side taken from qnear.
func (cg *ConstraintGraph) ApplyEdgeConstraints(
	ctx context.Context,
	edges []string,
	qnear, config []float64,
) (problem.Projection, error) {
	ids, err := cg.ids(edges, cg.edgeID)
	if err != nil {
		return problem.Projection{}, err
	}
	return cg.svc.Problem.ApplyConstraintsWithOffset(ctx, ids, qnear, config)
}

// Display has the planner write the graph to dotPath, renders it to pdfPath, waiting for the
// renderer, then opens the result without waiting for the viewer. Empty paths fall back to the
// configured defaults. The viewer is not started if rendering fails.
func (cg *ConstraintGraph) Display(ctx context.Context, dotPath, pdfPath string) error {
	if dotPath == "" {
		dotPath = cg.dotPath
	}
	if pdfPath == "" {
		pdfPath = cg.pdfPath
	}
	if err := cg.svc.Graph.Display(ctx, dotPath); err != nil {
		return errors.Wrapf(err, "writing graph to %s", dotPath)
	}
	if err := cg.renderer.Render(ctx, dotPath, pdfPath); err != nil {
		return errors.Wrapf(err, "rendering %s", dotPath)
	}
	return errors.Wrapf(cg.viewer.View(ctx, pdfPath), "viewing %s", pdfPath)
}
