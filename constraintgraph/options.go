package constraintgraph

import (
	"go.hpp.dev/manipulation/render"
)

// An Option configures a ConstraintGraph.
type Option func(*ConstraintGraph)

// WithRenderer replaces the renderer used by Display.
func WithRenderer(r render.Renderer) Option {
	return func(cg *ConstraintGraph) {
		cg.renderer = r
	}
}

// WithViewer replaces the viewer used by Display.
func WithViewer(v render.Viewer) Option {
	return func(cg *ConstraintGraph) {
		cg.viewer = v
	}
}

// WithDisplayPaths changes the paths Display falls back to. Empty values keep the defaults.
func WithDisplayPaths(dotPath, pdfPath string) Option {
	return func(cg *ConstraintGraph) {
		if dotPath != "" {
			cg.dotPath = dotPath
		}
		if pdfPath != "" {
			cg.pdfPath = pdfPath
		}
	}
}

const defaultEdgeWeight = 1

type edgeOptions struct {
	weight       int64
	isInNodeFrom *bool
	waypoints    int64
}

func newEdgeOptions(opts []EdgeOption) edgeOptions {
	o := edgeOptions{weight: defaultEdgeWeight, waypoints: 1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// An EdgeOption configures an edge creation.
type EdgeOption func(*edgeOptions)

// WithWeight sets the priority of the edge among the outgoing edges of its source. Defaults to 1.
func WithWeight(weight int64) EdgeOption {
	return func(o *edgeOptions) {
		o.weight = weight
	}
}

// WithIsInNodeFrom sets which node the edge belongs to: the source when true, the target when
// false. Without it the edge is in the source node when the source identifier is greater than
// the target identifier, which only reflects creation order on servers that allocate
// identifiers incrementally.
func WithIsInNodeFrom(isInNodeFrom bool) EdgeOption {
	return func(o *edgeOptions) {
		o.isInNodeFrom = &isInNodeFrom
	}
}

// WithWaypoints sets the number of waypoints of a waypoint edge. Defaults to 1.
func WithWaypoints(n int64) EdgeOption {
	return func(o *edgeOptions) {
		o.waypoints = n
	}
}
