package graph

type nameRequest struct {
	Name string `json:"name"`
}

type idResponse struct {
	ID ID `json:"id"`
}

type createNodeRequest struct {
	SubGraph ID     `json:"subgraph"`
	Name     string `json:"name"`
}

type edgeRequest struct {
	From         ID     `json:"from"`
	To           ID     `json:"to"`
	Name         string `json:"name"`
	Weight       int64  `json:"weight"`
	IsInNodeFrom bool   `json:"is_in_node_from"`
	Waypoints    int64  `json:"waypoints,omitempty"`
}

func (req edgeRequest) spec() EdgeSpec {
	return EdgeSpec{From: req.From, To: req.To, Name: req.Name, Weight: req.Weight, IsInNodeFrom: req.IsInNodeFrom}
}

func newEdgeRequest(spec EdgeSpec) edgeRequest {
	return edgeRequest{From: spec.From, To: spec.To, Name: spec.Name, Weight: spec.Weight, IsInNodeFrom: spec.IsInNodeFrom}
}

type idRequest struct {
	ID ID `json:"id"`
}

type waypointResponse struct {
	Edge ID `json:"edge"`
	Node ID `json:"node"`
}

type levelSetRequest struct {
	Edge       ID       `json:"edge"`
	Numerical  []string `json:"numerical"`
	LockedDofs []string `json:"locked_dofs"`
}

type isInNodeFromRequest struct {
	Edge         ID   `json:"edge"`
	IsInNodeFrom bool `json:"is_in_node_from"`
}

type constraintsRequest struct {
	Component ID       `json:"component"`
	Names     []string `json:"names"`
}

type configRequest struct {
	Config []float64 `json:"config"`
}

type filenameRequest struct {
	Filename string `json:"filename"`
}
