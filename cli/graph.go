package cli

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.hpp.dev/manipulation/constraintgraph"
	"go.hpp.dev/manipulation/render"
)

// BuildGraphAction is the corresponding Action for 'graph build'.
func BuildGraphAction(c *cli.Context) (err error) {
	def, err := constraintgraph.LoadDefinition(c.Path(definitionFlag))
	if err != nil {
		return err
	}
	h, err := newHPPClient(c)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, h.close())
	}()
	ctx := h.callContext()
	if err := h.connect(ctx); err != nil {
		return err
	}

	renderCfg := h.conf.Render.WithDefaults()
	renderer, viewer, err := render.New(renderCfg, nil, h.logger.Sublogger("render"))
	if err != nil {
		return err
	}
	name := def.Name
	if name == "" {
		name = h.conf.GraphName
	}
	cg, err := constraintgraph.New(ctx, constraintgraph.Services{
		Graph:   h.conn.Graph(),
		Problem: h.conn.Problem(),
		Basic:   h.conn.Basic(),
	}, name, h.logger.Sublogger("graph"),
		constraintgraph.WithRenderer(renderer),
		constraintgraph.WithViewer(viewer),
		constraintgraph.WithDisplayPaths(renderCfg.DotPath, renderCfg.PdfPath),
	)
	if err != nil {
		return err
	}
	if err := cg.Apply(ctx, def); err != nil {
		return errors.Wrapf(err, "building graph %q", name)
	}

	printf(c.App.Writer, "graph %s (id %s, subgraph %s)", cg.Name(), cg.GraphID(), cg.SubGraphID())
	for _, n := range cg.Nodes() {
		printf(c.App.Writer, "\tnode %s %s", n.ID, n.Name)
	}
	for _, e := range cg.Edges() {
		printf(c.App.Writer, "\tedge %s %s", e.ID, e.Name)
	}

	if !c.Bool(displayFlag) {
		return nil
	}
	return cg.Display(ctx, c.Path(dotFlag), c.Path(pdfFlag))
}

// RenderGraphAction is the corresponding Action for 'graph render'.
func RenderGraphAction(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return errors.New("expected a dot file and an output file")
	}
	conf, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := conf.Log.NewLogger("hppmanip", c.Bool(debugFlag))
	renderer, viewer, err := render.New(conf.Render, nil, logger.Sublogger("render"))
	if err != nil {
		return err
	}
	dotPath, outPath := c.Args().Get(0), c.Args().Get(1)
	if err := renderer.Render(c.Context, dotPath, outPath); err != nil {
		return err
	}
	printf(c.App.Writer, "rendered %s", outPath)
	if !c.Bool(viewFlag) {
		return nil
	}
	return viewer.View(c.Context, outPath)
}
