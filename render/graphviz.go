package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.hpp.dev/manipulation/logging"
)

// GraphvizRenderer renders in process with the graphviz library. The output format is chosen
// from the extension of the output path; pdf is not supported.
type GraphvizRenderer struct {
	Logger logging.Logger
}

// FormatFor returns the graphviz format for an output path.
func FormatFor(outPath string) (graphviz.Format, error) {
	switch ext := strings.ToLower(filepath.Ext(outPath)); ext {
	case ".svg":
		return graphviz.SVG, nil
	case ".png":
		return graphviz.PNG, nil
	case ".jpg", ".jpeg":
		return graphviz.JPG, nil
	case ".dot", ".gv":
		return graphviz.XDOT, nil
	default:
		return "", errors.Errorf("graphviz engine cannot render %q files", ext)
	}
}

// Render implements Renderer.
func (r *GraphvizRenderer) Render(ctx context.Context, dotPath, outPath string) (err error) {
	format, err := FormatFor(outPath)
	if err != nil {
		return err
	}
	//nolint:gosec
	data, err := os.ReadFile(dotPath)
	if err != nil {
		return errors.Wrap(err, "reading dot file")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	graph, err := graphviz.ParseBytes(data)
	if err != nil {
		return errors.Wrapf(err, "parsing %s", dotPath)
	}
	g := graphviz.New()
	defer func() {
		err = multierr.Combine(err, graph.Close(), g.Close())
	}()
	if r.Logger != nil {
		r.Logger.CDebugw(ctx, "rendering graph", "dot", dotPath, "out", outPath, "format", format)
	}
	return errors.Wrapf(g.RenderFilename(graph, format, outPath), "rendering %s", outPath)
}
