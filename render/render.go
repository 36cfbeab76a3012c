// Package render turns the dot description of a constraint graph into a document and opens it
// in a viewer.
package render

import (
	"context"

	"github.com/pkg/errors"

	"go.hpp.dev/manipulation/logging"
	"go.hpp.dev/manipulation/rexec"
)

// Defaults used when a path or command is not configured.
const (
	DefaultDotPath = "/tmp/constraintgraph.dot"
	DefaultPdfPath = "/tmp/constraintgraph.pdf"
	// DefaultSvgPath replaces DefaultPdfPath with the graphviz engine, which cannot write pdf.
	DefaultSvgPath = "/tmp/constraintgraph.svg"

	EngineExec     = "exec"
	EngineGraphviz = "graphviz"
)

// DefaultDotCmd renders dot files to pdf.
func DefaultDotCmd() []string {
	return []string{"dot", "-Tpdf"}
}

// DefaultViewCmd opens pdf files.
func DefaultViewCmd() []string {
	return []string{"evince"}
}

// Config selects how graphs are rendered and viewed.
type Config struct {
	DotCmd  []string `json:"dot_cmd,omitempty"`
	ViewCmd []string `json:"view_cmd,omitempty"`
	DotPath string   `json:"dot_path,omitempty"`
	// PdfPath is where Display writes the rendered graph. With the graphviz engine its extension
	// must be one FormatFor accepts.
	PdfPath string `json:"pdf_path,omitempty"`
	// Engine is EngineExec (the default) or EngineGraphviz.
	Engine string `json:"engine,omitempty"`
}

// DefaultConfig returns the configuration with every default filled in.
func DefaultConfig() Config {
	return Config{
		DotCmd:  DefaultDotCmd(),
		ViewCmd: DefaultViewCmd(),
		DotPath: DefaultDotPath,
		PdfPath: DefaultPdfPath,
		Engine:  EngineExec,
	}
}

// WithDefaults returns a copy of cfg where unset fields take their default.
func (cfg Config) WithDefaults() Config {
	def := DefaultConfig()
	if len(cfg.DotCmd) == 0 {
		cfg.DotCmd = def.DotCmd
	}
	if len(cfg.ViewCmd) == 0 {
		cfg.ViewCmd = def.ViewCmd
	}
	if cfg.DotPath == "" {
		cfg.DotPath = def.DotPath
	}
	if cfg.Engine == "" {
		cfg.Engine = def.Engine
	}
	if cfg.PdfPath == "" {
		cfg.PdfPath = def.PdfPath
		if cfg.Engine == EngineGraphviz {
			cfg.PdfPath = DefaultSvgPath
		}
	}
	return cfg
}

// Validate ensures all parts of the config are valid.
func (cfg Config) Validate(path string) error {
	switch cfg.Engine {
	case "", EngineExec, EngineGraphviz:
	default:
		return errors.Errorf("%s.engine: unknown render engine %q", path, cfg.Engine)
	}
	if cfg.Engine == EngineGraphviz && cfg.PdfPath != "" {
		if _, err := FormatFor(cfg.PdfPath); err != nil {
			return errors.Wrapf(err, "%s.pdf_path", path)
		}
	}
	for field, cmd := range map[string][]string{"dot_cmd": cfg.DotCmd, "view_cmd": cfg.ViewCmd} {
		if len(cmd) > 0 && cmd[0] == "" {
			return errors.Errorf("%s.%s: command name is empty", path, field)
		}
	}
	return nil
}

// A Renderer renders the dot file at dotPath into outPath.
type Renderer interface {
	Render(ctx context.Context, dotPath, outPath string) error
}

// A Viewer opens a rendered document.
type Viewer interface {
	View(ctx context.Context, path string) error
}

// ExecRenderer renders by running an external command. The output and input paths are appended
// to the command as "-o<out>" and "<dot>".
type ExecRenderer struct {
	Cmd    []string
	Runner rexec.Runner
}

// Render implements Renderer and waits for the command to exit.
func (r *ExecRenderer) Render(ctx context.Context, dotPath, outPath string) error {
	if len(r.Cmd) == 0 {
		return errors.New("no render command configured")
	}
	args := append(append([]string{}, r.Cmd[1:]...), "-o"+outPath, dotPath)
	return r.Runner.Run(ctx, rexec.ProcessConfig{Name: r.Cmd[0], Args: args, OneShot: true})
}

// ExecViewer opens documents by starting an external command with the path appended.
type ExecViewer struct {
	Cmd    []string
	Runner rexec.Runner
}

// View implements Viewer. The viewer is started and not waited on.
func (v *ExecViewer) View(ctx context.Context, path string) error {
	if len(v.Cmd) == 0 {
		return errors.New("no view command configured")
	}
	args := append(append([]string{}, v.Cmd[1:]...), path)
	return v.Runner.Run(ctx, rexec.ProcessConfig{Name: v.Cmd[0], Args: args})
}

// New builds the renderer and viewer described by cfg.
func New(cfg Config, runner rexec.Runner, logger logging.Logger) (Renderer, Viewer, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate("render"); err != nil {
		return nil, nil, err
	}
	if runner == nil {
		runner = rexec.NewManagedRunner(logger.Sublogger("process"))
	}
	viewer := &ExecViewer{Cmd: cfg.ViewCmd, Runner: runner}
	if cfg.Engine == EngineGraphviz {
		return &GraphvizRenderer{Logger: logger}, viewer, nil
	}
	return &ExecRenderer{Cmd: cfg.DotCmd, Runner: runner}, viewer, nil
}
