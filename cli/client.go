package cli

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.hpp.dev/manipulation/client"
	"go.hpp.dev/manipulation/config"
	rpc "go.hpp.dev/manipulation/grpc"
	"go.hpp.dev/manipulation/logging"
)

// hppClient wraps a cli.Context and everything a command needs to talk to the planner.
type hppClient struct {
	c       *cli.Context
	conf    *config.Config
	logger  logging.Logger
	metrics *prometheus.Registry
	conn    *client.Client
}

func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String(configFlag)
	if path == "" {
		return config.Default(), nil
	}
	return config.Read(path)
}

func newHPPClient(c *cli.Context) (*hppClient, error) {
	conf, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	logger := conf.Log.NewLogger("hppmanip", c.Bool(debugFlag))
	return &hppClient{
		c:       c,
		conf:    conf,
		logger:  logger,
		metrics: prometheus.NewRegistry(),
	}, nil
}

// callContext returns the command context, marked for debug logging of remote calls when requested.
func (h *hppClient) callContext() context.Context {
	ctx := h.c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if h.c.Bool(debugFlag) {
		ctx = logging.EnableDebugMode(ctx, "")
	}
	return ctx
}

func (h *hppClient) connect(ctx context.Context) error {
	metrics, err := rpc.NewClientMetrics(h.metrics)
	if err != nil {
		return err
	}
	cfg, err := h.conf.ClientConfig(metrics)
	if err != nil {
		return err
	}
	if h.conf.Dial.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.conf.Dial.Timeout)
		defer cancel()
	}
	conn, err := client.Connect(ctx, cfg, h.logger.Sublogger("client"))
	if err != nil {
		return err
	}
	h.conn = conn
	return nil
}

// close releases the connections and reports how many remote calls were made.
func (h *hppClient) close() error {
	var err error
	if h.conn != nil {
		err = h.conn.Close()
	}
	families, gatherErr := h.metrics.Gather()
	for _, family := range families {
		for _, m := range family.GetMetric() {
			labels := make([]interface{}, 0, 2*len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName(), l.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				h.logger.Debugw(family.GetName(), append(labels, "value", m.GetCounter().GetValue())...)
			case m.GetHistogram() != nil:
				h.logger.Debugw(family.GetName(),
					append(labels, "count", m.GetHistogram().GetSampleCount(), "sum", m.GetHistogram().GetSampleSum())...)
			}
		}
	}
	return multierr.Combine(err, gatherErr)
}

// CheckAction is the corresponding Action for 'check'.
func CheckAction(c *cli.Context) (err error) {
	h, err := newHPPClient(c)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, h.close())
	}()
	if err := h.connect(h.callContext()); err != nil {
		return err
	}
	manip := h.conn.ManipulationRef()
	basic := h.conn.BasicRef()
	ok := color.New(color.FgGreen, color.Bold).SprintFunc()
	printf(c.App.Writer, "%s: %s (%s)", ok("manipulation"), manip.Address, manip.TypeID)
	printf(c.App.Writer, "%s: %s (%s)", ok("basic"), basic.Address, basic.TypeID)
	return nil
}

// VersionAction is the corresponding Action for 'version'.
func VersionAction(c *cli.Context) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return errors.New("error reading build info")
	}
	if c.Bool(debugFlag) {
		printf(c.App.Writer, "%s", info.String())
	}
	settings := make(map[string]string, len(info.Settings))
	for _, setting := range info.Settings {
		settings[setting.Key] = setting.Value
	}
	version := "?"
	if rev, ok := settings["vcs.revision"]; ok && len(rev) >= 8 {
		version = rev[:8]
		if settings["vcs.modified"] == "true" {
			version += "+"
		}
	}
	printf(c.App.Writer, "Version %s Git=%s", info.Main.Version, version)
	return nil
}
