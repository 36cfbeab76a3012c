// Package config defines the structures to configure a manipulation client and its helpers.
package config

import (
	"crypto/tls"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/utils"
	"google.golang.org/grpc/credentials"

	"go.hpp.dev/manipulation/client"
	rpc "go.hpp.dev/manipulation/grpc"
	"go.hpp.dev/manipulation/naming"
	"go.hpp.dev/manipulation/render"
)

// DefaultGraphName names the graph built by the command line when none is configured.
const DefaultGraphName = "graph"

// Config describes how to reach the planner, how to display graphs and how to log.
type Config struct {
	NameService NameServiceConfig `json:"name_service"`
	Basic       BasicConfig       `json:"basic"`
	GraphName   string            `json:"graph_name"`
	Dial        DialConfig        `json:"dial"`
	Render      render.Config     `json:"render"`
	Log         LogConfig         `json:"log"`
	// Directory, when set, replaces the remote naming directory with fixed bindings keyed by
	// the string form of their names.
	Directory map[string]naming.ObjectRef `json:"directory,omitempty"`

	// ConfigFilePath is the path the config was read from.
	ConfigFilePath string `json:"-"`
}

// NameServiceConfig locates the naming directory and the manipulation service in it.
type NameServiceConfig struct {
	Address string `json:"address"`
	// Name defaults to hpp.plannerContext/hpp.manipulation.
	Name string `json:"name,omitempty"`
}

// BasicConfig locates the basic problem service in the naming directory.
type BasicConfig struct {
	// Name defaults to hpp.plannerContext/hpp.basic.
	Name string `json:"name,omitempty"`
}

// DialConfig controls connections to the directory and the services.
type DialConfig struct {
	Timeout       time.Duration `json:"timeout,omitempty"`
	MethodTimeout time.Duration `json:"method_timeout,omitempty"`
	Insecure      bool          `json:"insecure"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		NameService: NameServiceConfig{Name: naming.ManipulationName.String()},
		Basic:       BasicConfig{Name: naming.BasicName.String()},
		GraphName:   DefaultGraphName,
		Dial: DialConfig{
			Timeout:       rpc.DefaultDialTimeout,
			MethodTimeout: rpc.DefaultMethodTimeout,
			Insecure:      true,
		},
		Render: render.DefaultConfig(),
		Log:    LogConfig{Level: "info"},
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate() error {
	if cfg.NameService.Address == "" && len(cfg.Directory) == 0 {
		return utils.NewConfigValidationFieldRequiredError("name_service", "address")
	}
	for path, s := range map[string]string{"name_service.name": cfg.NameService.Name, "basic.name": cfg.Basic.Name} {
		if s == "" {
			continue
		}
		if _, err := naming.ParseName(s); err != nil {
			return utils.NewConfigValidationError(path, err)
		}
	}
	for s, ref := range cfg.Directory {
		if _, err := naming.ParseName(s); err != nil {
			return utils.NewConfigValidationError("directory", err)
		}
		if err := ref.Validate(); err != nil {
			return utils.NewConfigValidationError("directory."+s, err)
		}
	}
	if cfg.GraphName == "" {
		return utils.NewConfigValidationFieldRequiredError("", "graph_name")
	}
	if err := cfg.Dial.Validate("dial"); err != nil {
		return err
	}
	if err := cfg.Render.Validate("render"); err != nil {
		return err
	}
	return cfg.Log.Validate("log")
}

// Validate ensures all parts of the config are valid.
func (cfg DialConfig) Validate(path string) error {
	if cfg.Timeout < 0 {
		return utils.NewConfigValidationError(path, errors.New("timeout cannot be negative"))
	}
	if cfg.MethodTimeout < 0 {
		return utils.NewConfigValidationError(path, errors.New("method_timeout cannot be negative"))
	}
	return nil
}

// ClientConfig converts the config into what client.Connect expects. metrics may be nil.
func (cfg *Config) ClientConfig(metrics *rpc.ClientMetrics) (client.Config, error) {
	out := client.Config{
		NameServiceAddress: cfg.NameService.Address,
		Dial: rpc.DialConfig{
			MethodTimeout: cfg.Dial.MethodTimeout,
			Metrics:       metrics,
		},
	}
	if !cfg.Dial.Insecure {
		out.Dial.Credentials = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}
	var err error
	if cfg.NameService.Name != "" {
		if out.ManipulationName, err = naming.ParseName(cfg.NameService.Name); err != nil {
			return client.Config{}, err
		}
	}
	if cfg.Basic.Name != "" {
		if out.BasicName, err = naming.ParseName(cfg.Basic.Name); err != nil {
			return client.Config{}, err
		}
	}
	if len(cfg.Directory) > 0 {
		dir, err := naming.NewStaticDirectory(cfg.Directory)
		if err != nil {
			return client.Config{}, err
		}
		out.Directory = dir
	}
	return out, nil
}
