// SPDX-License-Identifier: MIT

// Package config loads drainvuln settings from .drainvuln.yaml, DRAINVULN_*
// environment variables and command-line flags through viper.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/katalvlaran/drainvuln/analysis"
	"github.com/katalvlaran/drainvuln/centrality"
	"github.com/katalvlaran/drainvuln/network"
	"github.com/katalvlaran/drainvuln/report"
	"github.com/katalvlaran/drainvuln/spectral"
	"github.com/katalvlaran/drainvuln/storage"
)

// EnvPrefix prefixes every environment override, e.g. DRAINVULN_REPORT_TOP.
const EnvPrefix = "DRAINVULN"

// ErrInvalid is returned when a loaded configuration fails validation.
var ErrInvalid = errors.New("config: invalid configuration")

// InputConfig names where the network is read from. SQLite wins when set.
type InputConfig struct {
	Nodes  string `mapstructure:"nodes" validate:"required_without=SQLite"`
	Edges  string `mapstructure:"edges" validate:"required_without=SQLite"`
	SQLite string `mapstructure:"sqlite"`
}

// OutputConfig names optional result sinks; empty disables a sink.
type OutputConfig struct {
	CSV    string `mapstructure:"csv"`
	JSON   string `mapstructure:"json"`
	SQLite string `mapstructure:"sqlite"`
}

type GraphConfig struct {
	SelfLoops string `mapstructure:"self_loops" validate:"oneof=drop keep"`
}

type SpectralConfig struct {
	Solver string `mapstructure:"solver" validate:"oneof=jacobi lapack"`
}

type CentralityConfig struct {
	MaxIterations int     `mapstructure:"max_iterations" validate:"gte=1"`
	Tolerance     float64 `mapstructure:"tolerance" validate:"gt=0"`
	Seed          int64   `mapstructure:"seed"`
}

type ReportConfig struct {
	Top int `mapstructure:"top" validate:"gte=0"`
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" validate:"gte=0"`
}

// Config holds all runtime configuration for one drainvuln invocation.
type Config struct {
	Input      InputConfig      `mapstructure:"input"`
	Output     OutputConfig     `mapstructure:"output"`
	Graph      GraphConfig      `mapstructure:"graph"`
	Spectral   SpectralConfig   `mapstructure:"spectral"`
	Centrality CentralityConfig `mapstructure:"centrality"`
	Report     ReportConfig     `mapstructure:"report"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Log        LogConfig        `mapstructure:"log"`
	Watch      WatchConfig      `mapstructure:"watch"`
}

// validate reports fields by their mapstructure key.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	return v
}()

// SetDefaults registers the built-in default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input.nodes", "data/nodes.csv")
	v.SetDefault("input.edges", "data/edges.csv")
	v.SetDefault("input.sqlite", "")
	v.SetDefault("output.csv", "hasil/results.csv")
	v.SetDefault("output.json", "")
	v.SetDefault("output.sqlite", "")
	v.SetDefault("graph.self_loops", network.SelfLoopDrop.String())
	v.SetDefault("spectral.solver", spectral.SolverJacobi)
	v.SetDefault("centrality.max_iterations", centrality.DefaultMaxIterations)
	v.SetDefault("centrality.tolerance", centrality.DefaultTolerance)
	v.SetDefault("centrality.seed", 0)
	v.SetDefault("report.top", report.DefaultTop)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("watch.debounce", storage.DefaultDebounce)
}

// Load reads the global viper instance, applying defaults for any value not
// set by config file, environment or flags, and validates the result.
func Load() (Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom is Load for an explicit viper instance.
func LoadFrom(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.Graph.SelfLoops = strings.ToLower(strings.TrimSpace(cfg.Graph.SelfLoops))
	cfg.Spectral.Solver = strings.ToLower(strings.TrimSpace(cfg.Spectral.Solver))
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, formatValidationError(err))
	}

	return cfg, nil
}

// AnalysisOptions translates the graph, spectral and centrality sections
// into analysis options.
func (c Config) AnalysisOptions() ([]analysis.Option, error) {
	policy, err := network.ParseSelfLoopPolicy(c.Graph.SelfLoops)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	solver, err := spectral.ParseSolver(c.Spectral.Solver)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return []analysis.Option{
		analysis.WithSelfLoops(policy),
		analysis.WithSolver(solver),
		analysis.WithSeed(c.Centrality.Seed),
		analysis.WithCentrality(
			centrality.WithMaxIterations(c.Centrality.MaxIterations),
			centrality.WithTolerance(c.Centrality.Tolerance),
		),
	}, nil
}

// formatValidationError names the first failing key by its config path.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	e := verrs[0]
	key := strings.TrimPrefix(e.Namespace(), "Config.")
	switch e.Tag() {
	case "required_without":
		return fmt.Errorf("%s: required unless input.sqlite is set", key)
	case "oneof":
		return fmt.Errorf("%s: must be one of [%s], got %q", key, e.Param(), e.Value())
	case "gt":
		return fmt.Errorf("%s: must be greater than %s", key, e.Param())
	case "gte":
		return fmt.Errorf("%s: must be at least %s", key, e.Param())
	default:
		return fmt.Errorf("%s: validation failed (%s)", key, e.Tag())
	}
}
