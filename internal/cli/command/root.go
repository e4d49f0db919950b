package command

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/NerdyDuck/NerdyDuck.Collections/internal/cli/output"
	"github.com/NerdyDuck/NerdyDuck.Collections/internal/infra/buildinfo"
	"github.com/NerdyDuck/NerdyDuck.Collections/internal/infra/confloader"
	"github.com/NerdyDuck/NerdyDuck.Collections/internal/stress"
	"github.com/NerdyDuck/NerdyDuck.Collections/internal/telemetry/logger"
)

// Exit codes.
const (
	ExitError     = 1
	ExitViolation = 2
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "collstress",
		Usage:   "Concurrent collection workload driver",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			RunCommand(),
			VerifyCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		// main decides the exit code; keep Run from calling os.Exit.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML configuration file",
			EnvVars: []string{"COLLSTRESS_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: json, text",
		},
	}
}

// AppConfig is the full configuration tree.
type AppConfig struct {
	Log     logger.Config `koanf:"log" json:"log" yaml:"log"`
	Metrics MetricsConfig `koanf:"metrics" json:"metrics" yaml:"metrics"`
	Stress  stress.Config `koanf:"stress" json:"stress" yaml:"stress"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Addr serves /metrics during a run when set, e.g. ":9464".
	Addr string `koanf:"addr" json:"addr" yaml:"addr"`
}

func defaults() map[string]any {
	d := stress.Defaults("stress")
	d["log.level"] = "info"
	d["log.format"] = "text"
	d["metrics.addr"] = ""
	return d
}

// flagKeys maps command-line flags to configuration keys. Only flags the
// user set are layered over file and environment values.
var flagKeys = map[string]string{
	"log-level":       "log.level",
	"log-format":      "log.format",
	"metrics-addr":    "metrics.addr",
	"variant":         "stress.variant",
	"shape":           "stress.shape",
	"untyped":         "stress.untyped",
	"workers":         "stress.workers",
	"ops":             "stress.ops",
	"key-space":       "stress.key_space",
	"seed":            "stress.seed",
	"read-ratio":      "stress.read_ratio",
	"enumerate-ratio": "stress.enumerate_ratio",
	"rate":            "stress.rate",
	"duration":        "stress.duration",
	"rand-seed":       "stress.rand_seed",
}

// env is the per-invocation state shared by the actions.
type env struct {
	cfg    *AppConfig
	loader *confloader.Loader
	log    logger.Logger
	format output.Format
	wide   bool
	out    io.Writer
}

// setup loads configuration from defaults, file, environment and flags,
// then builds the logger.
func setup(c *cli.Context) (*env, error) {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return nil, cli.Exit(err, ExitError)
	}

	loader := confloader.NewLoader(
		confloader.WithConfigFile(c.String("config")),
		confloader.WithDefaults(defaults()),
	)
	var cfg AppConfig
	if err := loader.Load(&cfg); err != nil {
		return nil, cli.Exit(fmt.Errorf("load config: %w", err), ExitError)
	}

	overrides := make(map[string]any)
	for name, key := range flagKeys {
		if c.IsSet(name) {
			overrides[key] = c.Value(name)
		}
	}
	if err := loader.Override(overrides, &cfg); err != nil {
		return nil, cli.Exit(fmt.Errorf("apply flags: %w", err), ExitError)
	}

	cfg.Log.Output = c.App.ErrWriter
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, cli.Exit(err, ExitError)
	}
	logger.SetDefault(log)

	return &env{
		cfg:    &cfg,
		loader: loader,
		log:    log,
		format: format,
		wide:   c.Bool("wide"),
		out:    c.App.Writer,
	}, nil
}

func (e *env) print(data any) error {
	return output.NewFormatter(e.format, e.wide).Format(e.out, data)
}
