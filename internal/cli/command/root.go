// Package command provides the CLI command definitions for outpost-cli.
//
// It uses urfave/cli/v2 for command parsing. Every command is
// single-shot: it authenticates, performs one operation against an
// outpost and renders the result.
package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mshears713/HudsonBayOutposts/internal/cli/config"
	"github.com/mshears713/HudsonBayOutposts/internal/cli/output"
	"github.com/mshears713/HudsonBayOutposts/internal/client"
	"github.com/mshears713/HudsonBayOutposts/internal/telemetry/logger"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "outpost-cli",
		Usage:   "Hudson Bay outpost management tool",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			StatusCommand(),
			InventoryCommand(),
			SyncCommand(),
			ConfigureCommand(),
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			c.App.Metadata["cliConfig"] = cfg
			return nil
		},
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "outpost",
			Aliases: []string{"s"},
			Usage:   "Outpost address (e.g., localhost:8001)",
			EnvVars: []string{"HBC_OUTPOST"},
		},
		&cli.StringFlag{
			Name:    "username",
			Aliases: []string{"u"},
			Usage:   "Login name",
			EnvVars: []string{"HBC_USERNAME"},
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "Login password",
			EnvVars: []string{"HBC_PASSWORD"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Overall timeout for the operation",
			Value: 30 * time.Second,
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to the CLI config file",
		},
	}
}

// GlobalFlags holds the resolved global flags. Explicit flags and
// environment variables override the persisted CLI config.
type GlobalFlags struct {
	Outpost  string
	Username string
	Password string
	Output   string
	Timeout  time.Duration
}

// ParseGlobalFlags resolves global flags against the CLI config.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	cfg := cliConfig(c)

	flags := &GlobalFlags{
		Outpost:  c.String("outpost"),
		Username: c.String("username"),
		Password: c.String("password"),
		Output:   c.String("output"),
		Timeout:  c.Duration("timeout"),
	}

	if flags.Outpost == "" {
		flags.Outpost = cfg.Outpost
	}
	if flags.Username == "" {
		flags.Username = cfg.Username
	}
	if flags.Output == "" {
		flags.Output = cfg.Output
	}
	if flags.Output == "" {
		flags.Output = string(output.FormatTable)
	}
	return flags
}

// cliConfig retrieves the loaded CLI config from app metadata.
func cliConfig(c *cli.Context) *config.CLIConfig {
	if cfg, ok := c.App.Metadata["cliConfig"].(*config.CLIConfig); ok {
		return cfg
	}
	return config.Default()
}

// newClient creates an outpost client and its response cache for the
// resolved flags. Reads within one invocation are served through the
// cache; login, logout and mutations invalidate it.
func newClient(flags *GlobalFlags) (*client.Client, *client.ResponseCache) {
	log, _ := logger.New(logger.Config{Level: "error", Format: "text"})
	cl := client.New(client.Config{
		BaseURL: flags.Outpost,
		Timeout: flags.Timeout,
		Policy:  client.DefaultPolicy(),
		Logger:  log,
	})
	cache := client.NewResponseCache(client.DefaultCacheTTL, client.DefaultCacheCapacity, nil)
	return cl, cache
}

// requestContext returns a context bounded by the timeout flag.
func requestContext(flags *GlobalFlags) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), flags.Timeout)
}

// establishSession logs into the outpost with the flag credentials.
func establishSession(ctx context.Context, flags *GlobalFlags, cl *client.Client, cache *client.ResponseCache) (*client.SessionManager, error) {
	if flags.Username == "" || flags.Password == "" {
		return nil, fmt.Errorf("credentials required: set --username and --password (or HBC_USERNAME/HBC_PASSWORD)")
	}

	sm := client.NewSessionManager(cl, cache, nil)
	if err := sm.Login(ctx, flags.Username, flags.Password); err != nil {
		return nil, fmt.Errorf("login to %s failed: %w", cl.BaseURL(), err)
	}
	return sm, nil
}

// render writes data in the selected output format.
func render(c *cli.Context, flags *GlobalFlags, data any) error {
	return output.NewFormatter(output.Format(flags.Output)).Format(c.App.Writer, data)
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
