package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mshears713/HudsonBayOutposts/internal/cli/config"
)

// ConfigureCommand returns the configure command, which persists the
// current global flags as CLI defaults.
func ConfigureCommand() *cli.Command {
	return &cli.Command{
		Name:   "configure",
		Usage:  "Save the current --outpost, --username and --output as defaults",
		Action: configureAction,
	}
}

func configureAction(c *cli.Context) error {
	cfg := cliConfig(c)

	if v := c.String("outpost"); v != "" {
		cfg.Outpost = v
	}
	if v := c.String("username"); v != "" {
		cfg.Username = v
	}
	if v := c.String("output"); v != "" {
		cfg.Output = v
	}

	path := c.String("config")
	if err := config.Save(cfg, path); err != nil {
		return err
	}

	if path == "" {
		path = config.DefaultConfigPath()
	}
	fmt.Fprintf(c.App.Writer, "Defaults saved to %s\n", path)
	return nil
}
