package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mshears713/HudsonBayOutposts/internal/client"
	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
)

// SyncCommand returns the sync subcommand group.
func SyncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Synchronize inventory between outposts",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Export from the source outpost and import into the target",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "source",
						Usage:    "Source outpost address",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "target",
						Usage:    "Target outpost address",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "strategy",
						Usage: "Merge strategy: add, merge, replace",
						Value: string(domain.StrategyAdd),
					},
				},
				Action: syncRun,
			},
			{
				Name:   "export",
				Usage:  "Show the sync payload the outpost would export",
				Action: syncExport,
			},
		},
	}
}

func syncRun(c *cli.Context) error {
	flags := ParseGlobalFlags(c)

	strategy, err := domain.ParseMergeStrategy(c.String("strategy"))
	if err != nil {
		return err
	}

	sourceFlags := *flags
	sourceFlags.Outpost = c.String("source")
	targetFlags := *flags
	targetFlags.Outpost = c.String("target")

	source, sourceCache := newClient(&sourceFlags)
	target, targetCache := newClient(&targetFlags)

	ctx, cancel := requestContext(flags)
	defer cancel()

	sourceSession, err := establishSession(ctx, &sourceFlags, source, sourceCache)
	if err != nil {
		return err
	}
	targetSession, err := establishSession(ctx, &targetFlags, target, targetCache)
	if err != nil {
		return err
	}

	runner := client.NewSyncRunner(source, sourceSession, target, targetSession, targetCache, nil)
	resp, err := runner.Run(ctx, strategy)
	if err != nil {
		return fmt.Errorf("sync %s: %w", runner.State(), err)
	}

	return render(c, flags, resp)
}

func syncExport(c *cli.Context) error {
	flags := ParseGlobalFlags(c)
	cl, cache := newClient(flags)

	ctx, cancel := requestContext(flags)
	defer cancel()

	sm, err := establishSession(ctx, flags, cl, cache)
	if err != nil {
		return err
	}
	bearer, err := sm.Bearer()
	if err != nil {
		return err
	}

	payload, err := cl.ExportInventory(ctx, bearer)
	if err != nil {
		return err
	}
	return render(c, flags, payload)
}
