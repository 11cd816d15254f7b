package command

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
)

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show outpost status",
		Action: statusAction,
	}
}

func statusAction(c *cli.Context) error {
	flags := ParseGlobalFlags(c)
	cl, cache := newClient(flags)

	ctx, cancel := requestContext(flags)
	defer cancel()

	v, err := cache.GetOrFetch(ctx, cl.BaseURL()+"/status", 0, func(ctx context.Context) (any, error) {
		return cl.Status(ctx)
	})
	if err != nil {
		return err
	}
	return render(c, flags, v.(*domain.NodeStatus))
}
