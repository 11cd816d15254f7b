package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
)

// InventoryCommand returns the inventory subcommand group.
func InventoryCommand() *cli.Command {
	return &cli.Command{
		Name:    "inventory",
		Aliases: []string{"inv"},
		Usage:   "Manage outpost inventory",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List inventory records",
				Action: inventoryList,
			},
			{
				Name:      "get",
				Usage:     "Show one record",
				ArgsUsage: "CATEGORY NAME",
				Action:    inventoryGet,
			},
			{
				Name:   "create",
				Usage:  "Create a record",
				Flags:  recordFlags(true),
				Action: inventoryCreate,
			},
			{
				Name:      "update",
				Usage:     "Overwrite a record",
				ArgsUsage: "CATEGORY NAME",
				Flags:     recordFlags(false),
				Action:    inventoryUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a record",
				ArgsUsage: "CATEGORY NAME",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Skip confirmation",
					},
				},
				Action: inventoryDelete,
			},
		},
	}
}

func recordFlags(withIdentity bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.IntFlag{Name: "quantity", Aliases: []string{"q"}, Usage: "Stocked amount"},
		&cli.StringFlag{Name: "unit", Usage: "Quantity unit (e.g., kg, pieces)"},
		&cli.Float64Flag{Name: "value", Usage: "Monetary value per unit"},
		&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Free-text notes"},
	}
	if withIdentity {
		flags = append([]cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Item name", Required: true},
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Item category"},
		}, flags...)
	}
	return flags
}

// identityArgs reads CATEGORY NAME positional arguments.
func identityArgs(c *cli.Context) (category, name string, err error) {
	category = c.Args().Get(0)
	name = c.Args().Get(1)
	if category == "" || name == "" {
		return "", "", fmt.Errorf("CATEGORY and NAME arguments required")
	}
	return category, name, nil
}

func inventoryList(c *cli.Context) error {
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

	v, err := cache.GetOrFetch(ctx, cl.BaseURL()+"/inventory", 0, func(ctx context.Context) (any, error) {
		return cl.ListInventory(ctx, bearer)
	})
	if err != nil {
		return err
	}
	return render(c, flags, v.([]domain.InventoryRecord))
}

func inventoryGet(c *cli.Context) error {
	category, name, err := identityArgs(c)
	if err != nil {
		return err
	}

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

	record, err := cl.GetRecord(ctx, bearer, name, category)
	if err != nil {
		return err
	}
	return render(c, flags, record)
}

func inventoryCreate(c *cli.Context) error {
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

	record := &domain.InventoryRecord{
		Name:        c.String("name"),
		Category:    c.String("category"),
		Quantity:    c.Int("quantity"),
		Unit:        c.String("unit"),
		Value:       c.Float64("value"),
		Description: c.String("description"),
	}
	if err := record.Validate(); err != nil {
		return err
	}

	if err := cl.CreateRecord(ctx, bearer, record); err != nil {
		return err
	}
	cache.Invalidate(cl.BaseURL() + "/inventory")
	fmt.Fprintf(c.App.Writer, "Record %q created.\n", record.Key())
	return nil
}

func inventoryUpdate(c *cli.Context) error {
	category, name, err := identityArgs(c)
	if err != nil {
		return err
	}

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

	record := &domain.InventoryRecord{
		Name:        name,
		Category:    category,
		Quantity:    c.Int("quantity"),
		Unit:        c.String("unit"),
		Value:       c.Float64("value"),
		Description: c.String("description"),
	}
	if err := record.Validate(); err != nil {
		return err
	}

	if err := cl.UpdateRecord(ctx, bearer, record); err != nil {
		return err
	}
	cache.Invalidate(cl.BaseURL() + "/inventory")
	fmt.Fprintf(c.App.Writer, "Record %q updated.\n", record.Key())
	return nil
}

func inventoryDelete(c *cli.Context) error {
	category, name, err := identityArgs(c)
	if err != nil {
		return err
	}

	if !c.Bool("force") {
		fmt.Fprintf(c.App.Writer, "Delete record '%s/%s'? [y/N]: ", category, name)
		var confirm string
		fmt.Fscanln(c.App.Reader, &confirm)
		if confirm != "y" && confirm != "Y" {
			fmt.Fprintln(c.App.Writer, "Cancelled.")
			return nil
		}
	}

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

	if err := cl.DeleteRecord(ctx, bearer, name, category); err != nil {
		return err
	}
	cache.Invalidate(cl.BaseURL() + "/inventory")
	fmt.Fprintf(c.App.Writer, "Record '%s/%s' deleted.\n", category, name)
	return nil
}
