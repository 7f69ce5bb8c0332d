package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/mintvault-go/internal/cli/connection"
)

// AdminCommand returns the admin subcommand group.
func AdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Administrative operations",
		Subcommands: []*cli.Command{
			{
				Name:   "pause",
				Usage:  "Pause minting, transfers and burns",
				Action: adminPause,
			},
			{
				Name:   "unpause",
				Usage:  "Resume normal operation",
				Action: adminUnpause,
			},
			{
				Name:      "set-base-uri",
				Usage:     "Replace the collection's metadata base URI",
				ArgsUsage: "BASE_URI",
				Action:    adminSetBaseURI,
			},
			{
				Name:   "status",
				Usage:  "Show server status summary",
				Action: adminStatus,
			},
			{
				Name:   "gc",
				Usage:  "Trigger storage garbage collection",
				Action: adminGC,
			},
			{
				Name:   "snapshot",
				Usage:  "Create a state snapshot",
				Action: adminSnapshot,
			},
		},
	}
}

func adminPause(c *cli.Context) error {
	if err := requireCaller(c); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	var resp struct {
		Paused bool `json:"paused"`
	}
	if err := newClient(c).Post(ctx, "/admin/v1/pause", nil, &resp); err != nil {
		return fmt.Errorf("pause: %w", err)
	}

	return printResult(c, &resp)
}

func adminUnpause(c *cli.Context) error {
	if err := requireCaller(c); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	var resp struct {
		Paused bool `json:"paused"`
	}
	if err := newClient(c).Post(ctx, "/admin/v1/unpause", nil, &resp); err != nil {
		return fmt.Errorf("unpause: %w", err)
	}

	return printResult(c, &resp)
}

func adminSetBaseURI(c *cli.Context) error {
	if err := requireCaller(c); err != nil {
		return err
	}
	baseURI := c.Args().First()
	if baseURI == "" && c.NArg() == 0 {
		return fmt.Errorf("BASE_URI argument is required (pass \"\" to clear)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	body := map[string]string{"base_uri": baseURI}
	var resp struct {
		BaseURI string `json:"base_uri"`
	}
	if err := newClient(c).Post(ctx, "/admin/v1/base-uri", body, &resp); err != nil {
		return fmt.Errorf("set base uri: %w", err)
	}

	return printResult(c, &resp)
}

func adminStatus(c *cli.Context) error {
	if err := requireCaller(c); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	var resp map[string]any
	if err := newClient(c).Get(ctx, "/admin/v1/status/summary", &resp); err != nil {
		return fmt.Errorf("fetch status: %w", err)
	}

	return printResult(c, resp)
}

func adminGC(c *cli.Context) error {
	if err := requireCaller(c); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	var resp struct {
		Success        bool   `json:"success"`
		ReclaimedBytes uint64 `json:"reclaimed_bytes"`
		TriggeredAt    string `json:"triggered_at"`
	}
	if err := newClient(c).Post(ctx, "/admin/v1/gc/trigger", nil, &resp); err != nil {
		return fmt.Errorf("trigger gc: %w", err)
	}

	return printResult(c, &resp)
}

func adminSnapshot(c *cli.Context) error {
	if err := requireCaller(c); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	var resp struct {
		ID         string `json:"id"`
		TokenCount uint64 `json:"token_count"`
		Minted     uint64 `json:"minted"`
		Size       int64  `json:"size"`
		Sealed     bool   `json:"sealed"`
	}
	if err := newClient(c).Post(ctx, "/admin/v1/snapshots", nil, &resp); err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}

	return printResult(c, &resp)
}
