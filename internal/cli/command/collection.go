package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/mintvault-go/internal/cli/connection"
)

// CollectionCommand returns the collection subcommand group.
func CollectionCommand() *cli.Command {
	return &cli.Command{
		Name:    "collection",
		Aliases: []string{"coll"},
		Usage:   "Inspect the collection",
		Subcommands: []*cli.Command{
			{
				Name:   "info",
				Usage:  "Show collection name, symbol, supply and pause state",
				Action: collectionInfo,
			},
		},
	}
}

// collectionView mirrors the server's collection read model.
type collectionView struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	BaseURI     string `json:"base_uri"`
	MaxSupply   uint64 `json:"max_supply"`
	TotalSupply uint64 `json:"total_supply"`
	Minted      uint64 `json:"minted"`
	Paused      bool   `json:"paused"`
	Admin       string `json:"admin"`
}

func collectionInfo(c *cli.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	var info collectionView
	if err := newClient(c).Get(ctx, "/v1/collection", &info); err != nil {
		return fmt.Errorf("fetch collection: %w", err)
	}

	return printResult(c, &info)
}

// BalanceCommand returns the balance command.
func BalanceCommand() *cli.Command {
	return &cli.Command{
		Name:      "balance",
		Usage:     "Show the token balance of an address",
		ArgsUsage: "ADDRESS",
		Action:    balanceGet,
	}
}

func balanceGet(c *cli.Context) error {
	address := c.Args().First()
	if address == "" {
		return fmt.Errorf("ADDRESS argument is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	var resp struct {
		Address string `json:"address"`
		Balance uint64 `json:"balance"`
	}
	if err := newClient(c).Get(ctx, "/v1/owners/"+address+"/balance", &resp); err != nil {
		return fmt.Errorf("fetch balance: %w", err)
	}

	return printResult(c, &resp)
}
