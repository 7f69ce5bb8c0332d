package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/mintvault-go/internal/cli/connection"
	"github.com/yndnr/mintvault-go/internal/cli/output"
)

// TokenCommand returns the token subcommand group.
func TokenCommand() *cli.Command {
	return &cli.Command{
		Name:    "token",
		Aliases: []string{"tok"},
		Usage:   "Manage tokens",
		Subcommands: []*cli.Command{
			{
				Name:  "mint",
				Usage: "Mint a new token (admin only)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "to",
						Usage:    "Recipient address",
						Required: true,
					},
				},
				Action: tokenMint,
			},
			{
				Name:      "get",
				Usage:     "Show a token's owner, approval and URI",
				ArgsUsage: "TOKEN_ID",
				Action:    tokenGet,
			},
			{
				Name:      "transfer",
				Usage:     "Transfer a token",
				ArgsUsage: "TOKEN_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "from",
						Usage:    "Current owner address",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "to",
						Usage:    "Recipient address",
						Required: true,
					},
				},
				Action: tokenTransfer,
			},
			{
				Name:      "approve",
				Usage:     "Set or revoke a token's approved spender",
				ArgsUsage: "TOKEN_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "spender",
						Usage:    "Spender address (zero address revokes)",
						Required: true,
					},
				},
				Action: tokenApprove,
			},
			{
				Name:      "burn",
				Usage:     "Permanently destroy a token",
				ArgsUsage: "TOKEN_ID",
				Action:    tokenBurn,
			},
			{
				Name:      "history",
				Usage:     "Show a token's archived event history",
				ArgsUsage: "TOKEN_ID",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Events to skip",
					},
					&cli.IntFlag{
						Name:  "limit",
						Value: 50,
						Usage: "Maximum events to show",
					},
				},
				Action: tokenHistory,
			},
		},
	}
}

// tokenView mirrors the server's token read model.
type tokenView struct {
	ID       uint64 `json:"id"`
	Owner    string `json:"owner"`
	Approved string `json:"approved"`
	URI      string `json:"uri"`
}

func tokenMint(c *cli.Context) error {
	if err := requireCaller(c); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	var resp struct {
		TokenID uint64 `json:"token_id"`
		Owner   string `json:"owner"`
		URI     string `json:"uri"`
	}
	body := map[string]string{"to": c.String("to")}
	if err := newClient(c).Post(ctx, "/v1/tokens/mint", body, &resp); err != nil {
		return fmt.Errorf("mint: %w", err)
	}

	return printResult(c, &resp)
}

func tokenGet(c *cli.Context) error {
	id, err := argTokenID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	var view tokenView
	if err := newClient(c).Get(ctx, fmt.Sprintf("/v1/tokens/%d", id), &view); err != nil {
		return fmt.Errorf("fetch token: %w", err)
	}

	return printResult(c, &view)
}

func tokenTransfer(c *cli.Context) error {
	if err := requireCaller(c); err != nil {
		return err
	}
	id, err := argTokenID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	var resp struct {
		TokenID uint64 `json:"token_id"`
		From    string `json:"from"`
		To      string `json:"to"`
	}
	body := map[string]string{"from": c.String("from"), "to": c.String("to")}
	if err := newClient(c).Post(ctx, fmt.Sprintf("/v1/tokens/%d/transfer", id), body, &resp); err != nil {
		return fmt.Errorf("transfer: %w", err)
	}

	return printResult(c, &resp)
}

func tokenApprove(c *cli.Context) error {
	if err := requireCaller(c); err != nil {
		return err
	}
	id, err := argTokenID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	var resp struct {
		TokenID uint64 `json:"token_id"`
		Owner   string `json:"owner"`
		Spender string `json:"spender"`
	}
	body := map[string]string{"spender": c.String("spender")}
	if err := newClient(c).Post(ctx, fmt.Sprintf("/v1/tokens/%d/approve", id), body, &resp); err != nil {
		return fmt.Errorf("approve: %w", err)
	}

	return printResult(c, &resp)
}

func tokenBurn(c *cli.Context) error {
	if err := requireCaller(c); err != nil {
		return err
	}
	id, err := argTokenID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	var resp struct {
		TokenID uint64 `json:"token_id"`
		Owner   string `json:"owner"`
	}
	if err := newClient(c).Post(ctx, fmt.Sprintf("/v1/tokens/%d/burn", id), nil, &resp); err != nil {
		return fmt.Errorf("burn: %w", err)
	}

	return printResult(c, &resp)
}

func tokenHistory(c *cli.Context) error {
	id, err := argTokenID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	var resp struct {
		Items []struct {
			Kind      string `json:"kind"`
			Timestamp int64  `json:"ts"`
			From      string `json:"from"`
			To        string `json:"to"`
			Owner     string `json:"owner"`
			Spender   string `json:"spender"`
		} `json:"items"`
	}
	path := fmt.Sprintf("/v1/tokens/%d/history?offset=%d&limit=%d",
		id, c.Int("offset"), c.Int("limit"))
	if err := newClient(c).Get(ctx, path, &resp); err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}

	if output.Format(c.String("output")) != output.FormatTable {
		return printResult(c, resp.Items)
	}

	table := &output.Table{Headers: []string{"TIME", "KIND", "FROM", "TO", "OWNER", "SPENDER"}}
	for _, ev := range resp.Items {
		table.AddRow(
			time.UnixMilli(ev.Timestamp).UTC().Format("2006-01-02 15:04:05"),
			ev.Kind,
			shortAddr(ev.From),
			shortAddr(ev.To),
			shortAddr(ev.Owner),
			shortAddr(ev.Spender),
		)
	}
	if err := table.Render(os.Stdout); err != nil {
		return err
	}
	fmt.Printf("\nTotal: %d events\n", len(resp.Items))
	return nil
}

// shortAddr abbreviates an address for table display.
func shortAddr(addr string) string {
	if len(addr) <= 12 {
		if addr == "" {
			return "-"
		}
		return addr
	}
	return addr[:8] + ".." + addr[len(addr)-4:]
}
