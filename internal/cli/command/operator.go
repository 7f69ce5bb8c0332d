package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/mintvault-go/internal/cli/connection"
)

// OperatorCommand returns the operator subcommand group.
func OperatorCommand() *cli.Command {
	return &cli.Command{
		Name:    "operator",
		Aliases: []string{"op"},
		Usage:   "Manage operator approvals",
		Subcommands: []*cli.Command{
			{
				Name:      "grant",
				Usage:     "Grant an operator authority over all of the caller's tokens",
				ArgsUsage: "OPERATOR_ADDRESS",
				Action:    operatorSet(true),
			},
			{
				Name:      "revoke",
				Usage:     "Revoke an operator's authority",
				ArgsUsage: "OPERATOR_ADDRESS",
				Action:    operatorSet(false),
			},
			{
				Name:      "check",
				Usage:     "Check whether an operator is approved for an owner",
				ArgsUsage: "OWNER_ADDRESS OPERATOR_ADDRESS",
				Action:    operatorCheck,
			},
		},
	}
}

func operatorSet(approved bool) cli.ActionFunc {
	return func(c *cli.Context) error {
		if err := requireCaller(c); err != nil {
			return err
		}
		operator := c.Args().First()
		if operator == "" {
			return fmt.Errorf("OPERATOR_ADDRESS argument is required")
		}

		ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
		defer cancel()

		var resp struct {
			Owner    string `json:"owner"`
			Operator string `json:"operator"`
			Approved bool   `json:"approved"`
		}
		body := map[string]any{"operator": operator, "approved": approved}
		if err := newClient(c).Post(ctx, "/v1/operators", body, &resp); err != nil {
			return fmt.Errorf("set operator: %w", err)
		}

		return printResult(c, &resp)
	}
}

func operatorCheck(c *cli.Context) error {
	owner := c.Args().Get(0)
	operator := c.Args().Get(1)
	if owner == "" || operator == "" {
		return fmt.Errorf("OWNER_ADDRESS and OPERATOR_ADDRESS arguments are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), connection.DefaultTimeout)
	defer cancel()

	var resp struct {
		Owner    string `json:"owner"`
		Operator string `json:"operator"`
		Approved bool   `json:"approved"`
	}
	if err := newClient(c).Get(ctx, "/v1/operators/"+owner+"/"+operator, &resp); err != nil {
		return fmt.Errorf("check operator: %w", err)
	}

	return printResult(c, &resp)
}
