package command

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/mintvault-go/internal/cli/connection"
	"github.com/yndnr/mintvault-go/internal/cli/output"
	"github.com/yndnr/mintvault-go/internal/core/domain"
	"github.com/yndnr/mintvault-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "mintvault-cli",
		Usage:   "MintVault token registry management tool",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			CollectionCommand(),
			TokenCommand(),
			OperatorCommand(),
			BalanceCommand(),
			AdminCommand(),
		},
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "MintVault server address (e.g., localhost:5090)",
			EnvVars: []string{"MINTVAULT_SERVER"},
			Value:   "localhost:5090",
		},
		&cli.StringFlag{
			Name:    "caller",
			Aliases: []string{"c"},
			Usage:   "Caller address for mutations (0x + 40 hex chars)",
			EnvVars: []string{"MINTVAULT_CALLER"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
	}
}

// newClient builds the HTTP client from the global flags.
func newClient(c *cli.Context) *connection.Client {
	return connection.NewClient(c.String("server"), c.String("caller"))
}

// requireCaller validates that a caller address was provided for a
// mutating command.
func requireCaller(c *cli.Context) error {
	caller := c.String("caller")
	if caller == "" {
		return fmt.Errorf("--caller (or MINTVAULT_CALLER) is required for this command")
	}
	if !domain.IsValidAddress(caller) {
		return fmt.Errorf("invalid caller address %q", caller)
	}
	return nil
}

// argTokenID parses the positional TOKEN_ID argument.
func argTokenID(c *cli.Context) (uint64, error) {
	raw := c.Args().First()
	if raw == "" {
		return 0, fmt.Errorf("TOKEN_ID argument is required")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token id %q", raw)
	}
	return id, nil
}

// printResult renders a command result in the selected output format.
func printResult(c *cli.Context, data any) error {
	return printResultTo(os.Stdout, c, data)
}

func printResultTo(w io.Writer, c *cli.Context, data any) error {
	return output.NewFormatter(output.Format(c.String("output"))).Format(w, data)
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
