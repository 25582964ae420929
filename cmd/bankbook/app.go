package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"bankbook/pkg/config"
	"bankbook/pkg/models"
	"bankbook/pkg/store"
	"bankbook/pkg/teller"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
)

// app wires config, logger, store and teller for one command invocation.
type app struct {
	logger  *log.Logger
	cfg     *config.Config
	store   *store.Store
	clients models.Directory
	teller  *teller.Teller
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)
	st := store.New(cfg.DataDir, cfg.ClientsFile, cfg.AccountsFile, logger)
	clients, accounts := st.Load()
	return &app{
		logger:  logger,
		cfg:     cfg,
		store:   st,
		clients: clients,
		teller:  teller.New(st, accounts, logger),
	}, nil
}

func newLogger(cfg *config.Config) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "bankbook",
		Level:           level,
	})
}

// runTransaction is the RunE shared by deposit and withdraw; the operation
// is the subcommand's own name. All input parsing lives here; the rules live
// in the teller and below.
func runTransaction(cmd *cobra.Command, args []string) error {
	op, err := teller.ParseOp(cmd.Name())
	if err != nil {
		return err
	}
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	number, err := parseNumber(args[0], "account number")
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("%w: %q is not numeric", models.ErrInvalidAmount, args[1])
	}

	updated, err := app.teller.Transact(number, op, amount)
	if err != nil {
		// The operator must be able to tell a computed-but-unsaved
		// transaction apart from a rejected one.
		if errors.Is(err, models.ErrPersistenceFailure) {
			fmt.Println(failStyle.Render(fmt.Sprintf("%s computed but NOT saved: %v", op, err)))
		} else {
			fmt.Println(failStyle.Render(fmt.Sprintf("%s rejected: %v", op, err)))
		}
		return err
	}
	fmt.Println(okStyle.Render(fmt.Sprintf("%s of %s applied to account %d | balance $%s",
		op, amount.StringFixed(2), number, updated.Balance.StringFixed(2))))
	return nil
}

func parseNumber(raw, what string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, raw)
	}
	return n, nil
}

func printClient(c models.Client, accountCount int) {
	line := fmt.Sprintf("%-6d %-24s %s", c.Number, c.FullName(), c.Email)
	if accountCount > 0 {
		line += dimStyle.Render(fmt.Sprintf("  (%d accounts)", accountCount))
	}
	fmt.Println(headerStyle.Render(line))
}

func printAccount(a models.Account) {
	fmt.Printf("  %-8d %-18s %s  $%s\n",
		a.Number, a.Type, a.DateCreated.Format("2006-01-02"),
		a.Balance.StringFixed(2))
}
