package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"bankbook/pkg/config"
	"bankbook/pkg/models"
	"bankbook/pkg/store"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "bankbook",
	Short: "Flat-file client and bank account management",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "List all clients",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		numbers := make([]int, 0, len(app.clients))
		for n := range app.clients {
			numbers = append(numbers, n)
		}
		sort.Ints(numbers)
		for _, n := range numbers {
			c := app.clients[n]
			printClient(c, len(app.teller.AccountsFor(n)))
		}
		return nil
	},
}

var accountsCmd = &cobra.Command{
	Use:   "accounts <client_number>",
	Short: "List a client's accounts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		number, err := parseNumber(args[0], "client number")
		if err != nil {
			return err
		}
		client, ok := app.clients.Get(number)
		if !ok {
			return fmt.Errorf("%w: %d", models.ErrClientNotFound, number)
		}
		printClient(client, 0)
		for _, a := range app.teller.AccountsFor(number) {
			printAccount(a)
		}
		return nil
	},
}

var depositCmd = &cobra.Command{
	Use:   "deposit <account_number> <amount>",
	Short: "Deposit into an account",
	Args:  cobra.ExactArgs(2),
	RunE:  runTransaction,
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <account_number> <amount>",
	Short: "Withdraw from an account",
	Args:  cobra.ExactArgs(2),
	RunE:  runTransaction,
}

var seedCmd = &cobra.Command{
	Use:   "seed <manifest.yaml>",
	Short: "Write data files from a YAML fixture manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return err
		}
		st := store.New(cfg.DataDir, cfg.ClientsFile, cfg.AccountsFile, logger)
		return st.Seed(args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding clients.csv and accounts.csv")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(clientsCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(depositCmd)
	rootCmd.AddCommand(withdrawCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
