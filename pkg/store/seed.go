package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the YAML fixture format consumed by Seed. Monetary values are
// kept as strings and written to the CSV verbatim.
type Manifest struct {
	Clients  []ManifestClient  `yaml:"clients"`
	Accounts []ManifestAccount `yaml:"accounts"`
}

type ManifestClient struct {
	Number    int    `yaml:"client_number"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Email     string `yaml:"email_address"`
}

type ManifestAccount struct {
	Number         int    `yaml:"account_number"`
	ClientNumber   int    `yaml:"client_number"`
	Balance        string `yaml:"balance"`
	DateCreated    string `yaml:"date_created"`
	Type           string `yaml:"account_type"`
	OverdraftLimit string `yaml:"overdraft_limit"`
	OverdraftRate  string `yaml:"overdraft_rate"`
	MinimumBalance string `yaml:"minimum_balance"`
	ManagementFee  string `yaml:"management_fee"`
}

// Seed writes fresh clients and accounts CSV files from a YAML manifest,
// replacing whatever was there. It is the only code path that writes the
// clients file.
func (s *Store) Seed(manifestPath string) error {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parse manifest %s: %w", manifestPath, err)
	}

	clientRows := [][]string{clientHeader}
	for _, c := range m.Clients {
		clientRows = append(clientRows, []string{
			fmt.Sprintf("%d", c.Number), c.FirstName, c.LastName, c.Email,
		})
	}
	accountRows := [][]string{accountHeader}
	for _, a := range m.Accounts {
		accountRows = append(accountRows, []string{
			fmt.Sprintf("%d", a.Number), fmt.Sprintf("%d", a.ClientNumber),
			a.Balance, a.DateCreated, a.Type,
			a.OverdraftLimit, a.OverdraftRate, a.MinimumBalance, a.ManagementFee,
		})
	}

	if err := writeCSV(s.clientsPath, clientRows); err != nil {
		return fmt.Errorf("write %s: %w", s.clientsPath, err)
	}
	if err := writeCSV(s.accountsPath, accountRows); err != nil {
		return fmt.Errorf("write %s: %w", s.accountsPath, err)
	}
	s.logger.Info("seeded record store",
		"clients", len(m.Clients), "accounts", len(m.Accounts))
	return nil
}
