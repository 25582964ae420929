// Package store is the CSV-backed record store. Load reads the full client
// and account universe best-effort, skipping and logging bad rows; Save
// patches a single account's balance back into the accounts file with an
// atomic tmp-and-rename rewrite so a partial write never corrupts it.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"bankbook/pkg/models"
)

const dateLayout = "2006-01-02"

var (
	clientHeader = []string{"client_number", "first_name", "last_name", "email_address"}

	accountHeader = []string{
		"account_number", "client_number", "balance", "date_created", "account_type",
		"overdraft_limit", "overdraft_rate", "minimum_balance", "management_fee",
	}
)

type Store struct {
	clientsPath  string
	accountsPath string
	logger       *log.Logger
}

func New(dataDir, clientsFile, accountsFile string, logger *log.Logger) *Store {
	return &Store{
		clientsPath:  filepath.Join(dataDir, clientsFile),
		accountsPath: filepath.Join(dataDir, accountsFile),
		logger:       logger,
	}
}

// Load reads both data files and returns the client directory and the
// account map. It never fails wholesale: a missing file or a bad row is
// logged and skipped, and whatever loaded cleanly is returned.
func (s *Store) Load() (models.Directory, map[int]models.Account) {
	clients := s.loadClients()
	accounts := s.loadAccounts(clients)
	s.logger.Info("record store loaded", "clients", len(clients), "accounts", len(accounts))
	return clients, accounts
}

func (s *Store) loadClients() models.Directory {
	clients := models.Directory{}
	header, rows, err := readRows(s.clientsPath)
	if err != nil {
		s.logger.Warn("client store unavailable",
			"path", s.clientsPath, "error", fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err))
		return clients
	}
	col := headerIndex(header)
	for i, row := range rows {
		c, err := clientFromRow(row, col)
		if err != nil {
			s.logger.Warn("skipping client row", "line", i+2, "error", err)
			continue
		}
		clients[c.Number] = c
	}
	return clients
}

func (s *Store) loadAccounts(clients models.Directory) map[int]models.Account {
	accounts := make(map[int]models.Account)
	header, rows, err := readRows(s.accountsPath)
	if err != nil {
		s.logger.Warn("account store unavailable",
			"path", s.accountsPath, "error", fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err))
		return accounts
	}
	col := headerIndex(header)
	for i, row := range rows {
		a, err := accountFromRow(row, col)
		if err != nil {
			s.logger.Warn("skipping account row", "line", i+2, "error", err)
			continue
		}
		// Referential integrity is enforced here and only here: an account
		// whose owner did not load is never surfaced to callers.
		if !clients.Exists(a.ClientNumber) {
			s.logger.Warn("skipping account row", "line", i+2, "account", a.Number,
				"client", a.ClientNumber, "error", models.ErrOrphanedAccount)
			continue
		}
		accounts[a.Number] = a
	}
	return accounts
}

// Save rewrites the balance cell of the row matching acct.Number and leaves
// every other cell, row and the header untouched. The whole file is read,
// patched in memory and atomically replaced; the CSV format has no in-place
// update. Concurrent Save calls are not supported.
func (s *Store) Save(acct models.Account) error {
	f, err := os.Open(s.accountsPath)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrPersistenceFailure, err)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	f.Close()
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrPersistenceFailure, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: %s is empty", models.ErrPersistenceFailure, s.accountsPath)
	}

	col := headerIndex(rows[0])
	numIdx, ok := col["account_number"]
	balIdx, ok2 := col["balance"]
	if !ok || !ok2 {
		return fmt.Errorf("%w: %s missing account_number or balance column",
			models.ErrPersistenceFailure, s.accountsPath)
	}

	patched := false
	for _, row := range rows[1:] {
		if len(row) <= numIdx || len(row) <= balIdx {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(row[numIdx]))
		if err != nil || n != acct.Number {
			continue
		}
		row[balIdx] = acct.Balance.String()
		patched = true
		break
	}
	if !patched {
		return fmt.Errorf("%w: account %d not present in %s",
			models.ErrPersistenceFailure, acct.Number, s.accountsPath)
	}

	if err := writeCSV(s.accountsPath, rows); err != nil {
		return fmt.Errorf("%w: %v", models.ErrPersistenceFailure, err)
	}
	s.logger.Debug("account persisted", "account", acct.Number, "balance", acct.Balance)
	return nil
}

func readRows(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%s: no header row", path)
	}
	return all[0], all[1:], nil
}

// writeCSV writes rows to a tmp file beside path and renames it over the
// original so the store is either the old file or the new one, never a
// truncated mix. Quoting is normalized to csv.Writer's canonical form, so a
// source field quoted without need loses its quotes on rewrite.
func writeCSV(path string, rows [][]string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func field(row []string, col map[string]int, name string) (string, error) {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return "", fmt.Errorf("missing column %q", name)
	}
	return strings.TrimSpace(row[i]), nil
}

func intField(row []string, col map[string]int, name string) (int, error) {
	raw, err := field(row, col, name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("column %q: %v", name, err)
	}
	return n, nil
}

func decimalField(row []string, col map[string]int, name string) (decimal.Decimal, error) {
	raw, err := field(row, col, name)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("column %q: %v", name, err)
	}
	return d, nil
}

func clientFromRow(row []string, col map[string]int) (models.Client, error) {
	number, err := intField(row, col, "client_number")
	if err != nil {
		return models.Client{}, err
	}
	if number <= 0 {
		return models.Client{}, fmt.Errorf("client_number %d is not positive", number)
	}
	first, err := field(row, col, "first_name")
	if err != nil {
		return models.Client{}, err
	}
	last, err := field(row, col, "last_name")
	if err != nil {
		return models.Client{}, err
	}
	email, err := field(row, col, "email_address")
	if err != nil {
		return models.Client{}, err
	}
	return models.Client{Number: number, FirstName: first, LastName: last, Email: email}, nil
}

func accountFromRow(row []string, col map[string]int) (models.Account, error) {
	number, err := intField(row, col, "account_number")
	if err != nil {
		return models.Account{}, err
	}
	if number <= 0 {
		return models.Account{}, fmt.Errorf("account_number %d is not positive", number)
	}
	clientNumber, err := intField(row, col, "client_number")
	if err != nil {
		return models.Account{}, err
	}
	balance, err := decimalField(row, col, "balance")
	if err != nil {
		return models.Account{}, err
	}
	rawDate, err := field(row, col, "date_created")
	if err != nil {
		return models.Account{}, err
	}
	created, err := time.Parse(dateLayout, rawDate)
	if err != nil {
		return models.Account{}, fmt.Errorf("column %q: %v", "date_created", err)
	}
	rawType, err := field(row, col, "account_type")
	if err != nil {
		return models.Account{}, err
	}
	typ, err := models.ParseAccountType(rawType)
	if err != nil {
		return models.Account{}, err
	}

	a := models.Account{
		Number:       number,
		ClientNumber: clientNumber,
		Balance:      balance,
		DateCreated:  created,
		Type:         typ,
	}

	// Only the variant's own columns are read; the others may be blank.
	switch typ {
	case models.Chequing:
		if a.OverdraftLimit, err = decimalField(row, col, "overdraft_limit"); err != nil {
			return models.Account{}, err
		}
		if a.OverdraftRate, err = decimalField(row, col, "overdraft_rate"); err != nil {
			return models.Account{}, err
		}
	case models.Savings:
		if a.MinimumBalance, err = decimalField(row, col, "minimum_balance"); err != nil {
			return models.Account{}, err
		}
	case models.Investment:
		if a.ManagementFee, err = decimalField(row, col, "management_fee"); err != nil {
			return models.Account{}, err
		}
	}
	return a, nil
}
