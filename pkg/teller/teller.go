// Package teller is the transaction engine. It applies deposit and withdraw
// requests against working copies of loaded accounts and commits accepted
// results through the record store. A balance is not durable until Commit
// returns nil.
package teller

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"bankbook/pkg/models"
	"bankbook/pkg/store"
)

// Op is a transaction operation requested by the caller.
type Op string

const (
	Deposit  Op = "deposit"
	Withdraw Op = "withdraw"
)

// ParseOp validates an operation name from user input.
func ParseOp(s string) (Op, error) {
	switch op := Op(strings.ToLower(strings.TrimSpace(s))); op {
	case Deposit, Withdraw:
		return op, nil
	}
	return "", fmt.Errorf("%w: %q", models.ErrUnsupportedOperation, s)
}

type Teller struct {
	store    *store.Store
	accounts map[int]models.Account
	logger   *log.Logger
}

// New wraps the loaded account set. The teller owns the map from here on:
// it is the only thing that replaces entries, and only after a successful
// save.
func New(st *store.Store, accounts map[int]models.Account, logger *log.Logger) *Teller {
	return &Teller{store: st, accounts: accounts, logger: logger}
}

// Account returns a copy of the loaded account with the given number.
func (t *Teller) Account(number int) (models.Account, bool) {
	a, ok := t.accounts[number]
	return a, ok
}

// AccountsFor returns the client's accounts ordered by account number.
func (t *Teller) AccountsFor(clientNumber int) []models.Account {
	var out []models.Account
	for _, a := range t.accounts {
		if a.ClientNumber == clientNumber {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Apply validates and computes op on a working copy and returns the updated
// account. It never persists and never mutates the loaded set, so a rejected
// transaction leaves no trace.
func (t *Teller) Apply(acct models.Account, op Op, amount decimal.Decimal) (models.Account, error) {
	switch op {
	case Deposit:
		return acct.Deposit(amount)
	case Withdraw:
		return acct.Withdraw(amount)
	}
	return acct, fmt.Errorf("%w: %q", models.ErrUnsupportedOperation, op)
}

// Commit persists the account and, only then, replaces the loaded entry.
// A save failure propagates and the in-memory state stays at the last
// durable balance.
func (t *Teller) Commit(acct models.Account) error {
	if err := t.store.Save(acct); err != nil {
		return err
	}
	t.accounts[acct.Number] = acct
	return nil
}

// Transact looks up the account, applies the operation and commits the
// result. This is the single entry point the operator surface drives.
func (t *Teller) Transact(number int, op Op, amount decimal.Decimal) (models.Account, error) {
	acct, ok := t.accounts[number]
	if !ok {
		return models.Account{}, fmt.Errorf("%w: %d", models.ErrAccountNotFound, number)
	}
	updated, err := t.Apply(acct, op, amount)
	if err != nil {
		t.logger.Debug("transaction rejected",
			"account", number, "op", op, "amount", amount, "error", err)
		return models.Account{}, err
	}
	if err := t.Commit(updated); err != nil {
		return models.Account{}, err
	}
	t.logger.Info("transaction applied",
		"account", number, "op", op, "amount", amount, "balance", updated.Balance)
	return updated, nil
}
