package teller

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"bankbook/pkg/models"
	"bankbook/pkg/store"
)

const clientsFixture = `client_number,first_name,last_name,email_address
1,Ada,Lovelace,ada@example.com
`

const accountsFixture = `account_number,client_number,balance,date_created,account_type,overdraft_limit,overdraft_rate,minimum_balance,management_fee
1001,1,100,2021-03-01,ChequingAccount,50,0.1,,
2001,1,200,2020-07-15,SavingsAccount,,,100,
`

func newTestTeller(t *testing.T) (*Teller, string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "clients.csv"), []byte(clientsFixture), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "accounts.csv"), []byte(accountsFixture), 0o644); err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	st := store.New(dir, "clients.csv", "accounts.csv", logger)
	_, accounts := st.Load()
	return New(st, accounts, logger), dir
}

func TestTransactDepositPersists(t *testing.T) {
	tl, dir := newTestTeller(t)

	updated, err := tl.Transact(1001, Deposit, decimal.RequireFromString("25.50"))
	if err != nil {
		t.Fatalf("Transact: %v", err)
	}
	if !updated.Balance.Equal(decimal.RequireFromString("125.5")) {
		t.Errorf("balance = %s, want 125.5", updated.Balance)
	}

	// the new balance is on disk, not just in memory
	st := store.New(dir, "clients.csv", "accounts.csv", log.New(io.Discard))
	_, accounts := st.Load()
	if got := accounts[1001].Balance; !got.Equal(decimal.RequireFromString("125.5")) {
		t.Errorf("persisted balance = %s, want 125.5", got)
	}
}

func TestTransactRejectionLeavesStateAlone(t *testing.T) {
	tl, dir := newTestTeller(t)

	_, err := tl.Transact(2001, Withdraw, decimal.RequireFromString("150"))
	if !errors.Is(err, models.ErrBelowMinimumBalance) {
		t.Fatalf("err = %v, want ErrBelowMinimumBalance", err)
	}

	if a, _ := tl.Account(2001); !a.Balance.Equal(decimal.RequireFromString("200")) {
		t.Errorf("in-memory balance = %s, want 200", a.Balance)
	}
	st := store.New(dir, "clients.csv", "accounts.csv", log.New(io.Discard))
	_, accounts := st.Load()
	if got := accounts[2001].Balance; !got.Equal(decimal.RequireFromString("200")) {
		t.Errorf("persisted balance = %s, want 200", got)
	}
}

func TestTransactUnknownAccount(t *testing.T) {
	tl, _ := newTestTeller(t)
	if _, err := tl.Transact(9999, Deposit, decimal.RequireFromString("1")); !errors.Is(err, models.ErrAccountNotFound) {
		t.Fatalf("err = %v, want ErrAccountNotFound", err)
	}
}

func TestTransactPersistenceFailureKeepsLastDurableBalance(t *testing.T) {
	tl, dir := newTestTeller(t)

	// losing the backing file after load makes the save fail hard
	if err := os.Remove(filepath.Join(dir, "accounts.csv")); err != nil {
		t.Fatal(err)
	}
	_, err := tl.Transact(1001, Deposit, decimal.RequireFromString("10"))
	if !errors.Is(err, models.ErrPersistenceFailure) {
		t.Fatalf("err = %v, want ErrPersistenceFailure", err)
	}
	if a, _ := tl.Account(1001); !a.Balance.Equal(decimal.RequireFromString("100")) {
		t.Errorf("in-memory balance = %s after failed save, want 100", a.Balance)
	}
}

func TestApplyDoesNotCommit(t *testing.T) {
	tl, _ := newTestTeller(t)
	acct, _ := tl.Account(1001)

	updated, err := tl.Apply(acct, Withdraw, decimal.RequireFromString("30"))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !updated.Balance.Equal(decimal.RequireFromString("70")) {
		t.Errorf("working copy balance = %s, want 70", updated.Balance)
	}
	// the loaded set still holds the old balance until Commit
	if a, _ := tl.Account(1001); !a.Balance.Equal(decimal.RequireFromString("100")) {
		t.Errorf("loaded balance = %s before Commit, want 100", a.Balance)
	}

	if err := tl.Commit(updated); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if a, _ := tl.Account(1001); !a.Balance.Equal(decimal.RequireFromString("70")) {
		t.Errorf("loaded balance = %s after Commit, want 70", a.Balance)
	}
}

func TestAccountsFor(t *testing.T) {
	tl, _ := newTestTeller(t)
	accts := tl.AccountsFor(1)
	if len(accts) != 2 {
		t.Fatalf("accounts = %d, want 2", len(accts))
	}
	if accts[0].Number != 1001 || accts[1].Number != 2001 {
		t.Errorf("order = %d, %d, want 1001, 2001", accts[0].Number, accts[1].Number)
	}
	if got := tl.AccountsFor(42); len(got) != 0 {
		t.Errorf("AccountsFor(42) = %d accounts", len(got))
	}
}

func TestParseOp(t *testing.T) {
	if op, err := ParseOp(" Deposit "); err != nil || op != Deposit {
		t.Errorf("ParseOp(Deposit) = %q, %v", op, err)
	}
	if op, err := ParseOp("withdraw"); err != nil || op != Withdraw {
		t.Errorf("ParseOp(withdraw) = %q, %v", op, err)
	}
	if _, err := ParseOp("transfer"); !errors.Is(err, models.ErrUnsupportedOperation) {
		t.Errorf("ParseOp(transfer): err = %v, want ErrUnsupportedOperation", err)
	}
}

func TestApplyUnsupportedOp(t *testing.T) {
	tl, _ := newTestTeller(t)
	acct, _ := tl.Account(1001)

	got, err := tl.Apply(acct, Op("transfer"), decimal.RequireFromString("10"))
	if !errors.Is(err, models.ErrUnsupportedOperation) {
		t.Fatalf("err = %v, want ErrUnsupportedOperation", err)
	}
	if !got.Balance.Equal(acct.Balance) {
		t.Errorf("balance = %s after rejection, want %s", got.Balance, acct.Balance)
	}
}
