package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the closed set of account variants. The tag values match
// the account_type column in the record store.
type AccountType string

const (
	Chequing   AccountType = "ChequingAccount"
	Savings    AccountType = "SavingsAccount"
	Investment AccountType = "InvestmentAccount"
)

// ParseAccountType validates a type tag read from the store.
func ParseAccountType(tag string) (AccountType, error) {
	switch t := AccountType(tag); t {
	case Chequing, Savings, Investment:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAccountType, tag)
}

// Account is one bank account. The variant fields beyond Type are only
// meaningful for the matching account type and stay zero otherwise.
//
// Deposit and Withdraw take a value receiver and return the updated account,
// so a failed transaction can never leave a caller holding a half-applied
// balance: the caller's copy is untouched until it replaces it with the
// returned one.
type Account struct {
	Number       int
	ClientNumber int
	Balance      decimal.Decimal
	DateCreated  time.Time
	Type         AccountType

	OverdraftLimit decimal.Decimal // Chequing: max negative balance magnitude
	OverdraftRate  decimal.Decimal // Chequing: fee rate on the overdrawn portion
	MinimumBalance decimal.Decimal // Savings: floor the balance may not cross
	ManagementFee  decimal.Decimal // Investment: flat fee per withdrawal
}

// Deposit returns the account with amount added to the balance. Deposits are
// accepted by every variant.
func (a Account) Deposit(amount decimal.Decimal) (Account, error) {
	if !amount.IsPositive() {
		return a, ErrInvalidAmount
	}
	a.Balance = a.Balance.Add(amount)
	return a, nil
}

// Withdraw returns the account with the variant's withdrawal rule applied.
// On a policy violation the returned account equals the receiver.
func (a Account) Withdraw(amount decimal.Decimal) (Account, error) {
	if !amount.IsPositive() {
		return a, ErrInvalidAmount
	}
	rule, ok := withdrawRules[a.Type]
	if !ok {
		return a, fmt.Errorf("%w: %q", ErrUnknownAccountType, a.Type)
	}
	next, err := rule(a, amount)
	if err != nil {
		return a, err
	}
	a.Balance = next
	return a, nil
}

// withdrawRules is the policy table: one row per variant, each computing the
// balance after a withdrawal or rejecting it. Changing a variant's rule is a
// single-row edit here.
var withdrawRules = map[AccountType]func(Account, decimal.Decimal) (decimal.Decimal, error){
	Chequing:   chequingWithdraw,
	Savings:    savingsWithdraw,
	Investment: investmentWithdraw,
}

// chequingWithdraw allows the balance to go negative up to the overdraft
// limit. Using the overdraft costs a fee of rate times the overdrawn amount.
func chequingWithdraw(a Account, amount decimal.Decimal) (decimal.Decimal, error) {
	next := a.Balance.Sub(amount)
	if next.LessThan(a.OverdraftLimit.Neg()) {
		return decimal.Zero, ErrOverdraftLimitExceeded
	}
	if next.IsNegative() {
		next = next.Sub(a.OverdraftRate.Mul(next.Abs()))
	}
	return next, nil
}

// savingsWithdraw keeps the balance at or above the minimum balance.
func savingsWithdraw(a Account, amount decimal.Decimal) (decimal.Decimal, error) {
	next := a.Balance.Sub(amount)
	if next.LessThan(a.MinimumBalance) {
		return decimal.Zero, ErrBelowMinimumBalance
	}
	return next, nil
}

// investmentWithdraw charges the flat management fee on every accepted
// withdrawal; the balance must cover amount plus fee.
func investmentWithdraw(a Account, amount decimal.Decimal) (decimal.Decimal, error) {
	total := amount.Add(a.ManagementFee)
	if a.Balance.LessThan(total) {
		return decimal.Zero, ErrInsufficientFunds
	}
	return a.Balance.Sub(total), nil
}
