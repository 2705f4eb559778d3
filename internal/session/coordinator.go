// Package session orchestrates ledger store calls on behalf of the
// presentation layer and owns the in-memory account-list snapshot.
package session

import (
	"mybudget/internal/models"
	"mybudget/internal/storage"
)

// Coordinator is a thin layer over the ledger store. After every write it
// reloads the whole account list from storage rather than patching the
// snapshot, so the wallet can never diverge from durable state. Account
// counts are small, so the full reload per write is cheap. Reads pass
// through uncached.
type Coordinator struct {
	db     *storage.DB
	wallet []models.AccountRecord
}

// NewCoordinator creates a coordinator and loads the initial wallet.
func NewCoordinator(db *storage.DB) (*Coordinator, error) {
	c := &Coordinator{db: db}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Wallet returns the current account-list snapshot. The slice is owned by
// the coordinator and replaced wholesale on every write.
func (c *Coordinator) Wallet() []models.AccountRecord {
	return c.wallet
}

// Reload replaces the wallet with a fresh read of all accounts.
func (c *Coordinator) Reload() error {
	accounts, err := c.db.LoadAccounts()
	if err != nil {
		return err
	}
	c.wallet = accounts
	return nil
}

// CreateAccount persists a new account and refreshes the wallet.
func (c *Coordinator) CreateAccount(a *models.Account) error {
	if err := c.db.CreateAccount(a); err != nil {
		return err
	}
	return c.Reload()
}

// ModifyAccount replaces an account's fields wholesale and refreshes the
// wallet.
func (c *Coordinator) ModifyAccount(accountID int64, name string, kind models.AccountKind, balance int64, params models.LiabilityParams) error {
	if err := c.db.ModifyAccount(accountID, name, kind, balance, params); err != nil {
		return err
	}
	return c.Reload()
}

// DeleteAccount removes an account with all its transactions and refreshes
// the wallet.
func (c *Coordinator) DeleteAccount(accountID int64) error {
	if err := c.db.DeleteAccount(accountID); err != nil {
		return err
	}
	return c.Reload()
}

// CreateTransaction writes a single ledger entry and refreshes the wallet.
func (c *Coordinator) CreateTransaction(accountID int64, t *models.Transaction) error {
	if err := c.db.CreateTransaction(accountID, t); err != nil {
		return err
	}
	return c.Reload()
}

// CreateInternalTransfer moves money between two accounts and refreshes the
// wallet. The two written rows are returned.
func (c *Coordinator) CreateInternalTransfer(fromID, toID int64, t *models.Transaction) (*models.Transaction, *models.Transaction, error) {
	from, to, err := c.db.CreateInternalTransfer(fromID, toID, t)
	if err != nil {
		return nil, nil, err
	}
	if err := c.Reload(); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// DeleteTransaction removes one ledger entry, letting the store recompute
// the account balance, and refreshes the wallet.
func (c *Coordinator) DeleteTransaction(transactionID, accountID int64) error {
	if err := c.db.DeleteTransaction(transactionID, accountID); err != nil {
		return err
	}
	return c.Reload()
}

// GetTransactions passes through to the store.
func (c *Coordinator) GetTransactions(accountID int64) ([]models.Transaction, error) {
	return c.db.GetTransactions(accountID)
}

// GetMonthlyTransactions returns the account's transactions with dates in
// [start, end), passing through to the store.
func (c *Coordinator) GetMonthlyTransactions(accountID, start, end int64) ([]models.Transaction, error) {
	return c.db.GetMonthlyInformation(accountID, start, end)
}

// GetMonthlySummary queries the [start, end) range and aggregates it.
func (c *Coordinator) GetMonthlySummary(accountID, start, end int64) (storage.Summary, error) {
	transactions, err := c.db.GetMonthlyInformation(accountID, start, end)
	if err != nil {
		return storage.Summary{}, err
	}
	return storage.Summarize(transactions), nil
}
