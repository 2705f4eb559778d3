package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"mybudget/internal/models"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

// DB is the ledger store: the single authority for durable account and
// transaction state. All mutations go through it.
type DB struct {
	conn *sql.DB
}

// NewDB opens the ledger database and runs migrations.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrUnavailable, path, err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: ping: %v", ErrUnavailable, err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: enable foreign keys: %v", ErrUnavailable, err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id INTEGER PRIMARY KEY,
			money_amount INTEGER,
			account_name TEXT,
			account_type TEXT,
			initial_money_amount INTEGER DEFAULT 0,
			is_asset INTEGER DEFAULT 1,
			interest_rate INTEGER DEFAULT 0,
			compounding_frequency INTEGER DEFAULT 0,
			principal INTEGER DEFAULT 0,
			term INTEGER DEFAULT 0,
			monthly_payment INTEGER DEFAULT 0,
			remaining_balance INTEGER DEFAULT 0,
			remaining_term INTEGER DEFAULT 0,
			remaining_interest INTEGER DEFAULT 0,
			remaining_principal INTEGER DEFAULT 0,
			remaining_total INTEGER DEFAULT 0,
			credit_limit INTEGER DEFAULT 0,
			minimum_payment INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS transactions_table (
			id INTEGER PRIMARY KEY,
			account_id INTEGER,
			transaction_amount INTEGER,
			transaction_type TEXT,
			previous_amount INTEGER,
			new_amount INTEGER,
			transaction_date INTEGER,
			transaction_name TEXT,
			note TEXT,
			transaction_category TEXT,
			FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
		)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return fmt.Errorf("%w: migrate: %v", ErrUnavailable, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Empty reports whether no accounts exist yet.
func (db *DB) Empty() (bool, error) {
	var count int
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM accounts").Scan(&count); err != nil {
		return false, fmt.Errorf("%w: count accounts: %v", ErrUnavailable, err)
	}
	return count == 0, nil
}

// CreateAccount persists the account's top-level fields and its parameter
// block, binding zeros for every field of an absent block (and for the
// liability-only fields of an asset block, and vice versa). The assigned id
// is written back onto the entity.
func (db *DB) CreateAccount(a *models.Account) error {
	var (
		interestRate, compounding           int
		principal, monthlyPayment           int64
		term, remainingTerm                 int
		remainingBalance, remainingInterest int64
		remainingPrincipal, remainingTotal  int64
		creditLimit, minimumPayment         int64
	)
	if a.IsAsset() {
		interestRate = a.AssetInterestRate()
		compounding = a.AssetCompoundingFrequency()
	} else {
		interestRate = a.LiabilityInterestRate()
		compounding = a.LiabilityCompoundingFrequency()
		principal = a.Principal()
		term = a.Term()
		monthlyPayment = a.MonthlyPayment()
		remainingBalance = a.RemainingBalance()
		remainingTerm = a.RemainingTerm()
		remainingInterest = a.RemainingInterest()
		remainingPrincipal = a.RemainingPrincipal()
		remainingTotal = a.RemainingTotal()
		creditLimit = a.CreditLimit()
		minimumPayment = a.MinimumPayment()
	}

	res, err := db.conn.Exec(
		`INSERT INTO accounts (money_amount, account_name, account_type, initial_money_amount, is_asset,
			interest_rate, compounding_frequency, principal, term, monthly_payment,
			remaining_balance, remaining_term, remaining_interest, remaining_principal, remaining_total,
			credit_limit, minimum_payment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Balance(), a.Name(), a.Kind().String(), a.InitialBalance(), boolToInt(a.IsAsset()),
		interestRate, compounding, principal, term, monthlyPayment,
		remainingBalance, remainingTerm, remainingInterest, remainingPrincipal, remainingTotal,
		creditLimit, minimumPayment,
	)
	if err != nil {
		return fmt.Errorf("%w: save account: %v", ErrUnavailable, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w: account id: %v", ErrUnavailable, err)
	}
	a.SetID(id)
	return nil
}

// CreateTransaction is the single-account write path. The caller has
// already computed PreviousAmount and NewAmount via the sign rule; the
// store trusts them. The row insert and the balance update commit as one
// unit or not at all. On success the assigned id and account id are set on
// the transaction.
func (db *DB) CreateTransaction(accountID int64, t *models.Transaction) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrUnavailable, err)
	}
	defer tx.Rollback()

	id, err := insertTransactionRow(tx, accountID, t.Amount, t.Kind, t.PreviousAmount, t.NewAmount,
		t.Date, t.Name, t.Note, t.Category())
	if err != nil {
		return err
	}

	if _, err := tx.Exec("UPDATE accounts SET money_amount = ? WHERE id = ?", t.NewAmount, accountID); err != nil {
		return fmt.Errorf("%w: update balance: %v", ErrWriteFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrWriteFailed, err)
	}

	t.ID = id
	t.AccountID = accountID
	return nil
}

// CreateInternalTransfer moves abs(t.Amount) cents from one account to
// another. Unlike CreateTransaction it ignores the template's balance
// snapshots: both accounts' current balance and asset flag are re-read
// inside the transaction, the sign rule is applied with the source as a
// withdrawal and the destination as a deposit, and two rows plus two
// balance updates commit as one unit. The written rows are returned.
func (db *DB) CreateInternalTransfer(fromID, toID int64, t *models.Transaction) (from, to *models.Transaction, err error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: begin: %v", ErrUnavailable, err)
	}
	defer tx.Rollback()

	fromBalance, fromAsset, err := readAccountBalance(tx, fromID)
	if err != nil {
		return nil, nil, err
	}
	toBalance, toAsset, err := readAccountBalance(tx, toID)
	if err != nil {
		return nil, nil, err
	}

	magnitude := t.Amount
	if magnitude < 0 {
		magnitude = -magnitude
	}

	newFromBalance := models.BalanceAfter(fromBalance, magnitude, false, fromAsset)
	newToBalance := models.BalanceAfter(toBalance, magnitude, true, toAsset)

	from = &models.Transaction{
		AccountID:      fromID,
		Amount:         newFromBalance - fromBalance,
		Kind:           models.InternalTransfer,
		NeedCategory:   models.NeedOther,
		WantCategory:   models.WantOther,
		PreviousAmount: fromBalance,
		NewAmount:      newFromBalance,
		Date:           t.Date,
		Name:           t.Name,
		Note:           t.Note,
	}
	to = &models.Transaction{
		AccountID:      toID,
		Amount:         newToBalance - toBalance,
		Kind:           models.InternalTransfer,
		NeedCategory:   models.NeedOther,
		WantCategory:   models.WantOther,
		PreviousAmount: toBalance,
		NewAmount:      newToBalance,
		Date:           t.Date,
		Name:           t.Name,
		Note:           t.Note,
	}

	if from.ID, err = insertTransactionRow(tx, fromID, from.Amount, from.Kind,
		from.PreviousAmount, from.NewAmount, from.Date, from.Name, from.Note, ""); err != nil {
		return nil, nil, err
	}
	if to.ID, err = insertTransactionRow(tx, toID, to.Amount, to.Kind,
		to.PreviousAmount, to.NewAmount, to.Date, to.Name, to.Note, ""); err != nil {
		return nil, nil, err
	}

	if _, err := tx.Exec("UPDATE accounts SET money_amount = ? WHERE id = ?", newFromBalance, fromID); err != nil {
		return nil, nil, fmt.Errorf("%w: update source balance: %v", ErrWriteFailed, err)
	}
	if _, err := tx.Exec("UPDATE accounts SET money_amount = ? WHERE id = ?", newToBalance, toID); err != nil {
		return nil, nil, fmt.Errorf("%w: update destination balance: %v", ErrWriteFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("%w: commit: %v", ErrWriteFailed, err)
	}
	return from, to, nil
}

// DeleteTransaction removes a row, then recomputes the account's balance
// from scratch as initial balance plus the sum of all remaining rows, and
// persists the recomputed value. The full recompute (instead of reversing
// the deleted delta) self-heals any prior drift. A no-op for unknown
// transaction ids.
func (db *DB) DeleteTransaction(transactionID, accountID int64) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM transactions_table WHERE id = ?", transactionID); err != nil {
		return fmt.Errorf("%w: delete transaction: %v", ErrWriteFailed, err)
	}

	var initialBalance int64
	err = tx.QueryRow("SELECT COALESCE(initial_money_amount, 0) FROM accounts WHERE id = ?", accountID).
		Scan(&initialBalance)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: read initial balance: %v", ErrWriteFailed, err)
	}

	var sum int64
	err = tx.QueryRow("SELECT COALESCE(SUM(transaction_amount), 0) FROM transactions_table WHERE account_id = ?", accountID).
		Scan(&sum)
	if err != nil {
		return fmt.Errorf("%w: sum transactions: %v", ErrWriteFailed, err)
	}

	if _, err := tx.Exec("UPDATE accounts SET money_amount = ? WHERE id = ?", initialBalance+sum, accountID); err != nil {
		return fmt.Errorf("%w: update balance: %v", ErrWriteFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrWriteFailed, err)
	}
	return nil
}

// DeleteAccount removes the account row and all of its transaction rows as
// one unit. A no-op for unknown account ids.
func (db *DB) DeleteAccount(accountID int64) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM accounts WHERE id = ?", accountID); err != nil {
		return fmt.Errorf("%w: delete account: %v", ErrWriteFailed, err)
	}
	if _, err := tx.Exec("DELETE FROM transactions_table WHERE account_id = ?", accountID); err != nil {
		return fmt.Errorf("%w: delete account transactions: %v", ErrWriteFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrWriteFailed, err)
	}
	return nil
}

// ModifyAccount overwrites the account's name, kind, current balance and
// the full parameter column set with the supplied values. Nothing is merged
// with prior values; callers wanting partial edits pre-populate from the
// current record. The asset flag is derived from the new kind. Unknown ids
// are an error rather than a silent no-op.
func (db *DB) ModifyAccount(accountID int64, name string, kind models.AccountKind, balance int64, params models.LiabilityParams) error {
	res, err := db.conn.Exec(
		`UPDATE accounts SET account_name = ?, account_type = ?, money_amount = ?, is_asset = ?,
			interest_rate = ?, compounding_frequency = ?, principal = ?, term = ?, monthly_payment = ?,
			remaining_balance = ?, remaining_term = ?, remaining_interest = ?, remaining_principal = ?,
			remaining_total = ?, credit_limit = ?, minimum_payment = ?
		WHERE id = ?`,
		name, kind.String(), balance, boolToInt(kind.IsAsset()),
		params.InterestRate, params.CompoundingFrequency, params.Principal, params.Term, params.MonthlyPayment,
		params.RemainingBalance, params.RemainingTerm, params.RemainingInterest, params.RemainingPrincipal,
		params.RemainingTotal, params.CreditLimit, params.MinimumPayment,
		accountID,
	)
	if err != nil {
		return fmt.Errorf("%w: modify account: %v", ErrWriteFailed, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: modify account: %v", ErrWriteFailed, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: account %d", ErrNotFound, accountID)
	}
	return nil
}

// LoadAccounts returns every account row.
func (db *DB) LoadAccounts() ([]models.AccountRecord, error) {
	rows, err := db.conn.Query(
		`SELECT id, money_amount, account_name, account_type, initial_money_amount, is_asset,
			interest_rate, compounding_frequency, principal, term, monthly_payment,
			remaining_balance, remaining_term, remaining_interest, remaining_principal, remaining_total,
			credit_limit, minimum_payment
		FROM accounts ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: load accounts: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	accounts := []models.AccountRecord{}
	for rows.Next() {
		var (
			rec     models.AccountRecord
			kind    string
			isAsset int
		)
		if err := rows.Scan(&rec.ID, &rec.Balance, &rec.Name, &kind, &rec.InitialBalance, &isAsset,
			&rec.InterestRate, &rec.CompoundingFrequency, &rec.Principal, &rec.Term, &rec.MonthlyPayment,
			&rec.RemainingBalance, &rec.RemainingTerm, &rec.RemainingInterest, &rec.RemainingPrincipal,
			&rec.RemainingTotal, &rec.CreditLimit, &rec.MinimumPayment); err != nil {
			return nil, fmt.Errorf("%w: scan account: %v", ErrUnavailable, err)
		}
		rec.Kind = models.ParseAccountKind(kind)
		rec.IsAsset = isAsset != 0
		accounts = append(accounts, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: load accounts: %v", ErrUnavailable, err)
	}
	return accounts, nil
}

// GetTransactions returns the full history for an account in insertion
// order. Unknown or empty accounts yield an empty slice, never an error.
func (db *DB) GetTransactions(accountID int64) ([]models.Transaction, error) {
	return db.queryTransactions(
		"SELECT "+transactionColumns+" FROM transactions_table WHERE account_id = ? ORDER BY id",
		accountID,
	)
}

// GetMonthlyInformation returns the account's transactions with
// transaction_date in the half-open interval [start, end), in insertion
// order. Timestamps are unix seconds.
func (db *DB) GetMonthlyInformation(accountID, start, end int64) ([]models.Transaction, error) {
	return db.queryTransactions(
		"SELECT "+transactionColumns+" FROM transactions_table WHERE account_id = ? AND transaction_date >= ? AND transaction_date < ? ORDER BY id",
		accountID, start, end,
	)
}

const transactionColumns = "id, account_id, transaction_amount, transaction_type, previous_amount, new_amount, transaction_date, transaction_name, note, transaction_category"

func (db *DB) queryTransactions(query string, args ...any) ([]models.Transaction, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query transactions: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: query transactions: %v", ErrUnavailable, err)
	}
	return transactions, nil
}

func scanTransaction(rows *sql.Rows) (models.Transaction, error) {
	var (
		t        models.Transaction
		kind     string
		name     sql.NullString
		note     sql.NullString
		category sql.NullString
	)
	if err := rows.Scan(&t.ID, &t.AccountID, &t.Amount, &kind, &t.PreviousAmount, &t.NewAmount,
		&t.Date, &name, &note, &category); err != nil {
		return models.Transaction{}, fmt.Errorf("%w: scan transaction: %v", ErrUnavailable, err)
	}
	t.Kind = models.ParseTransactionKind(kind)
	t.Name = name.String
	t.Note = note.String
	t.NeedCategory = models.NeedOther
	t.WantCategory = models.WantOther
	if category.Valid {
		t.SetCategory(category.String)
	}
	return t, nil
}

func insertTransactionRow(tx *sql.Tx, accountID, amount int64, kind models.TransactionKind,
	previous, next, date int64, name, note, category string) (int64, error) {
	var cat any
	if category != "" {
		cat = category
	}
	res, err := tx.Exec(
		`INSERT INTO transactions_table (account_id, transaction_amount, transaction_type,
			previous_amount, new_amount, transaction_date, transaction_name, note, transaction_category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		accountID, amount, kind.String(), previous, next, date, name, note, cat,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: insert transaction row: %v", ErrWriteFailed, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: transaction id: %v", ErrWriteFailed, err)
	}
	return id, nil
}

func readAccountBalance(tx *sql.Tx, accountID int64) (balance int64, isAsset bool, err error) {
	var asset int
	err = tx.QueryRow("SELECT money_amount, is_asset FROM accounts WHERE id = ?", accountID).
		Scan(&balance, &asset)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("%w: account %d", ErrNotFound, accountID)
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: read account %d: %v", ErrWriteFailed, accountID, err)
	}
	return balance, asset != 0, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
