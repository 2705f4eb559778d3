// budgetctl is a command line front end for the ledger. It opens the same
// database file as the server and drives the session coordinator directly.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"time"

	"mybudget/internal/models"
	"mybudget/internal/session"
	"mybudget/internal/storage"

	"github.com/google/subcommands"
)

var dbPath = flag.String("db", "mybudget.db", "Path to the ledger database file")

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(&accountsCmd{}, "accounts")
	commander.Register(&addAccountCmd{}, "accounts")
	commander.Register(&addTxnCmd{}, "transactions")
	commander.Register(&transferCmd{}, "transactions")
	commander.Register(&summaryCmd{}, "transactions")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// openCoordinator opens the ledger and loads the wallet. The -db flag
// default can be overridden by the DB_PATH environment variable.
func openCoordinator() (*session.Coordinator, *storage.DB, error) {
	p := *dbPath
	if env := os.Getenv("DB_PATH"); env != "" && p == "mybudget.db" {
		p = env
	}
	db, err := storage.NewDB(p)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	coord, err := session.NewCoordinator(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	return coord, db, nil
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list all accounts with their balances" }
func (*accountsCmd) Usage() string {
	return `budgetctl accounts

  Lists every account with its kind and current balance.
`
}
func (*accountsCmd) SetFlags(*flag.FlagSet) {}

func (c *accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	coord, db, err := openCoordinator()
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	wallet := coord.Wallet()
	if len(wallet) == 0 {
		fmt.Println("No accounts yet.")
		return subcommands.ExitSuccess
	}
	for _, rec := range wallet {
		side := "liability"
		if rec.IsAsset {
			side = "asset"
		}
		fmt.Printf("%4d  %-20s %-12s %-9s %s\n",
			rec.ID, rec.Name, rec.Kind, side, models.FormatCents(rec.Balance))
	}
	return subcommands.ExitSuccess
}

type addAccountCmd struct {
	name    string
	kind    string
	balance string
	rate    int
	freq    int
}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "create a new account" }
func (*addAccountCmd) Usage() string {
	return `budgetctl add-account -name <name> -type <kind> -balance <amount> [-rate bp] [-freq 365|12|1]

  Creates an account. The balance is decimal currency, e.g. 120.50.
`
}

func (c *addAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Account name")
	f.StringVar(&c.kind, "type", "Checking", "Account kind (Checking, Savings, Investments, Credit Card, Loan, Mortgage, Other)")
	f.StringVar(&c.balance, "balance", "0", "Starting balance, decimal currency")
	f.IntVar(&c.rate, "rate", 0, "Interest rate in basis points")
	f.IntVar(&c.freq, "freq", models.CompoundMonthly, "Compounding frequency: 365 daily, 12 monthly, 1 annually")
}

func (c *addAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		return fail(fmt.Errorf("missing required flag: name"))
	}
	cents, err := models.ParseCents(c.balance)
	if err != nil {
		return fail(fmt.Errorf("invalid balance %q: %w", c.balance, err))
	}

	coord, db, err := openCoordinator()
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	kind := models.ParseAccountKind(c.kind)
	var account *models.Account
	if kind.IsAsset() {
		account = models.NewAssetAccount(c.name, kind, cents, true, models.AssetParams{
			InterestRate:         c.rate,
			CompoundingFrequency: c.freq,
		})
	} else {
		account = models.NewLiabilityAccount(c.name, kind, cents, false, models.LiabilityParams{
			InterestRate:         c.rate,
			CompoundingFrequency: c.freq,
		})
	}

	if err := coord.CreateAccount(account); err != nil {
		return fail(err)
	}
	fmt.Printf("Account %q created with id %d\n", c.name, account.ID())
	return subcommands.ExitSuccess
}

type addTxnCmd struct {
	account  int64
	amount   string
	withdraw bool
	kind     string
	category string
	name     string
	note     string
}

func (*addTxnCmd) Name() string     { return "add-txn" }
func (*addTxnCmd) Synopsis() string { return "record a deposit or withdrawal" }
func (*addTxnCmd) Usage() string {
	return `budgetctl add-txn -account <id> -amount <amount> [-withdraw] -name <label> [-type kind] [-category c] [-note text]

  Records a transaction. The amount is a decimal magnitude; -withdraw flips
  the direction. Asset and liability accounts apply opposite signs.
`
}

func (c *addTxnCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.account, "account", 0, "Account id")
	f.StringVar(&c.amount, "amount", "", "Amount, decimal currency, non-negative")
	f.BoolVar(&c.withdraw, "withdraw", false, "Record a withdrawal instead of a deposit")
	f.StringVar(&c.kind, "type", "Other", "Transaction kind")
	f.StringVar(&c.category, "category", "", "Category for Need or Want transactions")
	f.StringVar(&c.name, "name", "", "Short transaction label")
	f.StringVar(&c.note, "note", "", "Optional note")
}

func (c *addTxnCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if c.account == 0 || c.amount == "" || c.name == "" {
		return fail(fmt.Errorf("missing required flags: account, amount, name"))
	}
	magnitude, err := models.ParseCents(c.amount)
	if err != nil {
		return fail(fmt.Errorf("invalid amount %q: %w", c.amount, err))
	}
	if magnitude < 0 {
		return fail(fmt.Errorf("amount must be non-negative"))
	}

	coord, db, err := openCoordinator()
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	var rec *models.AccountRecord
	wallet := coord.Wallet()
	for i := range wallet {
		if wallet[i].ID == c.account {
			rec = &wallet[i]
			break
		}
	}
	if rec == nil {
		return fail(fmt.Errorf("account %d not found", c.account))
	}

	previous := rec.Balance
	next := models.BalanceAfter(previous, magnitude, !c.withdraw, rec.IsAsset)

	t := &models.Transaction{
		Amount:         next - previous,
		Kind:           models.ParseTransactionKind(c.kind),
		NeedCategory:   models.NeedOther,
		WantCategory:   models.WantOther,
		PreviousAmount: previous,
		NewAmount:      next,
		Date:           time.Now().Unix(),
		Name:           c.name,
		Note:           c.note,
	}
	t.SetCategory(c.category)

	if err := coord.CreateTransaction(c.account, t); err != nil {
		return fail(err)
	}
	fmt.Printf("Transaction %d recorded, new balance %s\n", t.ID, models.FormatCents(next))
	return subcommands.ExitSuccess
}

type transferCmd struct {
	from   int64
	to     int64
	amount string
	name   string
	note   string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move money between two accounts" }
func (*transferCmd) Usage() string {
	return `budgetctl transfer -from <id> -to <id> -amount <amount> [-name label] [-note text]

  Writes a linked pair of transaction rows, one per account, atomically.
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.from, "from", 0, "Source account id")
	f.Int64Var(&c.to, "to", 0, "Destination account id")
	f.StringVar(&c.amount, "amount", "", "Amount, decimal currency")
	f.StringVar(&c.name, "name", "Transfer", "Short transaction label")
	f.StringVar(&c.note, "note", "", "Optional note")
}

func (c *transferCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if c.from == 0 || c.to == 0 || c.amount == "" {
		return fail(fmt.Errorf("missing required flags: from, to, amount"))
	}
	if c.from == c.to {
		return fail(fmt.Errorf("transfer requires two distinct accounts"))
	}
	magnitude, err := models.ParseCents(c.amount)
	if err != nil {
		return fail(fmt.Errorf("invalid amount %q: %w", c.amount, err))
	}

	coord, db, err := openCoordinator()
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	template := &models.Transaction{
		Amount: magnitude,
		Kind:   models.InternalTransfer,
		Date:   time.Now().Unix(),
		Name:   c.name,
		Note:   c.note,
	}
	from, to, err := coord.CreateInternalTransfer(c.from, c.to, template)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Transferred %s: account %d -> %s, account %d -> %s\n",
		models.FormatCents(magnitude),
		from.AccountID, models.FormatCents(from.NewAmount),
		to.AccountID, models.FormatCents(to.NewAmount))
	return subcommands.ExitSuccess
}

type summaryCmd struct {
	account int64
	month   string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show a monthly in/out summary for an account" }
func (*summaryCmd) Usage() string {
	return `budgetctl summary -account <id> [-month YYYY-MM]

  Sums money in and money out over one calendar month (default: current).
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.account, "account", 0, "Account id")
	f.StringVar(&c.month, "month", "", "Month to summarize, YYYY-MM")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if c.account == 0 {
		return fail(fmt.Errorf("missing required flag: account"))
	}

	start := time.Now()
	if c.month != "" {
		var err error
		start, err = time.Parse("2006-01", c.month)
		if err != nil {
			return fail(fmt.Errorf("invalid month %q: %w", c.month, err))
		}
	}
	monthStart := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	coord, db, err := openCoordinator()
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	summary, err := coord.GetMonthlySummary(c.account, monthStart.Unix(), monthEnd.Unix())
	if err != nil {
		return fail(err)
	}
	fmt.Printf("%s\n", monthStart.Format("January 2006"))
	fmt.Printf("  money in:        %s\n", models.FormatCents(summary.MoneyIn))
	fmt.Printf("  money out:       %s\n", models.FormatCents(summary.MoneyOut))
	fmt.Printf("  money remaining: %s\n", models.FormatCents(summary.MoneyRemaining))
	return subcommands.ExitSuccess
}
