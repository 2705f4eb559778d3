package models

// AssetParams holds the optional parameter block for asset accounts.
// InterestRate is a basis-point integer; CompoundingFrequency uses the
// days-per-period convention (365, 12 or 1).
type AssetParams struct {
	InterestRate         int `json:"interest_rate"`
	CompoundingFrequency int `json:"compounding_frequency"`
}

// LiabilityParams holds the optional parameter block for liability
// accounts. Monetary fields are integer cents; Term and RemainingTerm are
// months. These fields are informational only: nothing applies interest or
// enforces the credit limit.
type LiabilityParams struct {
	InterestRate         int   `json:"interest_rate"`
	CompoundingFrequency int   `json:"compounding_frequency"`
	Principal            int64 `json:"principal"`
	Term                 int   `json:"term"`
	MonthlyPayment       int64 `json:"monthly_payment"`
	RemainingBalance     int64 `json:"remaining_balance"`
	RemainingTerm        int   `json:"remaining_term"`
	RemainingInterest    int64 `json:"remaining_interest"`
	RemainingPrincipal   int64 `json:"remaining_principal"`
	RemainingTotal       int64 `json:"remaining_total"`
	CreditLimit          int64 `json:"credit_limit"`
	MinimumPayment       int64 `json:"minimum_payment"`
}

// Params is the tagged union of the two optional parameter blocks. An
// account holds nil, an AssetParams or a LiabilityParams, never both.
type Params interface {
	isParams()
}

func (AssetParams) isParams()     {}
func (LiabilityParams) isParams() {}

// Account is the in-memory account entity. The store assigns its id on
// creation; the initial balance is captured at construction and never
// changes afterwards.
type Account struct {
	id             int64
	name           string
	kind           AccountKind
	balance        int64
	initialBalance int64
	isAsset        bool
	params         Params
}

// NewAccount constructs an account with no parameter block.
func NewAccount(name string, kind AccountKind, balance int64, isAsset bool) *Account {
	return &Account{
		name:           name,
		kind:           kind,
		balance:        balance,
		initialBalance: balance,
		isAsset:        isAsset,
	}
}

// NewAssetAccount constructs an account with an asset parameter block.
func NewAssetAccount(name string, kind AccountKind, balance int64, isAsset bool, params AssetParams) *Account {
	a := NewAccount(name, kind, balance, isAsset)
	a.params = params
	return a
}

// NewLiabilityAccount constructs an account with a liability parameter block.
func NewLiabilityAccount(name string, kind AccountKind, balance int64, isAsset bool, params LiabilityParams) *Account {
	a := NewAccount(name, kind, balance, isAsset)
	a.params = params
	return a
}

func (a *Account) ID() int64             { return a.id }
func (a *Account) Name() string          { return a.name }
func (a *Account) Kind() AccountKind     { return a.kind }
func (a *Account) Balance() int64        { return a.balance }
func (a *Account) InitialBalance() int64 { return a.initialBalance }
func (a *Account) IsAsset() bool         { return a.isAsset }

// SetID records the store-assigned id. Called by the store on creation.
func (a *Account) SetID(id int64) { a.id = id }

// Modify replaces the name, kind and current balance. The parameter block
// and the initial balance are untouched; block replacement happens only
// through the store's modify operation.
func (a *Account) Modify(name string, kind AccountKind, balance int64) {
	a.name = name
	a.kind = kind
	a.balance = balance
}

func (a *Account) assetParams() (AssetParams, bool) {
	p, ok := a.params.(AssetParams)
	return p, ok
}

func (a *Account) liabilityParams() (LiabilityParams, bool) {
	p, ok := a.params.(LiabilityParams)
	return p, ok
}

// Parameter accessors return zero when the corresponding block is absent.
// Callers cannot distinguish "zero" from "absent"; that is intentional.

func (a *Account) AssetInterestRate() int {
	p, _ := a.assetParams()
	return p.InterestRate
}

func (a *Account) AssetCompoundingFrequency() int {
	p, _ := a.assetParams()
	return p.CompoundingFrequency
}

func (a *Account) LiabilityInterestRate() int {
	p, _ := a.liabilityParams()
	return p.InterestRate
}

func (a *Account) LiabilityCompoundingFrequency() int {
	p, _ := a.liabilityParams()
	return p.CompoundingFrequency
}

func (a *Account) Principal() int64 {
	p, _ := a.liabilityParams()
	return p.Principal
}

func (a *Account) Term() int {
	p, _ := a.liabilityParams()
	return p.Term
}

func (a *Account) MonthlyPayment() int64 {
	p, _ := a.liabilityParams()
	return p.MonthlyPayment
}

func (a *Account) RemainingBalance() int64 {
	p, _ := a.liabilityParams()
	return p.RemainingBalance
}

func (a *Account) RemainingTerm() int {
	p, _ := a.liabilityParams()
	return p.RemainingTerm
}

func (a *Account) RemainingInterest() int64 {
	p, _ := a.liabilityParams()
	return p.RemainingInterest
}

func (a *Account) RemainingPrincipal() int64 {
	p, _ := a.liabilityParams()
	return p.RemainingPrincipal
}

func (a *Account) RemainingTotal() int64 {
	p, _ := a.liabilityParams()
	return p.RemainingTotal
}

func (a *Account) CreditLimit() int64 {
	p, _ := a.liabilityParams()
	return p.CreditLimit
}

func (a *Account) MinimumPayment() int64 {
	p, _ := a.liabilityParams()
	return p.MinimumPayment
}

// InterestRate returns whichever block's rate is present, or zero.
func (a *Account) InterestRate() int {
	if a.isAsset {
		return a.AssetInterestRate()
	}
	return a.LiabilityInterestRate()
}

// CompoundingFrequency returns whichever block's frequency is present, or zero.
func (a *Account) CompoundingFrequency() int {
	if a.isAsset {
		return a.AssetCompoundingFrequency()
	}
	return a.LiabilityCompoundingFrequency()
}

// AccountRecord is the flat read-side row loaded from storage. Every
// parameter column is present; columns that do not apply to the account's
// block are zero.
type AccountRecord struct {
	ID                   int64       `json:"id"`
	Balance              int64       `json:"money_amount"`
	Name                 string      `json:"account_name"`
	Kind                 AccountKind `json:"account_type"`
	InitialBalance       int64       `json:"initial_money_amount"`
	IsAsset              bool        `json:"is_asset"`
	InterestRate         int         `json:"interest_rate"`
	CompoundingFrequency int         `json:"compounding_frequency"`
	Principal            int64       `json:"principal"`
	Term                 int         `json:"term"`
	MonthlyPayment       int64       `json:"monthly_payment"`
	RemainingBalance     int64       `json:"remaining_balance"`
	RemainingTerm        int         `json:"remaining_term"`
	RemainingInterest    int64       `json:"remaining_interest"`
	RemainingPrincipal   int64       `json:"remaining_principal"`
	RemainingTotal       int64       `json:"remaining_total"`
	CreditLimit          int64       `json:"credit_limit"`
	MinimumPayment       int64       `json:"minimum_payment"`
}
