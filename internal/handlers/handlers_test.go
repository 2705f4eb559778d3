package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mybudget/internal/models"
	"mybudget/internal/session"
	"mybudget/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type HandlersTestSuite struct {
	suite.Suite
	db     *storage.DB
	router chi.Router
}

func (suite *HandlersTestSuite) SetupTest() {
	db, err := storage.NewDB(":memory:")
	require.NoError(suite.T(), err)
	suite.db = db

	coord, err := session.NewCoordinator(db)
	require.NoError(suite.T(), err)

	h := NewHandlers(coord, zerolog.Nop())
	suite.router = h.Routes()
}

func (suite *HandlersTestSuite) TearDownTest() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *HandlersTestSuite) request(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(suite.T(), json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	require.NoError(suite.T(), json.NewDecoder(w.Body).Decode(v))
}

func (suite *HandlersTestSuite) createAccount(name, kind string, balance int64) models.AccountRecord {
	w := suite.request("POST", "/api/accounts", map[string]any{
		"account_name": name,
		"account_type": kind,
		"money_amount": balance,
	})
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	var rec models.AccountRecord
	suite.decode(w, &rec)
	return rec
}

func (suite *HandlersTestSuite) TestCreateAndListAccounts() {
	rec := suite.createAccount("Checking", "Checking", 12500)
	assert.NotZero(suite.T(), rec.ID)
	assert.Equal(suite.T(), models.Checking, rec.Kind)
	assert.Equal(suite.T(), int64(12500), rec.Balance)
	assert.True(suite.T(), rec.IsAsset)

	w := suite.request("GET", "/api/accounts", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var wallet []models.AccountRecord
	suite.decode(w, &wallet)
	require.Len(suite.T(), wallet, 1)
	assert.Equal(suite.T(), rec.ID, wallet[0].ID)
}

func (suite *HandlersTestSuite) TestCreateAccountWithAssetParams() {
	w := suite.request("POST", "/api/accounts", map[string]any{
		"account_name": "HYSA",
		"account_type": "Savings",
		"money_amount": 500000,
		"asset_params": map[string]any{
			"interest_rate":         420,
			"compounding_frequency": models.CompoundDaily,
		},
	})
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	var rec models.AccountRecord
	suite.decode(w, &rec)
	assert.Equal(suite.T(), 420, rec.InterestRate)
	assert.Equal(suite.T(), models.CompoundDaily, rec.CompoundingFrequency)
}

func (suite *HandlersTestSuite) TestCreateAccountRejectsBothParamBlocks() {
	w := suite.request("POST", "/api/accounts", map[string]any{
		"account_name":     "Confused",
		"account_type":     "Checking",
		"asset_params":     map[string]any{"interest_rate": 100},
		"liability_params": map[string]any{"interest_rate": 200},
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestCreateAccountValidation() {
	// Missing required account_name.
	w := suite.request("POST", "/api/accounts", map[string]any{
		"account_type": "Checking",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	// Malformed body.
	req := httptest.NewRequest("POST", "/api/accounts", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *HandlersTestSuite) TestUnknownAccountKindFallsBackToChecking() {
	rec := suite.createAccount("Weird", "Brokerage", 0)
	assert.Equal(suite.T(), models.Checking, rec.Kind)
	assert.True(suite.T(), rec.IsAsset)
}

func (suite *HandlersTestSuite) TestModifyAccount() {
	rec := suite.createAccount("Old", "Checking", 1000)

	w := suite.request("PUT", fmt.Sprintf("/api/accounts/%d", rec.ID), map[string]any{
		"account_name": "Car Loan",
		"account_type": "Loan",
		"money_amount": 800000,
		"params": map[string]any{
			"interest_rate": 799,
			"principal":     1000000,
			"term":          60,
		},
	})
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())
	var updated models.AccountRecord
	suite.decode(w, &updated)
	assert.Equal(suite.T(), "Car Loan", updated.Name)
	assert.Equal(suite.T(), models.Loan, updated.Kind)
	assert.False(suite.T(), updated.IsAsset)
	assert.Equal(suite.T(), 799, updated.InterestRate)
	assert.Equal(suite.T(), int64(1000000), updated.Principal)
}

func (suite *HandlersTestSuite) TestModifyUnknownAccount() {
	w := suite.request("PUT", "/api/accounts/9999", map[string]any{
		"account_name": "Ghost",
		"account_type": "Checking",
	})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestDeleteAccountIdempotent() {
	rec := suite.createAccount("Doomed", "Checking", 1000)

	w := suite.request("DELETE", fmt.Sprintf("/api/accounts/%d", rec.ID), nil)
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	// Second delete of the same id still succeeds.
	w = suite.request("DELETE", fmt.Sprintf("/api/accounts/%d", rec.ID), nil)
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	w = suite.request("GET", "/api/accounts", nil)
	var wallet []models.AccountRecord
	suite.decode(w, &wallet)
	assert.Empty(suite.T(), wallet)
}

func (suite *HandlersTestSuite) TestCreateTransactionAppliesSignRule() {
	asset := suite.createAccount("Checking", "Checking", 10000)
	card := suite.createAccount("Card", "Credit Card", 20000)

	// Withdrawal from an asset decreases the balance.
	w := suite.request("POST", fmt.Sprintf("/api/accounts/%d/transactions", asset.ID), map[string]any{
		"amount":           2500,
		"is_deposit":       false,
		"transaction_type": "Need",
		"category":         "Food",
		"transaction_name": "groceries",
	})
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	var t models.Transaction
	suite.decode(w, &t)
	assert.Equal(suite.T(), int64(-2500), t.Amount)
	assert.Equal(suite.T(), int64(10000), t.PreviousAmount)
	assert.Equal(suite.T(), int64(7500), t.NewAmount)
	assert.Equal(suite.T(), models.Need, t.Kind)
	assert.Equal(suite.T(), models.NeedFood, t.NeedCategory)

	// A payment (deposit) against a liability also decreases the balance.
	w = suite.request("POST", fmt.Sprintf("/api/accounts/%d/transactions", card.ID), map[string]any{
		"amount":           5000,
		"is_deposit":       true,
		"transaction_type": "Other",
		"transaction_name": "card payment",
	})
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	suite.decode(w, &t)
	assert.Equal(suite.T(), int64(-5000), t.Amount)
	assert.Equal(suite.T(), int64(15000), t.NewAmount)
}

func (suite *HandlersTestSuite) TestCreateTransactionUnknownAccount() {
	w := suite.request("POST", "/api/accounts/9999/transactions", map[string]any{
		"amount":           100,
		"is_deposit":       true,
		"transaction_type": "Income",
		"transaction_name": "pay",
	})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestCreateTransactionRejectsNegativeAmount() {
	rec := suite.createAccount("Wallet", "Checking", 1000)
	w := suite.request("POST", fmt.Sprintf("/api/accounts/%d/transactions", rec.ID), map[string]any{
		"amount":           -500,
		"is_deposit":       true,
		"transaction_type": "Income",
		"transaction_name": "pay",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestListAndDeleteTransactions() {
	rec := suite.createAccount("Wallet", "Checking", 0)

	w := suite.request("POST", fmt.Sprintf("/api/accounts/%d/transactions", rec.ID), map[string]any{
		"amount":           5000,
		"is_deposit":       true,
		"transaction_type": "Income",
		"transaction_name": "pay",
	})
	require.Equal(suite.T(), http.StatusCreated, w.Code)
	var t models.Transaction
	suite.decode(w, &t)

	w = suite.request("GET", fmt.Sprintf("/api/accounts/%d/transactions", rec.ID), nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var history []models.Transaction
	suite.decode(w, &history)
	require.Len(suite.T(), history, 1)

	w = suite.request("DELETE", fmt.Sprintf("/api/accounts/%d/transactions/%d", rec.ID, t.ID), nil)
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	// Balance is recomputed back to the initial value.
	w = suite.request("GET", "/api/accounts", nil)
	var wallet []models.AccountRecord
	suite.decode(w, &wallet)
	require.Len(suite.T(), wallet, 1)
	assert.Equal(suite.T(), int64(0), wallet[0].Balance)
}

func (suite *HandlersTestSuite) TestTransfer() {
	a := suite.createAccount("From", "Checking", 10000)
	b := suite.createAccount("To", "Savings", 3000)

	w := suite.request("POST", "/api/transfers", map[string]any{
		"from_account_id":  a.ID,
		"to_account_id":    b.ID,
		"amount":           2500,
		"transaction_name": "move savings",
	})
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	var resp TransferResponse
	suite.decode(w, &resp)
	assert.Equal(suite.T(), int64(7500), resp.From.NewAmount)
	assert.Equal(suite.T(), int64(5500), resp.To.NewAmount)
	assert.Equal(suite.T(), models.InternalTransfer, resp.From.Kind)
	assert.Equal(suite.T(), models.InternalTransfer, resp.To.Kind)

	w = suite.request("GET", "/api/accounts", nil)
	var wallet []models.AccountRecord
	suite.decode(w, &wallet)
	assert.Equal(suite.T(), int64(7500), wallet[0].Balance)
	assert.Equal(suite.T(), int64(5500), wallet[1].Balance)
}

func (suite *HandlersTestSuite) TestTransferSameAccountRejected() {
	a := suite.createAccount("Only", "Checking", 10000)
	w := suite.request("POST", "/api/transfers", map[string]any{
		"from_account_id":  a.ID,
		"to_account_id":    a.ID,
		"amount":           100,
		"transaction_name": "loop",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestTransferUnknownAccount() {
	a := suite.createAccount("From", "Checking", 10000)
	w := suite.request("POST", "/api/transfers", map[string]any{
		"from_account_id":  a.ID,
		"to_account_id":    9999,
		"amount":           100,
		"transaction_name": "void",
	})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	// Source balance is untouched.
	w = suite.request("GET", "/api/accounts", nil)
	var wallet []models.AccountRecord
	suite.decode(w, &wallet)
	assert.Equal(suite.T(), int64(10000), wallet[0].Balance)
}

func (suite *HandlersTestSuite) TestMonthlySummary() {
	rec := suite.createAccount("Wallet", "Checking", 0)

	monthStart := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC).Unix()
	monthEnd := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).Unix()

	write := func(amount int64, isDeposit bool) {
		w := suite.request("POST", fmt.Sprintf("/api/accounts/%d/transactions", rec.ID), map[string]any{
			"amount":           amount,
			"is_deposit":       isDeposit,
			"transaction_type": "Other",
			"transaction_name": "t",
			"transaction_date": monthStart + 3600,
		})
		require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	}
	write(5000, true)
	write(2000, false)
	write(1000, false)

	w := suite.request("GET",
		fmt.Sprintf("/api/accounts/%d/summary?start=%d&end=%d", rec.ID, monthStart, monthEnd), nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var resp SummaryResponse
	suite.decode(w, &resp)
	assert.Equal(suite.T(), int64(5000), resp.MoneyIn)
	assert.Equal(suite.T(), int64(3000), resp.MoneyOut)
	assert.Equal(suite.T(), int64(2000), resp.MoneyRemaining)
	assert.Equal(suite.T(), "$50.00", resp.MoneyInDisplay)
	assert.Equal(suite.T(), "$20.00", resp.MoneyRemainingDisplay)
}

func (suite *HandlersTestSuite) TestMonthlySummaryMissingRange() {
	rec := suite.createAccount("Wallet", "Checking", 0)
	w := suite.request("GET", fmt.Sprintf("/api/accounts/%d/summary", rec.ID), nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestStatisticsBucketsSpendingByCategory() {
	rec := suite.createAccount("Wallet", "Checking", 100000)

	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC).Unix()
	end := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).Unix()

	write := func(amount int64, isDeposit bool, kind, category string) {
		w := suite.request("POST", fmt.Sprintf("/api/accounts/%d/transactions", rec.ID), map[string]any{
			"amount":           amount,
			"is_deposit":       isDeposit,
			"transaction_type": kind,
			"category":         category,
			"transaction_name": "t",
			"transaction_date": start + 3600,
		})
		require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	}
	write(6000, false, "Need", "Food")
	write(2000, false, "Need", "Food")
	write(2000, false, "Want", "Shopping")
	write(50000, true, "Income", "") // deposits never count as spending

	w := suite.request("GET",
		fmt.Sprintf("/api/accounts/%d/statistics?start=%d&end=%d", rec.ID, start, end), nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var resp StatisticsResponse
	suite.decode(w, &resp)

	assert.Equal(suite.T(), int64(10000), resp.MoneyOut)
	require.Len(suite.T(), resp.Categories, 2)
	assert.Equal(suite.T(), "Food", resp.Categories[0].Category)
	assert.Equal(suite.T(), int64(8000), resp.Categories[0].Total)
	assert.Equal(suite.T(), 2, resp.Categories[0].Count)
	assert.InDelta(suite.T(), 80.0, resp.Categories[0].Percentage, 0.01)
	assert.Equal(suite.T(), "Shopping", resp.Categories[1].Category)
	assert.Equal(suite.T(), int64(2000), resp.Categories[1].Total)
}

func (suite *HandlersTestSuite) TestInvalidPathID() {
	w := suite.request("GET", "/api/accounts/zero/transactions", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.request("DELETE", "/api/accounts/-1", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
