package api

import (
	"bytes"
	"encoding/json"
	"microvest/internal/domain"
	"microvest/internal/invest"
	"microvest/internal/payment"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testGateway signs with a fixed sandbox secret so tests can produce valid
// payment signatures
var testGateway = payment.NewGateway("key_sandbox", "sandbox-secret")

// setupRouter builds a router with an authenticated test user. Cache
// invalidation talks to a dead Redis address; those errors are ignored by
// design, so the handlers behave as in production.
func setupRouter(t *testing.T, db *gorm.DB, user *domain.User) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:1"})
	r.Use(func(c *gin.Context) {
		c.Set("userID", user.ID)      // Authenticated user
		c.Set("redisClient", rdb)     // Injected like the protected groups do
		c.Next()
	})
	r.POST("/invest", InvestHandler(db))
	r.POST("/transfer", CreateTransferHandler(db))
	r.POST("/create-order", CreateInvestOrderHandler(db, testGateway))
	r.POST("/verify-payment", VerifyInvestPaymentHandler(db, testGateway))
	r.POST("/wallet/create-order", CreateWalletOrderHandler(db, testGateway))
	r.POST("/wallet/verify-payment", VerifyWalletPaymentHandler(db, testGateway))
	return r
}

func testStore(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Transaction{},
		&domain.PortfolioOption{},
		&domain.PortfolioSelection{},
		&domain.Investment{},
		&domain.Milestone{},
		&domain.UserMilestone{},
		&domain.MoneyTransfer{},
		&domain.WalletDeposit{},
		&domain.InvestmentOrder{},
	))
	return db
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestInvestFromWalletInsufficientFunds(t *testing.T) {
	db := testStore(t)
	user := &domain.User{Email: "short@example.com", Password: "x", RiskProfile: domain.RiskMedium, WalletBalance: 100}
	require.NoError(t, db.Create(user).Error)
	r := setupRouter(t, db, user)

	w := postJSON(t, r, "/invest", gin.H{"amount": 150, "source": "wallet"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient funds")
	// Rejected with no partial effect: wallet unchanged, no rows created
	var fresh domain.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.InDelta(t, 100, fresh.WalletBalance, 1e-9)
	var count int64
	require.NoError(t, db.Model(&domain.Investment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestInvestFromRoundupsAcrossTwoSelections(t *testing.T) {
	db := testStore(t)
	user := &domain.User{Email: "saver@example.com", Password: "x", RiskProfile: domain.RiskMedium}
	require.NoError(t, db.Create(user).Error)
	// Roundup pool of 50, no prior roundup investments
	require.NoError(t, db.Create(&domain.Transaction{UserID: user.ID, Amount: 9.30, RoundupAmount: 50}).Error)
	options := []domain.PortfolioOption{
		{Name: "A", Symbol: "AAA", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, CurrentPrice: 100},
		{Name: "B", Symbol: "BBB", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, CurrentPrice: 200},
	}
	require.NoError(t, db.Create(&options).Error)
	for _, option := range options {
		require.NoError(t, db.Create(&domain.PortfolioSelection{UserID: user.ID, PortfolioOptionID: option.ID}).Error)
	}
	r := setupRouter(t, db, user)

	w := postJSON(t, r, "/invest", gin.H{"amount": 50, "source": "roundups"})

	assert.Equal(t, http.StatusOK, w.Code)
	var investments []domain.Investment
	require.NoError(t, db.Order("portfolio_option_id asc").Find(&investments).Error)
	require.Len(t, investments, 2)
	for _, inv := range investments {
		assert.InDelta(t, 25.00, inv.Amount, 1e-9)
		assert.Equal(t, domain.SourceRoundup, inv.Source)
	}
	assert.InDelta(t, 0.25, investments[0].Units, 1e-9)  // 25 / 100
	assert.InDelta(t, 0.125, investments[1].Units, 1e-9) // 25 / 200
}

func TestTransferDebitsWalletAndInvestsRoundups(t *testing.T) {
	db := testStore(t)
	user := &domain.User{Email: "sender@example.com", Password: "x", RiskProfile: domain.RiskMedium, WalletBalance: 200}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&domain.Transaction{UserID: user.ID, Amount: 4.50, RoundupAmount: 30}).Error)
	option := domain.PortfolioOption{Name: "A", Symbol: "AAA", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, CurrentPrice: 100}
	require.NoError(t, db.Create(&option).Error)
	require.NoError(t, db.Create(&domain.PortfolioSelection{UserID: user.ID, PortfolioOptionID: option.ID}).Error)
	r := setupRouter(t, db, user)

	w := postJSON(t, r, "/transfer", gin.H{
		"recipient_upi":     "friend@upi",
		"amount":            80,
		"roundup_to_invest": 20,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	// The wallet is debited by the transfer amount only
	var fresh domain.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.InDelta(t, 120, fresh.WalletBalance, 1e-9)
	// The bundled investment came from the roundup pool, linked to the transfer
	var transfer domain.MoneyTransfer
	require.NoError(t, db.First(&transfer).Error)
	var investments []domain.Investment
	require.NoError(t, db.Find(&investments).Error)
	require.Len(t, investments, 1)
	assert.InDelta(t, 20, investments[0].Amount, 1e-9)
	assert.Equal(t, domain.SourceRoundup, investments[0].Source)
	assert.Equal(t, "ROUNDUP_"+transfer.TransactionID, investments[0].PaymentID)
}

// The transfer's wallet debit and the bundled investment's roundup debit are
// independent checks: enough wallet money cannot paper over a short pool.
func TestTransferRoundupShortfallRollsBackEverything(t *testing.T) {
	db := testStore(t)
	user := &domain.User{Email: "sender@example.com", Password: "x", RiskProfile: domain.RiskMedium, WalletBalance: 500}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&domain.Transaction{UserID: user.ID, Amount: 4.50, RoundupAmount: 5}).Error)
	option := domain.PortfolioOption{Name: "A", Symbol: "AAA", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, CurrentPrice: 100}
	require.NoError(t, db.Create(&option).Error)
	require.NoError(t, db.Create(&domain.PortfolioSelection{UserID: user.ID, PortfolioOptionID: option.ID}).Error)
	r := setupRouter(t, db, user)

	w := postJSON(t, r, "/transfer", gin.H{
		"recipient_upi":     "friend@upi",
		"amount":            80,
		"roundup_to_invest": 20, // pool only holds 5
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	// No partial effect: wallet untouched, no transfer, no investment
	var fresh domain.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.InDelta(t, 500, fresh.WalletBalance, 1e-9)
	var transfers, investments int64
	require.NoError(t, db.Model(&domain.MoneyTransfer{}).Count(&transfers).Error)
	require.NoError(t, db.Model(&domain.Investment{}).Count(&investments).Error)
	assert.Zero(t, transfers)
	assert.Zero(t, investments)
}

func TestGatewayInvestOrderAndVerifyAllocates(t *testing.T) {
	db := testStore(t)
	user := &domain.User{Email: "direct@example.com", Password: "x", RiskProfile: domain.RiskMedium}
	require.NoError(t, db.Create(user).Error)
	// Pool of 100 accrued round-ups; gateway investments count against it
	require.NoError(t, db.Create(&domain.Transaction{UserID: user.ID, Amount: 9.30, RoundupAmount: 100}).Error)
	option := domain.PortfolioOption{Name: "A", Symbol: "AAA", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, CurrentPrice: 120}
	require.NoError(t, db.Create(&option).Error)
	require.NoError(t, db.Create(&domain.PortfolioSelection{UserID: user.ID, PortfolioOptionID: option.ID}).Error)
	r := setupRouter(t, db, user)

	w := postJSON(t, r, "/create-order", gin.H{"amount": 60})
	require.Equal(t, http.StatusOK, w.Code)
	var order payment.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, int64(6000), order.Amount) // Paise

	w = postJSON(t, r, "/verify-payment", gin.H{
		"order_id":   order.OrderID,
		"payment_id": "pay_direct1",
		"signature":  testGateway.Sign(order.OrderID, "pay_direct1"),
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var investments []domain.Investment
	require.NoError(t, db.Find(&investments).Error)
	require.Len(t, investments, 1)
	assert.InDelta(t, 60, investments[0].Amount, 1e-9)
	assert.InDelta(t, 0.5, investments[0].Units, 1e-9) // 60 / 120
	assert.Equal(t, domain.SourceGateway, investments[0].Source)
	assert.Equal(t, "pay_direct1", investments[0].PaymentID)
	// Gateway-funded rows drain the displayed roundup pool like roundup ones
	available, err := invest.AvailableRoundups(db, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 40, available, 1e-9)
	var completed domain.InvestmentOrder
	require.NoError(t, db.First(&completed).Error)
	assert.Equal(t, domain.StatusSuccess, completed.Status)
}

func TestGatewayInvestVerifyRejectsBadSignatureAndReplay(t *testing.T) {
	db := testStore(t)
	user := &domain.User{Email: "direct@example.com", Password: "x", RiskProfile: domain.RiskMedium}
	require.NoError(t, db.Create(user).Error)
	option := domain.PortfolioOption{Name: "A", Symbol: "AAA", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, CurrentPrice: 120}
	require.NoError(t, db.Create(&option).Error)
	require.NoError(t, db.Create(&domain.PortfolioSelection{UserID: user.ID, PortfolioOptionID: option.ID}).Error)
	r := setupRouter(t, db, user)

	w := postJSON(t, r, "/create-order", gin.H{"amount": 60})
	require.Equal(t, http.StatusOK, w.Code)
	var order payment.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))

	// A tampered signature allocates nothing
	w = postJSON(t, r, "/verify-payment", gin.H{
		"order_id":   order.OrderID,
		"payment_id": "pay_direct1",
		"signature":  testGateway.Sign(order.OrderID, "pay_other"),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var count int64
	require.NoError(t, db.Model(&domain.Investment{}).Count(&count).Error)
	assert.Zero(t, count)

	// A valid verify allocates once; replaying it must not allocate again
	verify := gin.H{
		"order_id":   order.OrderID,
		"payment_id": "pay_direct1",
		"signature":  testGateway.Sign(order.OrderID, "pay_direct1"),
	}
	w = postJSON(t, r, "/verify-payment", verify)
	require.Equal(t, http.StatusOK, w.Code)
	w = postJSON(t, r, "/verify-payment", verify)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already processed")
	require.NoError(t, db.Model(&domain.Investment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestWalletVerifyReplayCreditsOnce(t *testing.T) {
	db := testStore(t)
	user := &domain.User{Email: "topup@example.com", Password: "x", RiskProfile: domain.RiskMedium}
	require.NoError(t, db.Create(user).Error)
	r := setupRouter(t, db, user)

	w := postJSON(t, r, "/wallet/create-order", gin.H{"amount": 250})
	require.Equal(t, http.StatusOK, w.Code)
	var order payment.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))

	verify := gin.H{
		"order_id":   order.OrderID,
		"payment_id": "pay_topup1",
		"signature":  testGateway.Sign(order.OrderID, "pay_topup1"),
	}
	w = postJSON(t, r, "/wallet/verify-payment", verify)
	require.Equal(t, http.StatusOK, w.Code)
	// Replaying the same valid verify must not credit the wallet again
	w = postJSON(t, r, "/wallet/verify-payment", verify)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already processed")
	var fresh domain.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.InDelta(t, 250, fresh.WalletBalance, 1e-9)
}

// Mutations must survive a context without a Redis client; invalidation is
// best-effort
func TestInvestWithoutRedisClientDoesNotPanic(t *testing.T) {
	db := testStore(t)
	user := &domain.User{Email: "noredis@example.com", Password: "x", RiskProfile: domain.RiskMedium, WalletBalance: 100}
	require.NoError(t, db.Create(user).Error)
	option := domain.PortfolioOption{Name: "A", Symbol: "AAA", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, CurrentPrice: 100}
	require.NoError(t, db.Create(&option).Error)
	require.NoError(t, db.Create(&domain.PortfolioSelection{UserID: user.ID, PortfolioOptionID: option.ID}).Error)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", user.ID) // Authenticated, but no redisClient in context
		c.Next()
	})
	r.POST("/invest", InvestHandler(db))

	w := postJSON(t, r, "/invest", gin.H{"amount": 50, "source": "wallet"})

	assert.Equal(t, http.StatusOK, w.Code)
	var fresh domain.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.InDelta(t, 50, fresh.WalletBalance, 1e-9)
}
