package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igaramadana/DataQu/internal/cache"
	"github.com/igaramadana/DataQu/internal/cart"
	"github.com/igaramadana/DataQu/internal/catalog"
	"github.com/igaramadana/DataQu/internal/checkout"
	"github.com/igaramadana/DataQu/internal/domain"
	"github.com/igaramadana/DataQu/internal/middleware"
	"github.com/igaramadana/DataQu/internal/recordstore"
	"github.com/igaramadana/DataQu/internal/session"
)

const testSecret = "test-secret"

// fakeRecordStore is an in-memory stand-in for the record store API
type fakeRecordStore struct {
	mu           sync.Mutex
	users        []domain.User
	packages     []domain.Package
	transactions []domain.Transaction
	failCreates  bool // make POST /transactions fail
}

func (f *fakeRecordStore) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if r.Method == http.MethodPost {
			var u domain.User
			_ = json.NewDecoder(r.Body).Decode(&u)
			u.ID = uuid.NewString()
			f.users = append(f.users, u)
			u.Password = ""
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(u)
			return
		}
		email := r.URL.Query().Get("email")
		password := r.URL.Query().Get("password")
		out := []domain.User{}
		for _, u := range f.users {
			if u.Email == email && (password == "" || u.Password == password) {
				u.Password = ""
				out = append(out, u)
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		id := strings.TrimPrefix(r.URL.Path, "/users/")
		var body map[string]int64
		_ = json.NewDecoder(r.Body).Decode(&body)
		for i := range f.users {
			if f.users[i].ID == id {
				f.users[i].Balance = body["balance"]
				_ = json.NewEncoder(w).Encode(f.users[i])
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/packages", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.packages)
	})
	mux.HandleFunc("/transactions", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if r.Method == http.MethodPost {
			if f.failCreates {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			var tx domain.Transaction
			_ = json.NewDecoder(r.Body).Decode(&tx)
			tx.ID = uuid.NewString()
			f.transactions = append(f.transactions, tx)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(tx)
			return
		}
		userID := r.URL.Query().Get("userId")
		out := []domain.Transaction{}
		for _, tx := range f.transactions {
			if tx.UserID == userID {
				out = append(out, tx)
			}
		}
		if r.URL.Query().Get("_order") == "desc" {
			sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	return mux
}

// newTestApp wires the full storefront router over a fake record store
func newTestApp(t *testing.T, fake *fakeRecordStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	store := recordstore.NewClient(srv.URL)
	mem := cache.NewMemory()
	sessions := session.NewStore(store, mem)
	carts := cart.NewManager()
	packages := catalog.NewService(store, cache.NewMemory())
	checkouts := checkout.NewManager(store, sessions)

	r := gin.New()
	r.POST("/auth/signup", SignupHandler(sessions, testSecret))
	r.POST("/auth/login", LoginHandler(sessions, testSecret))
	r.GET("/packages", ListPackagesHandler(packages))

	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware(testSecret))
	auth.POST("/auth/logout", LogoutHandler(sessions, carts, checkouts))
	auth.GET("/auth/me", MeHandler(sessions))
	auth.GET("/cart", GetCartHandler(carts))
	auth.POST("/cart/items", AddCartItemHandler(carts, packages))
	auth.DELETE("/cart/items/:id", RemoveCartItemHandler(carts))
	auth.DELETE("/cart", ClearCartHandler(carts))
	auth.POST("/checkout/preview", PreviewCheckoutHandler(sessions, carts, checkouts))
	auth.POST("/checkout/confirm", ConfirmCheckoutHandler(sessions, carts, checkouts))
	auth.POST("/checkout/cancel", CancelCheckoutHandler(checkouts))
	auth.GET("/transactions", ListTransactionsHandler(store))
	return r
}

func doJSON(r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var decoded map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func testCatalog() []domain.Package {
	return []domain.Package{
		{ID: "p1", Name: "Harian Hemat", Description: "Paket harian", Price: 5000, Quota: "1GB", Category: domain.CategoryDaily},
		{ID: "p2", Name: "Mingguan 5GB", Description: "Paket mingguan", Price: 25000, Quota: "5GB", Category: domain.CategoryWeekly},
		{ID: "p3", Name: "Bulanan Unlimited", Description: "Sebulan penuh", Price: 150000, Quota: "Unlimited", Category: domain.CategoryMonthly},
	}
}

func signup(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w, resp := doJSON(r, http.MethodPost, "/auth/signup", "", gin.H{
		"email": email, "password": "rahasia123", "name": "Budi", "phone": "0812000111",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return resp["token"].(string)
}

func TestSignupAndDuplicateEmail(t *testing.T) {
	fake := &fakeRecordStore{packages: testCatalog()}
	r := newTestApp(t, fake)

	w, resp := doJSON(r, http.MethodPost, "/auth/signup", "", gin.H{
		"email": "budi@example.com", "password": "rahasia123", "name": "Budi",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	user := resp["user"].(map[string]any)
	assert.Equal(t, float64(100000), user["balance"]) // fixed starting balance

	// Same email again always fails and mutates nothing
	w, _ = doJSON(r, http.MethodPost, "/auth/signup", "", gin.H{
		"email": "budi@example.com", "password": "lainnya99", "name": "Budi Kedua",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Len(t, fake.users, 1)
}

func TestLoginFailureCollapse(t *testing.T) {
	fake := &fakeRecordStore{packages: testCatalog()}
	r := newTestApp(t, fake)
	signup(t, r, "budi@example.com")

	wWrong, respWrong := doJSON(r, http.MethodPost, "/auth/login", "", gin.H{
		"email": "budi@example.com", "password": "salah-total",
	})
	wUnknown, respUnknown := doJSON(r, http.MethodPost, "/auth/login", "", gin.H{
		"email": "nobody@example.com", "password": "rahasia123",
	})

	// Wrong password and unknown email are indistinguishable
	assert.Equal(t, http.StatusUnauthorized, wWrong.Code)
	assert.Equal(t, http.StatusUnauthorized, wUnknown.Code)
	assert.Equal(t, respWrong["error"], respUnknown["error"])
}

func TestCatalogFilterParams(t *testing.T) {
	fake := &fakeRecordStore{packages: testCatalog()}
	r := newTestApp(t, fake)

	w, resp := doJSON(r, http.MethodGet, "/packages?q=5gb&category=weekly", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	packages := resp["packages"].([]any)
	require.Len(t, packages, 1)
	pkg := packages[0].(map[string]any)
	assert.Equal(t, "Mingguan 5GB", pkg["name"])
	assert.Equal(t, "Rp 25.000", pkg["priceLabel"])
}

func TestCartEndpoints(t *testing.T) {
	fake := &fakeRecordStore{packages: testCatalog()}
	r := newTestApp(t, fake)
	token := signup(t, r, "budi@example.com")

	// Adding the same package twice merges into one line
	doJSON(r, http.MethodPost, "/cart/items", token, gin.H{"packageId": "p2"})
	_, resp := doJSON(r, http.MethodPost, "/cart/items", token, gin.H{"packageId": "p2"})
	lines := resp["lines"].([]any)
	require.Len(t, lines, 1)
	assert.Equal(t, float64(2), lines[0].(map[string]any)["quantity"])
	assert.Equal(t, float64(50000), resp["total"])
	assert.Equal(t, float64(2), resp["count"])

	// Unknown packages are rejected
	w, _ := doJSON(r, http.MethodPost, "/cart/items", token, gin.H{"packageId": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Remove and clear
	_, resp = doJSON(r, http.MethodDelete, "/cart/items/p2", token, nil)
	assert.Equal(t, float64(0), resp["total"])
	doJSON(r, http.MethodPost, "/cart/items", token, gin.H{"packageId": "p1"})
	_, resp = doJSON(r, http.MethodDelete, "/cart", token, nil)
	assert.Equal(t, float64(0), resp["count"])
}

func TestCheckoutInsufficientBalanceSendsNoRequests(t *testing.T) {
	fake := &fakeRecordStore{packages: testCatalog()}
	r := newTestApp(t, fake)
	token := signup(t, r, "budi@example.com") // balance 100000

	doJSON(r, http.MethodPost, "/cart/items", token, gin.H{"packageId": "p3"}) // 150000

	w, resp := doJSON(r, http.MethodPost, "/checkout/preview", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp["error"], "Insufficient balance")
	assert.Empty(t, fake.transactions)

	// The cart is untouched by the failed preview
	_, resp = doJSON(r, http.MethodGet, "/cart", token, nil)
	assert.Equal(t, float64(1), resp["count"])
}

func TestCheckoutAtExactBalance(t *testing.T) {
	fake := &fakeRecordStore{packages: testCatalog()}
	r := newTestApp(t, fake)
	token := signup(t, r, "budi@example.com") // balance 100000

	// 25000 x4 = 100000, exactly the balance
	for i := 0; i < 4; i++ {
		doJSON(r, http.MethodPost, "/cart/items", token, gin.H{"packageId": "p2"})
	}

	w, resp := doJSON(r, http.MethodPost, "/checkout/preview", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := resp["summary"].(map[string]any)
	assert.Equal(t, float64(100000), summary["total"])
	assert.Equal(t, float64(0), summary["projectedBalance"])
	assert.Equal(t, "Rp 0", resp["projectedBalanceLabel"])

	w, resp = doJSON(r, http.MethodPost, "/checkout/confirm", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), resp["newBalance"])

	// One transaction for the single line, amount price x quantity
	require.Len(t, fake.transactions, 1)
	assert.Equal(t, int64(100000), fake.transactions[0].Amount)
	assert.Equal(t, domain.StatusCompleted, fake.transactions[0].Status)
	assert.Equal(t, domain.PaymentMethodBalance, fake.transactions[0].PaymentMethod)

	// Session balance and cart reflect the checkout
	_, resp = doJSON(r, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, float64(0), resp["user"].(map[string]any)["balance"])
	_, resp = doJSON(r, http.MethodGet, "/cart", token, nil)
	assert.Equal(t, float64(0), resp["count"])
}

func TestCheckoutCreatesOneTransactionPerLine(t *testing.T) {
	fake := &fakeRecordStore{packages: testCatalog()}
	r := newTestApp(t, fake)
	token := signup(t, r, "budi@example.com")

	doJSON(r, http.MethodPost, "/cart/items", token, gin.H{"packageId": "p1"}) // 5000
	doJSON(r, http.MethodPost, "/cart/items", token, gin.H{"packageId": "p2"}) // 25000
	doJSON(r, http.MethodPost, "/cart/items", token, gin.H{"packageId": "p2"}) // qty 2

	_, _ = doJSON(r, http.MethodPost, "/checkout/preview", token, nil)
	w, _ := doJSON(r, http.MethodPost, "/checkout/confirm", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, fake.transactions, 2)
	assert.Equal(t, int64(5000), fake.transactions[0].Amount)
	assert.Equal(t, int64(50000), fake.transactions[1].Amount)
	assert.Equal(t, int64(100000-55000), fake.users[0].Balance)
}

func TestCheckoutDeductionMatchesCommittedLines(t *testing.T) {
	fake := &fakeRecordStore{packages: testCatalog()}
	r := newTestApp(t, fake)
	token := signup(t, r, "budi@example.com") // balance 100000

	// Preview one package, then keep shopping before confirming
	doJSON(r, http.MethodPost, "/cart/items", token, gin.H{"packageId": "p1"}) // 5000
	_, _ = doJSON(r, http.MethodPost, "/checkout/preview", token, nil)
	doJSON(r, http.MethodPost, "/cart/items", token, gin.H{"packageId": "p2"}) // 25000

	w, resp := doJSON(r, http.MethodPost, "/checkout/confirm", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The deduction covers everything that was committed
	var committed int64
	for _, tx := range fake.transactions {
		committed += tx.Amount
	}
	assert.Equal(t, int64(30000), committed)
	assert.Equal(t, int64(100000-30000), fake.users[0].Balance)
	assert.Equal(t, float64(100000-30000), resp["newBalance"])
}

func TestCheckoutBackendFailureKeepsCart(t *testing.T) {
	fake := &fakeRecordStore{packages: testCatalog()}
	r := newTestApp(t, fake)
	token := signup(t, r, "budi@example.com")

	doJSON(r, http.MethodPost, "/cart/items", token, gin.H{"packageId": "p2"})
	_, _ = doJSON(r, http.MethodPost, "/checkout/preview", token, nil)

	fake.failCreates = true
	w, resp := doJSON(r, http.MethodPost, "/checkout/confirm", token, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "An error occurred. Please try again.", resp["error"])

	// Cart still populated, balance untouched
	_, resp = doJSON(r, http.MethodGet, "/cart", token, nil)
	assert.Equal(t, float64(1), resp["count"])
	_, resp = doJSON(r, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, float64(100000), resp["user"].(map[string]any)["balance"])
}

func TestTransactionHistoryNewestFirst(t *testing.T) {
	fake := &fakeRecordStore{packages: testCatalog()}
	r := newTestApp(t, fake)
	token := signup(t, r, "budi@example.com")
	userID := fake.users[0].ID

	now := time.Now()
	fake.transactions = []domain.Transaction{
		{ID: "t-old", UserID: userID, PackageName: "Harian Hemat", Amount: 5000, Status: domain.StatusCompleted, Date: now.Add(-time.Hour)},
		{ID: "t-new", UserID: userID, PackageName: "Mingguan 5GB", Amount: 25000, Status: domain.StatusCompleted, Date: now},
		{ID: "t-other", UserID: "someone-else", Amount: 999, Status: domain.StatusCompleted, Date: now},
	}

	w, resp := doJSON(r, http.MethodGet, "/transactions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	txs := resp["transactions"].([]any)
	require.Len(t, txs, 2)
	first := txs[0].(map[string]any)
	assert.Equal(t, "t-new", first["id"])
	assert.Equal(t, "Rp 25.000", first["amountLabel"])
	assert.Equal(t, "Berhasil", first["statusLabel"])
}

func TestLogoutDropsSessionAndCart(t *testing.T) {
	fake := &fakeRecordStore{packages: testCatalog()}
	r := newTestApp(t, fake)
	token := signup(t, r, "budi@example.com")

	doJSON(r, http.MethodPost, "/cart/items", token, gin.H{"packageId": "p1"})
	w, _ := doJSON(r, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The token still parses but the session is gone
	w, _ = doJSON(r, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Logging back in starts with an empty cart
	_, resp := doJSON(r, http.MethodPost, "/auth/login", "", gin.H{
		"email": "budi@example.com", "password": "rahasia123",
	})
	newToken, _ := resp["token"].(string)
	require.NotEmpty(t, newToken)
	_, resp = doJSON(r, http.MethodGet, "/cart", newToken, nil)
	assert.Equal(t, float64(0), resp["count"])
}

func TestConfirmWithoutPreview(t *testing.T) {
	fake := &fakeRecordStore{packages: testCatalog()}
	r := newTestApp(t, fake)
	token := signup(t, r, "budi@example.com")

	doJSON(r, http.MethodPost, "/cart/items", token, gin.H{"packageId": "p1"})
	w, _ := doJSON(r, http.MethodPost, "/checkout/confirm", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, fake.transactions)
}

func TestCancelKeepsCart(t *testing.T) {
	fake := &fakeRecordStore{packages: testCatalog()}
	r := newTestApp(t, fake)
	token := signup(t, r, fmt.Sprintf("budi%d@example.com", time.Now().UnixNano()))

	doJSON(r, http.MethodPost, "/cart/items", token, gin.H{"packageId": "p1"})
	_, _ = doJSON(r, http.MethodPost, "/checkout/preview", token, nil)
	w, _ := doJSON(r, http.MethodPost, "/checkout/cancel", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, resp := doJSON(r, http.MethodGet, "/cart", token, nil)
	assert.Equal(t, float64(1), resp["count"])

	// Confirm after cancel is rejected
	w, _ = doJSON(r, http.MethodPost, "/checkout/confirm", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
