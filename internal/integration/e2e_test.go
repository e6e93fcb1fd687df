//go:build integration

package integration

// e2e_test.go
// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/integration/... -v
//
// Covered flows:
//   - Full counter cycle: login → create product → sale → stock decremented
//   - Oversell rejected with 409 and stock untouched
//   - Stock-in then report reflects the sale
//   - Delete blocked for a product with sale history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"dailymart/internal/config"
	"dailymart/internal/infra"
	"dailymart/internal/router"
	"dailymart/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("dailymart_test"),
		tcPostgres.WithUsername("dailymart"),
		tcPostgres.WithPassword("dailymart"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		StoreName:          "Daily Mart Test",
		ReceiptStoragePath: t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("admin1234"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO users (username, name, password_hash, role)
		VALUES ('admin', 'Admin E2E', ?, 'admin')
		ON CONFLICT DO NOTHING`, string(hash)).Error)

	dispatcher := worker.NewDispatcher(rdb)
	r := router.New(cfg, db, rdb, dispatcher)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "admin1234"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func createProduct(t *testing.T, env *testEnv, barcode, name string, sell float64, qty int) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{
			"barcode":    barcode,
			"name":       name,
			"category":   "Snacks",
			"buy_price":  sell / 2,
			"sell_price": sell,
			"quantity":   qty,
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullSaleCycle(t *testing.T) {
	env := setupTestEnv(t)
	id := createProduct(t, env, "7890001000001", "Cola 500ml", 40, 20)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"items":          []map[string]any{{"barcode": "7890001000001", "quantity": 3}},
			"payment_method": "cash",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		BillNumber  string `json:"bill_number"`
		FinalAmount string `json:"final_amount"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Regexp(t, `^BILL-\d{8}-0001$`, sale.BillNumber)
	assert.Equal(t, "120", sale.FinalAmount)

	// Stock decremented
	prodResp := do(t, env.server, "GET", "/v1/products/"+id, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod struct {
		Quantity int `json:"quantity"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 17, prod.Quantity)

	// Sale retrievable by bill number
	billResp := do(t, env.server, "GET", "/v1/sales/bill/"+sale.BillNumber, nil, env.token)
	require.Equal(t, http.StatusOK, billResp.StatusCode)
}

func TestE2E_OversellRejected(t *testing.T) {
	env := setupTestEnv(t)
	id := createProduct(t, env, "7890001000002", "Chips", 20, 2)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"items":          []map[string]any{{"barcode": "7890001000002", "quantity": 5}},
			"payment_method": "cash",
		}),
		env.token,
	)
	require.Equal(t, http.StatusConflict, saleResp.StatusCode)
	var body struct {
		Kind      string `json:"kind"`
		Available int    `json:"available"`
		Requested int    `json:"requested"`
	}
	decodeJSON(t, saleResp, &body)
	assert.Equal(t, "insufficient_stock", body.Kind)
	assert.Equal(t, 2, body.Available)
	assert.Equal(t, 5, body.Requested)

	prodResp := do(t, env.server, "GET", "/v1/products/"+id, nil, env.token)
	var prod struct {
		Quantity int `json:"quantity"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 2, prod.Quantity)
}

func TestE2E_StockInAndDailyReport(t *testing.T) {
	env := setupTestEnv(t)
	id := createProduct(t, env, "7890001000003", "Biscuits", 30, 0)

	inResp := do(t, env.server, "POST", "/v1/stock/in",
		jsonBody(t, map[string]any{"product_id": id, "quantity": 10, "notes": "opening stock"}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, inResp.StatusCode)
	var in struct {
		NewQuantity int `json:"new_quantity"`
	}
	decodeJSON(t, inResp, &in)
	assert.Equal(t, 10, in.NewQuantity)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"items":          []map[string]any{{"barcode": "7890001000003", "quantity": 2}},
			"payment_method": "upi",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)

	reportResp := do(t, env.server, "GET", "/v1/reports/daily", nil, env.token)
	require.Equal(t, http.StatusOK, reportResp.StatusCode)
	var report struct {
		Summary struct {
			TotalBills int64  `json:"total_bills"`
			NetSales   string `json:"net_sales"`
		} `json:"summary"`
	}
	decodeJSON(t, reportResp, &report)
	assert.Equal(t, int64(1), report.Summary.TotalBills)
	assert.Equal(t, "60", report.Summary.NetSales)
}

func TestE2E_DeleteBlockedByHistory(t *testing.T) {
	env := setupTestEnv(t)
	id := createProduct(t, env, "7890001000004", "Soap", 25, 5)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"items":          []map[string]any{{"barcode": "7890001000004", "quantity": 1}},
			"payment_method": "card",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)

	delResp := do(t, env.server, "DELETE", fmt.Sprintf("/v1/products/%s", id), nil, env.token)
	require.Equal(t, http.StatusConflict, delResp.StatusCode)
	var body struct {
		Kind      string `json:"kind"`
		SaleCount int64  `json:"sale_count"`
	}
	decodeJSON(t, delResp, &body)
	assert.Equal(t, "product_in_use", body.Kind)
	assert.Equal(t, int64(1), body.SaleCount)

	// Deactivation still works.
	deactResp := do(t, env.server, "PATCH", "/v1/products/"+id+"/deactivate", nil, env.token)
	require.Equal(t, http.StatusNoContent, deactResp.StatusCode)
}
