package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ltgt/portal-gateway/internal/api"
	"github.com/ltgt/portal-gateway/internal/auth"
	"github.com/ltgt/portal-gateway/internal/gateway"
	"github.com/ltgt/portal-gateway/internal/store"
	"github.com/ltgt/portal-gateway/internal/upstream"
)

const (
	testSecret      = "e2e-shared-secret"
	adminEmail      = "admin@portal.test"
	adminPassword   = "admin-pass-123"
	supportEmail    = "support@portal.test"
	supportPassword = "support-pass-123"
)

// env wires a real backend API (in-memory SQLite) behind a real gateway,
// both on httptest listeners. All assertions go through the gateway URL,
// the way a browser client would.
type env struct {
	gatewayURL string
	store      *store.SQLiteStore
	tokens     *auth.TokenService

	brands     map[string]string // name -> id
	categories map[string]string // name -> id
}

func setup(t *testing.T) *env {
	t.Helper()

	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tokens, err := auth.NewTokenService(testSecret)
	require.NoError(t, err)

	logLevel := &slog.LevelVar{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	apiHandler := api.NewHandler(st, tokens, logger, logLevel)
	apiServer := httptest.NewServer(apiHandler.NewRouter())
	t.Cleanup(apiServer.Close)

	client := upstream.NewClient(apiServer.URL)
	gwHandler := gateway.NewHandler(client, tokens, logger, logLevel)
	gwServer := httptest.NewServer(gwHandler.NewRouter())
	t.Cleanup(gwServer.Close)

	e := &env{
		gatewayURL: gwServer.URL,
		store:      st,
		tokens:     tokens,
		brands:     map[string]string{},
		categories: map[string]string{},
	}
	e.seed(t)
	return e
}

// seed loads the catalog fixture: two users, three brands, four
// categories and eight products. Three products belong to the Dell
// brand so brand-name search has both hits and misses to distinguish.
func (e *env) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	adminHash, err := auth.HashPassword(adminPassword)
	require.NoError(t, err)
	supportHash, err := auth.HashPassword(supportPassword)
	require.NoError(t, err)
	users := []*store.User{
		{Email: adminEmail, Name: "Admin", PasswordHash: adminHash, Role: "ADMIN"},
		{Email: supportEmail, Name: "Support", PasswordHash: supportHash, Role: "SUPPORT"},
	}
	for _, u := range users {
		require.NoError(t, e.store.CreateUser(ctx, u))
	}

	for _, name := range []string{"Dell", "Logitech", "Samsung"} {
		b := &store.Brand{Name: name}
		require.NoError(t, e.store.CreateBrand(ctx, b))
		e.brands[name] = b.ID
	}
	for _, name := range []string{"Laptops", "Peripherals", "Monitors", "Accessories"} {
		c := &store.Category{Name: name}
		require.NoError(t, e.store.CreateCategory(ctx, c))
		e.categories[name] = c.ID
	}

	products := []struct {
		name, sku, status, brand string
		price                    string
		stock                    int
		cats                     []string
	}{
		{"Latitude 5520", "DL-5520", "active", "Dell", "899.99", 12, []string{"Laptops"}},
		{"XPS 13", "DL-XPS13", "active", "Dell", "1299.00", 5, []string{"Laptops"}},
		{"UltraSharp 27", "DL-U2723", "active", "Dell", "449.00", 9, []string{"Monitors"}},
		{"MX Master 3", "LG-MXM3", "active", "Logitech", "99.90", 40, []string{"Peripherals"}},
		{"K120 Keyboard", "LG-K120", "discontinued", "Logitech", "14.50", 0, []string{"Peripherals"}},
		{"Brio Webcam", "LG-BRIO", "inactive", "Logitech", "199.00", 7, []string{"Peripherals", "Accessories"}},
		{"Odyssey G7", "SM-G7", "active", "Samsung", "649.99", 3, []string{"Monitors"}},
		{"T7 Portable SSD", "SM-T7", "active", "Samsung", "119.99", 25, []string{"Accessories"}},
	}
	for _, p := range products {
		price, err := decimal.NewFromString(p.price)
		require.NoError(t, err)
		var catIDs []string
		for _, c := range p.cats {
			catIDs = append(catIDs, e.categories[c])
		}
		prod := &store.Product{
			Name:    p.name,
			SKU:     p.sku,
			Price:   price,
			Stock:   p.stock,
			Status:  p.status,
			BrandID: e.brands[p.brand],
		}
		require.NoError(t, e.store.CreateProduct(ctx, prod, catIDs))
	}
}

// do issues a request against the gateway. payload is JSON-encoded when
// non-nil; token is attached as a bearer when non-empty.
func (e *env) do(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, e.gatewayURL+path, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// decode closes the response body and unmarshals it into out.
func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
}

// readBody closes the response body and returns it raw.
func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return raw
}

// loginResult is the gateway's login payload as clients see it.
type loginResult struct {
	AccessToken string `json:"accessToken"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	} `json:"user"`
}

// login authenticates through the gateway and returns the result.
func (e *env) login(t *testing.T, email, password string) loginResult {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out loginResult
	decode(t, resp, &out)
	require.NotEmpty(t, out.AccessToken)
	return out
}

// productPage mirrors the paginated listing body.
type productPage struct {
	Data []struct {
		ID     string  `json:"id"`
		Name   string  `json:"name"`
		SKU    string  `json:"sku"`
		Price  float64 `json:"price"`
		Status string  `json:"status"`
		Brand  struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"brand"`
	} `json:"data"`
	Meta struct {
		Page        int  `json:"page"`
		Limit       int  `json:"limit"`
		Total       int  `json:"total"`
		TotalPages  int  `json:"totalPages"`
		HasPrevPage bool `json:"hasPrevPage"`
		HasNextPage bool `json:"hasNextPage"`
	} `json:"meta"`
}

// listProducts fetches one page of the catalog through the gateway.
func (e *env) listProducts(t *testing.T, token, query string) productPage {
	t.Helper()
	path := "/products"
	if query != "" {
		path += "?" + query
	}
	resp := e.do(t, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page productPage
	decode(t, resp, &page)
	return page
}
