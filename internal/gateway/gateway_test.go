package gateway

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ltgt/portal-gateway/internal/auth"
	"github.com/ltgt/portal-gateway/internal/schema"
	"github.com/ltgt/portal-gateway/internal/testutil/mockapi"
	"github.com/ltgt/portal-gateway/internal/upstream"
)

const testSecret = "gateway-test-secret"

type fixture struct {
	backend *mockapi.Server
	router  chi.Router
	tokens  *auth.TokenService
}

func newFixture(t *testing.T, opts ...upstream.Option) *fixture {
	t.Helper()
	backend := mockapi.New()
	t.Cleanup(backend.Close)

	tokens, err := auth.NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}

	clientOpts := append([]upstream.Option{upstream.WithTimeout(2 * time.Second)}, opts...)
	client := upstream.NewClient(backend.URL, clientOpts...)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(client, tokens, logger, &slog.LevelVar{})

	return &fixture{backend: backend, router: h.NewRouter(), tokens: tokens}
}

func (f *fixture) token(t *testing.T, role string) string {
	t.Helper()
	tok, err := f.tokens.Issue("u1", role, "user@portal.test", "User")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return tok
}

func (f *fixture) request(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to encode payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) ErrorEnvelope {
	t.Helper()
	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("body is not an envelope: %s", rec.Body.String())
	}
	return env
}

const validLoginBody = `{"accessToken":"backend-token","user":{"id":"u1","email":"a@b.co","name":"A","role":"ADMIN"}}`

func TestLoginTranslatesRole(t *testing.T) {
	f := newFixture(t)
	f.backend.Script(http.MethodPost, "/auth/login", http.StatusCreated, validLoginBody)

	rec := f.request(t, http.MethodPost, "/auth/login", "",
		schema.LoginRequest{Email: "a@b.co", Password: "secret1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		AccessToken string              `json:"accessToken"`
		User        schema.ExternalUser `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if resp.AccessToken != "backend-token" {
		t.Errorf("accessToken = %q", resp.AccessToken)
	}
	if resp.User.Role != "admin" {
		t.Errorf("role = %q, want external vocabulary admin", resp.User.Role)
	}
}

func TestLoginSupportRoleBecomesEmpleado(t *testing.T) {
	f := newFixture(t)
	f.backend.Script(http.MethodPost, "/auth/login", http.StatusCreated,
		`{"accessToken":"t","user":{"id":"u2","email":"s@b.co","name":"S","role":"SUPPORT"}}`)

	rec := f.request(t, http.MethodPost, "/auth/login", "",
		schema.LoginRequest{Email: "s@b.co", Password: "secret1"})
	if !strings.Contains(rec.Body.String(), `"empleado"`) {
		t.Errorf("SUPPORT not translated: %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "SUPPORT") {
		t.Errorf("authoritative vocabulary leaked: %s", rec.Body.String())
	}
}

func TestLoginValidationRunsBeforeForwarding(t *testing.T) {
	f := newFixture(t)
	// nothing scripted: a forwarded call would 404

	rec := f.request(t, http.MethodPost, "/auth/login", "",
		schema.LoginRequest{Email: "nope", Password: "x"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error != CodeValidation || len(env.Details) == 0 {
		t.Errorf("envelope: %+v", env)
	}
	if len(f.backend.Requests()) != 0 {
		t.Error("invalid request reached the backend")
	}
}

func TestLoginBackendErrorPropagatesVerbatim(t *testing.T) {
	f := newFixture(t)
	f.backend.Script(http.MethodPost, "/auth/login", http.StatusUnauthorized,
		`{"message":"Invalid credentials","error":"Unauthorized","statusCode":401}`)

	rec := f.request(t, http.MethodPost, "/auth/login", "",
		schema.LoginRequest{Email: "a@b.co", Password: "wrong-1"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Message != "Invalid credentials" || env.Error != "Unauthorized" {
		t.Errorf("envelope: %+v", env)
	}
}

func TestLoginContractDriftFailsClosed(t *testing.T) {
	f := newFixture(t)
	f.backend.Script(http.MethodPost, "/auth/login", http.StatusCreated,
		`{"user":{"id":"u1","email":"a@b.co","role":"ADMIN"}}`)

	rec := f.request(t, http.MethodPost, "/auth/login", "",
		schema.LoginRequest{Email: "a@b.co", Password: "secret1"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error != CodeInvalidResponse {
		t.Errorf("envelope: %+v", env)
	}
}

func TestLogoutIsLocal(t *testing.T) {
	f := newFixture(t)
	rec := f.request(t, http.MethodPost, "/auth/logout", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if len(f.backend.Requests()) != 0 {
		t.Error("logout reached the backend")
	}
}

func TestUnauthenticatedRejectedBeforeForwarding(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage token", "not-a-jwt"},
		{"wrong secret", mustIssueOther(t)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.request(t, http.MethodGet, "/products", tt.token, nil)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status %d, want 401", rec.Code)
			}
			if env := decodeEnvelope(t, rec); env.Error != CodeUnauthorized {
				t.Errorf("envelope: %+v", env)
			}
		})
	}
	if len(f.backend.Requests()) != 0 {
		t.Error("unauthenticated request reached the backend")
	}
}

func mustIssueOther(t *testing.T) string {
	t.Helper()
	other, err := auth.NewTokenService("some-other-secret")
	if err != nil {
		t.Fatal(err)
	}
	tok, err := other.Issue("u9", "ADMIN", "x@y.z", "X")
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestPermissionCheckedBeforeForwarding(t *testing.T) {
	f := newFixture(t)
	support := f.token(t, "SUPPORT")

	rec := f.request(t, http.MethodPost, "/products", support, schema.CreateProductRequest{
		Name: "X", Description: "d", SKU: "S", Price: 1, Status: "active",
		BrandID: "b", CategoryIDs: []string{"c"},
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error != CodeForbidden {
		t.Errorf("envelope: %+v", env)
	}
	if strings.Contains(rec.Body.String(), "ADMIN") {
		t.Errorf("403 leaks accepted roles: %s", rec.Body.String())
	}
	if len(f.backend.Requests()) != 0 {
		t.Error("forbidden request reached the backend")
	}
}

func TestListProductsForwardsTokenAndQuery(t *testing.T) {
	f := newFixture(t)
	admin := f.token(t, "ADMIN")
	f.backend.Script(http.MethodGet, "/products/list", http.StatusOK,
		`{"data":[],"meta":{"page":1,"limit":20,"total":0,"totalPages":0,"hasPrevPage":false,"hasNextPage":false}}`)

	rec := f.request(t, http.MethodGet, "/products?search=dell&status=active&page=2&limit=5", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}

	last := f.backend.LastRequest()
	if last == nil {
		t.Fatal("no backend request")
	}
	if last.Authorization != "Bearer "+admin {
		t.Errorf("Authorization = %q, want the caller's bearer", last.Authorization)
	}
	if !strings.Contains(last.RawQuery, "search=dell") || !strings.Contains(last.RawQuery, "page=2") {
		t.Errorf("query not forwarded: %q", last.RawQuery)
	}
}

func TestListProductsContractDriftFailsOpen(t *testing.T) {
	f := newFixture(t)
	admin := f.token(t, "ADMIN")
	// meta.page=0 violates the contract; body must still pass through
	drifted := `{"data":[{"id":"p1","name":"X","price":1}],"meta":{"page":0,"limit":20,"total":1}}`
	f.backend.Script(http.MethodGet, "/products/list", http.StatusOK, drifted)

	rec := f.request(t, http.MethodGet, "/products", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want fail-open 200", rec.Code)
	}
	var got, want any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	_ = json.Unmarshal([]byte(drifted), &want)
	gotJSON, _ := json.Marshal(got)
	wantJSON, _ := json.Marshal(want)
	if string(gotJSON) != string(wantJSON) {
		t.Errorf("body altered:\n%s\nwant\n%s", gotJSON, wantJSON)
	}
}

func TestListProductsInvalidQueryRejected(t *testing.T) {
	f := newFixture(t)
	admin := f.token(t, "ADMIN")

	for _, path := range []string{
		"/products?status=archived",
		"/products?sortBy=id",
		"/products?page=-1",
		"/products?limit=abc",
	} {
		rec := f.request(t, http.MethodGet, path, admin, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", path, rec.Code)
		}
	}
	if len(f.backend.Requests()) != 0 {
		t.Error("invalid query reached the backend")
	}
}

func TestTimeoutMapsTo408(t *testing.T) {
	f := newFixture(t, upstream.WithTimeout(50*time.Millisecond))
	admin := f.token(t, "ADMIN")
	f.backend.ScriptDelay(http.MethodGet, "/products/list", time.Second, http.StatusOK, `{}`)

	rec := f.request(t, http.MethodGet, "/products", admin, nil)
	if rec.Code != http.StatusRequestTimeout {
		t.Fatalf("status %d, want 408", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error != CodeTimeout {
		t.Errorf("envelope: %+v", env)
	}
}

func TestUnreachableBackendMapsTo502(t *testing.T) {
	f := newFixture(t)
	admin := f.token(t, "ADMIN")
	f.backend.Close()

	rec := f.request(t, http.MethodGet, "/products", admin, nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status %d, want 502", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error != CodeInternalError {
		t.Errorf("envelope: %+v", env)
	}
}

func TestMeStrictContract(t *testing.T) {
	f := newFixture(t)
	support := f.token(t, "SUPPORT")

	f.backend.Script(http.MethodGet, "/auth/me", http.StatusOK,
		`{"id":"u2","email":"s@b.co","name":"S","role":"SUPPORT","createdAt":"2026-01-15T09:00:00Z"}`)
	rec := f.request(t, http.MethodGet, "/auth/me", support, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	var user schema.ExternalUser
	_ = json.Unmarshal(rec.Body.Bytes(), &user)
	if user.Role != "empleado" {
		t.Errorf("role = %q, want empleado", user.Role)
	}
	if user.CreatedAt != "2026-01-15T09:00:00Z" {
		t.Errorf("createdAt reformatted: %q", user.CreatedAt)
	}

	f.backend.Script(http.MethodGet, "/auth/me", http.StatusOK, `{"name":"S"}`)
	rec = f.request(t, http.MethodGet, "/auth/me", support, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("drifted profile: status %d, want 500", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error != CodeInvalidResponse {
		t.Errorf("envelope: %+v", env)
	}
}

func TestRegisterTranslatesRoleInbound(t *testing.T) {
	f := newFixture(t)
	admin := f.token(t, "ADMIN")
	f.backend.Script(http.MethodPost, "/auth/register", http.StatusCreated,
		`{"id":"u3","email":"n@b.co","name":"N","role":"SUPPORT"}`)

	rec := f.request(t, http.MethodPost, "/auth/register", admin, map[string]string{
		"email": "n@b.co", "name": "New User", "password": "secret1", "role": "empleado",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	var user schema.ExternalUser
	_ = json.Unmarshal(rec.Body.Bytes(), &user)
	if user.Role != "empleado" {
		t.Errorf("response role = %q", user.Role)
	}

	bad := f.request(t, http.MethodPost, "/auth/register", admin, map[string]string{
		"email": "n@b.co", "name": "New User", "password": "secret1", "role": "superuser",
	})
	if bad.Code != http.StatusBadRequest {
		t.Errorf("unknown role: status %d, want 400", bad.Code)
	}

	support := f.token(t, "SUPPORT")
	denied := f.request(t, http.MethodPost, "/auth/register", support, map[string]string{
		"email": "n@b.co", "name": "New User", "password": "secret1", "role": "empleado",
	})
	if denied.Code != http.StatusForbidden {
		t.Errorf("support register: status %d, want 403", denied.Code)
	}
}

func TestProductWritePassthrough(t *testing.T) {
	f := newFixture(t)
	admin := f.token(t, "ADMIN")
	created := `{"id":"p9","name":"X","sku":"S-1","price":1,"status":"active"}`
	f.backend.Script(http.MethodPost, "/products/create", http.StatusCreated, created)

	rec := f.request(t, http.MethodPost, "/products", admin, schema.CreateProductRequest{
		Name: "X", Description: "d", SKU: "S-1", Price: 1, Status: "active",
		BrandID: "b1", CategoryIDs: []string{"c1"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	if strings.TrimSpace(rec.Body.String()) != created {
		t.Errorf("body altered: %s", rec.Body.String())
	}

	// invalid payload rejected locally
	bad := f.request(t, http.MethodPost, "/products", admin, schema.CreateProductRequest{Price: -1})
	if bad.Code != http.StatusBadRequest {
		t.Errorf("invalid create: status %d, want 400", bad.Code)
	}
}

func TestDeleteForwardsToBackendRoute(t *testing.T) {
	f := newFixture(t)
	admin := f.token(t, "ADMIN")
	f.backend.Script(http.MethodDelete, "/products/delete/p1", http.StatusOK, `{"message":"Product deleted"}`)

	rec := f.request(t, http.MethodDelete, "/products/p1", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	last := f.backend.LastRequest()
	if last == nil || last.Path != "/products/delete/p1" {
		t.Errorf("backend path: %+v", last)
	}
}

func TestTranslateRolesJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"singular", `{"role":"ADMIN"}`, `{"role":"admin"}`},
		{"array of users", `[{"role":"SUPPORT"},{"role":"ADMIN"}]`,
			`[{"role":"empleado"},{"role":"admin"}]`},
		{"nested", `{"user":{"role":"SUPPORT"},"items":[{"author":{"role":"ADMIN"}}]}`,
			`{"items":[{"author":{"role":"admin"}}],"user":{"role":"empleado"}}`},
		{"unknown role defaults", `{"role":"ROOT"}`, `{"role":"empleado"}`},
		{"non-string role untouched", `{"role":7}`, `{"role":7}`},
		{"dates untouched", `{"createdAt":"2026-01-15T09:00:00Z","role":"ADMIN"}`,
			`{"createdAt":"2026-01-15T09:00:00Z","role":"admin"}`},
		{"not json", `garbage`, `garbage`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslateRolesJSON([]byte(tt.in))
			if tt.name == "not json" {
				if string(got) != tt.want {
					t.Errorf("got %s", got)
				}
				return
			}
			var gotV, wantV any
			if err := json.Unmarshal(got, &gotV); err != nil {
				t.Fatalf("output not JSON: %s", got)
			}
			_ = json.Unmarshal([]byte(tt.want), &wantV)
			gotJSON, _ := json.Marshal(gotV)
			wantJSON, _ := json.Marshal(wantV)
			if string(gotJSON) != string(wantJSON) {
				t.Errorf("got %s, want %s", gotJSON, wantJSON)
			}
		})
	}
}
