package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/ltgt/portal-gateway/internal/schema"
)

func TestLoginSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req schema.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		if req.Email != "a@b.co" {
			t.Errorf("email = %q", req.Email)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not carry a bearer token")
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"accessToken":"tok","user":{"id":"u1","email":"a@b.co","role":"ADMIN"}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	body, err := c.Login(context.Background(), schema.LoginRequest{Email: "a@b.co", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	resp, issues := schema.CheckLoginResponse(body)
	if len(issues) != 0 || resp.AccessToken != "tok" {
		t.Fatalf("unexpected body: %s (%v)", body, issues)
	}
}

func TestBearerForwarding(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	if _, err := c.Me(context.Background(), "abc.def.ghi"); err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if got != "Bearer abc.def.ghi" {
		t.Errorf("Authorization = %q, want forwarded bearer", got)
	}
}

func TestListProductsQueryEncoding(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/list" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data":[],"meta":{"page":1,"limit":20,"total":0}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	q := schema.ProductQuery{Search: "dell", Status: "active", Page: 2, Limit: 10}
	if _, err := c.ListProducts(context.Background(), "tok", q); err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	parsed := schema.ParseProductQuery(mustParseQuery(t, gotQuery))
	if parsed != q {
		t.Errorf("forwarded query %+v, want %+v", parsed, q)
	}
}

func TestBackendErrorPropagation(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantCode    string
		wantMessage string
	}{
		{"shaped error", 404, `{"message":"Product not found","error":"Not Found","statusCode":404}`,
			"Not Found", "Product not found"},
		{"array message", 400, `{"message":["name is required","price must be positive"],"error":"Bad Request"}`,
			"Bad Request", "name is required; price must be positive"},
		{"unshaped body", 502, `<html>bad gateway</html>`, "BACKEND_ERROR", "Error communicating with backend"},
		{"empty body", 500, ``, "BACKEND_ERROR", "Error communicating with backend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewClient(server.URL)
			_, err := c.GetProduct(context.Background(), "tok", "p1")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("got %v, want *APIError", err)
			}
			if apiErr.StatusCode != tt.status || apiErr.Code != tt.wantCode || apiErr.Message != tt.wantMessage {
				t.Errorf("got %+v", apiErr)
			}
		})
	}
}

func TestStatusSentinels(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{401, ErrUnauthorized},
		{403, ErrForbidden},
		{404, ErrNotFound},
	}
	for _, tt := range tests {
		err := error(parseError(tt.status, nil))
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: errors.Is(%v, %v) = false", tt.status, err, tt.want)
		}
	}
	if err := error(parseError(500, nil)); errors.Is(err, ErrNotFound) {
		t.Error("500 must not match ErrNotFound")
	}
}

func TestTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	c := NewClient(server.URL, WithTimeout(50*time.Millisecond))
	_, err := c.Me(context.Background(), "tok")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("got %v, want ErrTimeout", err)
	}
}

func TestUnreachableBackend(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", WithTimeout(time.Second))
	_, err := c.Me(context.Background(), "tok")
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("got %v, want ErrUnreachable", err)
	}
}

func mustParseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	values, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("bad query %q: %v", raw, err)
	}
	return values
}
