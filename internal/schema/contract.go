package schema

import (
	"encoding/json"
	"fmt"
)

// Contract checks inspect backend response bodies before the gateway
// re-serializes them. They never fail the request themselves: each
// check returns the list of issues found and lets the caller decide
// whether that endpoint fails open or closed.

// CheckLoginResponse verifies a backend login body carries a token and
// a complete user. Login fails closed, so any issue here becomes an
// INVALID_RESPONSE for the client.
func CheckLoginResponse(body []byte) (LoginResponse, []string) {
	var resp LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return resp, []string{fmt.Sprintf("body is not valid JSON: %v", err)}
	}
	var issues []string
	if resp.AccessToken == "" {
		issues = append(issues, "accessToken: missing or empty")
	}
	issues = append(issues, checkUser(resp.User)...)
	return resp, issues
}

// CheckUser verifies a bare user body, as returned by /auth/me and
// /auth/register. Fails closed like login.
func CheckUser(body []byte) (BackendUser, []string) {
	var user BackendUser
	if err := json.Unmarshal(body, &user); err != nil {
		return user, []string{fmt.Sprintf("body is not valid JSON: %v", err)}
	}
	return user, checkUser(user)
}

func checkUser(u BackendUser) []string {
	var issues []string
	if u.ID == "" {
		issues = append(issues, "user.id: missing or empty")
	}
	if u.Email == "" {
		issues = append(issues, "user.email: missing or empty")
	}
	if u.Role == "" {
		issues = append(issues, "user.role: missing or empty")
	}
	return issues
}

// CheckProductList verifies a paginated product listing. The product
// listing fails open: when issues are reported the gateway passes the
// raw body through untranslated rather than blocking the page.
func CheckProductList(body []byte) (PaginatedProducts, []string) {
	var list PaginatedProducts
	if err := json.Unmarshal(body, &list); err != nil {
		return list, []string{fmt.Sprintf("body is not valid JSON: %v", err)}
	}
	var issues []string
	if list.Meta.Page < 1 {
		issues = append(issues, "meta.page: must be at least 1")
	}
	if list.Meta.Limit < 1 {
		issues = append(issues, "meta.limit: must be at least 1")
	}
	if list.Meta.Total < 0 {
		issues = append(issues, "meta.total: must not be negative")
	}
	if len(list.Data) > list.Meta.Limit && list.Meta.Limit >= 1 {
		issues = append(issues, fmt.Sprintf("data: %d items exceeds limit %d", len(list.Data), list.Meta.Limit))
	}
	for i, p := range list.Data {
		issues = append(issues, checkProduct(i, p)...)
	}
	return list, issues
}

func checkProduct(i int, p BackendProduct) []string {
	var issues []string
	field := func(name string) string { return fmt.Sprintf("data[%d].%s", i, name) }
	if p.ID == "" {
		issues = append(issues, field("id")+": missing or empty")
	}
	if p.Name == "" {
		issues = append(issues, field("name")+": missing or empty")
	}
	if p.Price < 0 {
		issues = append(issues, field("price")+": must not be negative")
	}
	if p.Status != "" && !validStatus(p.Status) {
		issues = append(issues, fmt.Sprintf("%s: unknown value %q", field("status"), p.Status))
	}
	return issues
}
