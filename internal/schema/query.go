package schema

import (
	"net/url"
	"strconv"
)

// ParseProductQuery reads the listing parameters out of a query
// string. Non-numeric page/limit values come back negative so
// Validate rejects them instead of silently defaulting.
func ParseProductQuery(values url.Values) ProductQuery {
	q := ProductQuery{
		Search:    values.Get("search"),
		Category:  values.Get("category"),
		Status:    values.Get("status"),
		BrandID:   values.Get("brandId"),
		SortBy:    values.Get("sortBy"),
		SortOrder: values.Get("sortOrder"),
	}
	q.Page = parseIntParam(values.Get("page"))
	q.Limit = parseIntParam(values.Get("limit"))
	return q
}

func parseIntParam(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return -1
	}
	return n
}

// Encode renders the query back into URL parameters, omitting absent
// fields, so the gateway forwards exactly what it validated.
func (q ProductQuery) Encode() url.Values {
	values := url.Values{}
	set := func(key, val string) {
		if val != "" {
			values.Set(key, val)
		}
	}
	set("search", q.Search)
	set("category", q.Category)
	set("status", q.Status)
	set("brandId", q.BrandID)
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	set("sortBy", q.SortBy)
	set("sortOrder", q.SortOrder)
	return values
}
