package logging

import (
	"encoding/json"
	"testing"
)

func TestMaskHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		value  string
		want   string
	}{
		{"authorization keeps tail", "Authorization", "Bearer abcdef1234", "****1234"},
		{"authorization short", "Authorization", "ab", "****"},
		{"password header", "X-Password", "hunter2", "[REDACTED]"},
		{"secret header", "X-Jwt-Secret", "sssh", "[REDACTED]"},
		{"plain header", "Content-Type", "application/json", "application/json"},
		{"case insensitive", "AUTHORIZATION", "Bearer abcdef1234", "****1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskHeader(tt.header, tt.value); got != tt.want {
				t.Errorf("MaskHeader(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestMaskJSONBody(t *testing.T) {
	body := []byte(`{"email":"a@b.co","password":"hunter2","profile":{"accessToken":"tok","name":"A"}}`)
	masked := MaskJSONBody(body)

	var data map[string]any
	if err := json.Unmarshal(masked, &data); err != nil {
		t.Fatalf("masked body not JSON: %v", err)
	}
	if data["password"] != "[REDACTED]" {
		t.Errorf("password not redacted: %v", data["password"])
	}
	if data["email"] != "a@b.co" {
		t.Errorf("email changed: %v", data["email"])
	}
	profile := data["profile"].(map[string]any)
	if profile["accessToken"] != "[REDACTED]" {
		t.Errorf("nested accessToken not redacted: %v", profile["accessToken"])
	}
	if profile["name"] != "A" {
		t.Errorf("nested name changed: %v", profile["name"])
	}
}

func TestMaskJSONBodyArrays(t *testing.T) {
	body := []byte(`[{"password":"x"},{"name":"ok"}]`)
	masked := MaskJSONBody(body)

	var data []map[string]any
	if err := json.Unmarshal(masked, &data); err != nil {
		t.Fatalf("masked body not JSON: %v", err)
	}
	if data[0]["password"] != "[REDACTED]" || data[1]["name"] != "ok" {
		t.Errorf("array masking wrong: %v", data)
	}
}

func TestMaskJSONBodyPassthrough(t *testing.T) {
	if got := MaskJSONBody(nil); got != nil {
		t.Errorf("nil body changed: %v", got)
	}
	raw := []byte(`not json at all`)
	if got := MaskJSONBody(raw); string(got) != string(raw) {
		t.Errorf("unparseable body changed: %s", got)
	}
}
