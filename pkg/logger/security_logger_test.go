package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestSecurityLogger_MaskSensitiveData(t *testing.T) {
	sl := NewSecurityLogger(Nop())

	masked := sl.MaskSensitiveData(map[string]interface{}{
		"serp_api_key":     "abc123",
		"history_endpoint": "https://targeted-keyword-trend.p.rapidapi.com/path?x=1",
		"database_dsn":     "postgres://user:pw@db/kw",
		"workers":          4,
		"country":          "us",
	})

	if v := masked["serp_api_key"].(string); !strings.HasPrefix(v, "api-key#") {
		t.Errorf("Expected masked api key, got %s", v)
	}
	if v := masked["history_endpoint"].(string); !strings.HasPrefix(v, "targeted-keyword-trend.p.rapidapi.com#") {
		t.Errorf("Expected host-only endpoint, got %s", v)
	}
	if v := masked["database_dsn"].(string); strings.Contains(v, "pw") {
		t.Errorf("Expected dsn to be masked, got %s", v)
	}
	if masked["workers"] != 4 {
		t.Errorf("Expected non-string value untouched, got %v", masked["workers"])
	}
	if masked["country"] != "us" {
		t.Errorf("Expected plain value untouched, got %v", masked["country"])
	}
}

func TestSecurityLogger_MaskLogMessage(t *testing.T) {
	sl := NewSecurityLogger(Nop())

	msg := sl.MaskLogMessage("calling https://serp.example.com/search?q=x with key=supersecret")
	if strings.Contains(msg, "supersecret") {
		t.Errorf("Expected secret to be masked: %s", msg)
	}
	if strings.Contains(msg, "/search?q=x") {
		t.Errorf("Expected URL path to be masked: %s", msg)
	}
}

func TestSafeInfoWritesMaskedFields(t *testing.T) {
	var buf bytes.Buffer
	sl := NewSecurityLogger(NewWithWriter(&buf, Config{Level: "info"}))

	sl.SafeInfo("configuration loaded", map[string]interface{}{"api_key": "topsecret"})

	out := buf.String()
	if strings.Contains(out, "topsecret") {
		t.Errorf("Expected api key to be masked in output: %s", out)
	}
	if !strings.Contains(out, "configuration loaded") {
		t.Errorf("Expected message in output: %s", out)
	}
}
