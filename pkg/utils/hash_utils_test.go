package utils

import "testing"

func TestFingerprint(t *testing.T) {
	if Fingerprint("") != "" {
		t.Error("Expected empty fingerprint for empty input")
	}

	a := Fingerprint("secret-key")
	b := Fingerprint("secret-key")
	if a != b {
		t.Errorf("Expected stable fingerprint, got %s and %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("Expected 64 hex chars, got %d", len(a))
	}

	if short := ShortFingerprint("secret-key"); short != a[:8] {
		t.Errorf("Expected short fingerprint %s, got %s", a[:8], short)
	}
}
