package browser

import "testing"

func TestOpenRejectsNonHTTP(t *testing.T) {
	tests := []string{
		"file:///etc/passwd",
		"javascript:alert(1)",
		"ftp://example.com",
		"",
	}
	for _, url := range tests {
		if err := Open(url); err == nil {
			t.Errorf("Open(%q): expected error", url)
		}
	}
}

func TestOpenAcceptsHTTP(t *testing.T) {
	// The launch itself may fail on headless CI; only scheme validation
	// is asserted, so a launch error is tolerated.
	for _, url := range []string{"https://example.com", "http://example.com"} {
		_ = Open(url)
	}
}
