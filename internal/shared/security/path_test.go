package security

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveWithinValidPath(t *testing.T) {
	base := t.TempDir()

	child := filepath.Join("graphs", "acme_test.graph.json")
	resolved, err := ResolveWithin(base, child)
	if err != nil {
		t.Fatalf("ResolveWithin returned error: %v", err)
	}
	if !strings.HasPrefix(resolved, base) {
		t.Fatalf("expected resolved path %s to stay within base %s", resolved, base)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o700); err != nil {
		t.Fatalf("failed to create parent dirs: %v", err)
	}
	if err := os.WriteFile(resolved, []byte("{}"), 0o600); err != nil {
		t.Fatalf("failed to write resolved file: %v", err)
	}
}

func TestResolveWithinBlocksEscape(t *testing.T) {
	base := t.TempDir()
	_, err := ResolveWithin(base, "..", "etc", "passwd")
	if !errors.Is(err, ErrPathEscape) {
		t.Fatalf("expected ErrPathEscape, got %v", err)
	}
}

func TestResolveWithinEmptyBase(t *testing.T) {
	_, err := ResolveWithin("", "some", "path")
	if err == nil {
		t.Fatal("expected error for empty base directory")
	}
	if err.Error() != "base directory is required" {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestResolveWithinAbsolutePathAttempt(t *testing.T) {
	base := t.TempDir()

	resolved, err := ResolveWithin(base, "/etc/passwd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(resolved, base) {
		t.Errorf("resolved path %s should be within base %s", resolved, base)
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "snapshot id", input: "acme_test-20261016T120000Z", wantErr: false},
		{name: "dotted", input: "acme.test.graph.json", wantErr: false},
		{name: "empty", input: "", wantErr: true},
		{name: "traversal", input: "../secret", wantErr: true},
		{name: "double dot inside", input: "a..b", wantErr: true},
		{name: "slash", input: "a/b", wantErr: true},
		{name: "leading dot", input: ".hidden", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnsafeName) {
				t.Fatalf("expected ErrUnsafeName, got %v", err)
			}
		})
	}
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"Acme.Test":       "acme_test",
		"api.acme.test":   "api_acme_test",
		"weird host/path": "weird-host-path",
		"...":             "unnamed",
	}
	for in, want := range tests {
		if got := SanitizeName(in); got != want {
			t.Errorf("SanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
