package cmd

import (
	"testing"

	"github.com/fatih/color"
	"github.com/khanhnv2901/netrax/internal/sitegraph"
)

func disableColor(t *testing.T) {
	t.Helper()
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = original
	})
}

func TestFormatStatusWithColor(t *testing.T) {
	disableColor(t)

	tests := []struct {
		name   string
		status string
		want   string
	}{
		{name: "success", status: "OK", want: "OK"},
		{name: "done", status: "done", want: "done"},
		{name: "running", status: "running", want: "running"},
		{name: "failure", status: "FAILED", want: "FAILED"},
		{name: "unknown", status: "queued", want: "queued"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatStatusWithColor(tt.status); got != tt.want {
				t.Fatalf("formatStatusWithColor(%q) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestFormatLinkTypeWithColor(t *testing.T) {
	disableColor(t)

	for _, lt := range sitegraph.AllLinkTypes {
		if got := formatLinkTypeWithColor(lt); got != string(lt) {
			t.Fatalf("formatLinkTypeWithColor(%q) = %q", lt, got)
		}
	}
	if got := formatLinkTypeWithColor(""); got != "" {
		t.Fatalf("expected empty type to stay empty, got %q", got)
	}
}
