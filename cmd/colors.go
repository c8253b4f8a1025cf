package cmd

import (
	"strings"

	"github.com/fatih/color"
	"github.com/khanhnv2901/netrax/internal/sitegraph"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

func formatStatusWithColor(status string) string {
	switch strings.ToLower(status) {
	case "ok", "done", "success":
		return colorSuccess(status)
	case "running", "pending":
		return colorInfo(status)
	case "error", "fail", "failed":
		return colorError(status)
	default:
		return status
	}
}

func formatLinkTypeWithColor(t sitegraph.LinkType) string {
	switch t {
	case sitegraph.LinkLogin:
		return colorWarn(string(t))
	case sitegraph.LinkAPI:
		return colorInfo(string(t))
	case sitegraph.LinkExternal:
		return colorError(string(t))
	case sitegraph.LinkPage:
		return colorSuccess(string(t))
	default:
		return string(t)
	}
}
