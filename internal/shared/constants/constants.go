package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// BrowserUserAgent is sent with every homepage fetch so targets serve their desktop markup.
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	// MaxPageBodyBytes caps how much of a homepage body is read for link extraction.
	MaxPageBodyBytes = 2 * 1024 * 1024
	// MaxSubdomainBodyBytes caps the subdomain API response body.
	MaxSubdomainBodyBytes = 4 * 1024 * 1024
	// DefaultJSWait is how long the headless browser waits after DOM ready.
	DefaultJSWait = 2 * time.Second
)

const (
	// SnapshotFileSuffix is appended to every stored graph snapshot.
	SnapshotFileSuffix = ".graph.json"
	// SnapshotDirName is the directory under the results dir holding snapshots.
	SnapshotDirName = "graphs"
)
