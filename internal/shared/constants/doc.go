// Package constants centralizes defaults shared across the CLI and API.
//
// File permissions, the fixed browser user agent used for homepage fetches,
// body size caps and snapshot naming live here so cmd/ and internal/ can
// reference them without import cycles.
package constants
