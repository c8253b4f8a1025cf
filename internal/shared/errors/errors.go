package errors

import "errors"

// Domain errors
var (
	// Crawl errors
	ErrCrawl          = errors.New("failed to crawl site")
	ErrNoData         = errors.New("could not find any subdomains or links for this domain")
	ErrInvalidURL     = errors.New("invalid url")
	ErrInvalidDomain  = errors.New("invalid domain")
	ErrPublicSuffix   = errors.New("domain is a public suffix")
	ErrEmptyDomain    = errors.New("domain cannot be empty")
	ErrRobotsDisallow = errors.New("disallowed by robots.txt")
	ErrUnexpectedType = errors.New("unexpected content type")

	// Subdomain source errors
	ErrSubdomainLookup = errors.New("subdomain lookup failed")
	ErrQuotaExceeded   = errors.New("subdomain API quota exceeded")

	// Snapshot errors
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrInvalidSnapshot  = errors.New("invalid snapshot ID")

	// Job errors
	ErrJobNotFound = errors.New("job not found")

	// Repository errors
	ErrRepositoryOperation   = errors.New("repository operation failed")
	ErrSerializationFailed   = errors.New("serialization failed")
	ErrDeserializationFailed = errors.New("deserialization failed")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingRequired = errors.New("missing required field")
)
