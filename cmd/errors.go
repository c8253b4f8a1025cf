package cmd

import "fmt"

// InvalidDomainError reports user input that cannot be crawled.
type InvalidDomainError struct {
	Input string
	Err   error
}

func (e *InvalidDomainError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid domain %q", e.Input)
	}
	return fmt.Sprintf("invalid domain %q: %v", e.Input, e.Err)
}

func (e *InvalidDomainError) Unwrap() error { return e.Err }

// DomainCrawlError ties a crawl failure to the domain it was run for.
type DomainCrawlError struct {
	Domain string
	Err    error
}

func (e *DomainCrawlError) Error() string {
	return fmt.Sprintf("%s: %v", e.Domain, e.Err)
}

func (e *DomainCrawlError) Unwrap() error { return e.Err }

// UnsupportedFormatError signals an unknown --format value.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported output format %q (want one of: %s)", e.Format, joinFormats())
}
