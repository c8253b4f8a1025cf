package sitegraph

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	sharedErrors "github.com/khanhnv2901/netrax/internal/shared/errors"
	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// NormalizeDomain turns user input ("https://Acme.test/login", "acme.test:443",
// "bücher.example") into a bare lowercase ASCII hostname suitable for Crawl.
// IP addresses and bare public suffixes are rejected.
func NormalizeDomain(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", sharedErrors.ErrEmptyDomain
	}

	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return "", fmt.Errorf("%w: %v", sharedErrors.ErrInvalidDomain, err)
		}
		s = u.Hostname()
	} else {
		if i := strings.IndexAny(s, "/?#"); i >= 0 {
			s = s[:i]
		}
		if host, _, err := net.SplitHostPort(s); err == nil {
			s = host
		}
	}
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return "", sharedErrors.ErrEmptyDomain
	}
	if net.ParseIP(s) != nil {
		return "", fmt.Errorf("%w: %q is an IP address", sharedErrors.ErrInvalidDomain, s)
	}

	ascii, err := idna.Lookup.ToASCII(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", sharedErrors.ErrInvalidDomain, err)
	}
	ascii = strings.ToLower(ascii)
	if !strings.Contains(ascii, ".") {
		return "", fmt.Errorf("%w: %q has no dot", sharedErrors.ErrInvalidDomain, ascii)
	}

	if suffix, _ := publicsuffix.PublicSuffix(ascii); suffix == ascii {
		return "", fmt.Errorf("%w: %q", sharedErrors.ErrPublicSuffix, ascii)
	}
	return ascii, nil
}

// RegistrableDomain returns the eTLD+1 of a normalised domain, e.g. acme.co.uk
// for api.acme.co.uk.
func RegistrableDomain(domain string) (string, error) {
	reg, err := publicsuffix.EffectiveTLDPlusOne(domain)
	if err != nil {
		return "", fmt.Errorf("%w: %v", sharedErrors.ErrInvalidDomain, err)
	}
	return reg, nil
}
