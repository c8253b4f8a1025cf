package sitegraph

import (
	"fmt"
	"net/url"
	"strings"

	sharedErrors "github.com/khanhnv2901/netrax/internal/shared/errors"
)

// LinkType labels a link node in the site graph.
type LinkType string

const (
	LinkExternal LinkType = "External"
	LinkLogin    LinkType = "Login"
	LinkAPI      LinkType = "API"
	LinkPage     LinkType = "Page"
)

// AllLinkTypes lists link types in classification precedence order.
var AllLinkTypes = []LinkType{LinkExternal, LinkLogin, LinkAPI, LinkPage}

var (
	loginKeywords = []string{"login", "signin", "auth"}
	apiKeywords   = []string{"/api/", "api."}
)

// ClassifyLink labels rawURL relative to rootDomain. The first matching rule
// wins: a host outside rootDomain is External, then login keywords, then API
// markers, and everything else is a Page.
func ClassifyLink(rawURL string, rootDomain string) (LinkType, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", sharedErrors.ErrInvalidURL, err)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("%w: %q has no host", sharedErrors.ErrInvalidURL, rawURL)
	}

	root := strings.TrimSuffix(strings.ToLower(rootDomain), ".")
	if !strings.HasSuffix(host, root) {
		return LinkExternal, nil
	}

	lower := strings.ToLower(rawURL)
	switch {
	case containsAny(lower, loginKeywords):
		return LinkLogin, nil
	case containsAny(lower, apiKeywords):
		return LinkAPI, nil
	}
	return LinkPage, nil
}

// ParseLinkType maps user input such as "login" onto a LinkType.
func ParseLinkType(s string) (LinkType, error) {
	for _, t := range AllLinkTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown link type %q", sharedErrors.ErrInvalidInput, s)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
