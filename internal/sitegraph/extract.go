package sitegraph

import (
	"net/url"
	"regexp"
	"strings"
)

var hrefPattern = regexp.MustCompile(`(?i)href\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// ExtractLinks returns every distinct absolute http(s) URL referenced by an
// href attribute in body, resolved against https://{baseHost}/, in the order
// they first appear.
func ExtractLinks(body string, baseHost string) []string {
	base := &url.URL{Scheme: "https", Host: baseHost, Path: "/"}

	matches := hrefPattern.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	links := make([]string, 0, len(matches))
	for _, match := range matches {
		raw := match[1]
		if raw == "" {
			raw = match[2]
		}
		resolved := resolveHref(base, raw)
		if resolved == "" {
			continue
		}
		if _, ok := seen[resolved]; ok {
			continue
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	}
	return links
}

func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	if resolved.Hostname() == "" {
		return ""
	}
	// An empty path resolves to "/", which keeps link keys apart from domain node names.
	resolved.Host = strings.ToLower(resolved.Host)
	if resolved.Path == "" {
		resolved.Path = "/"
		resolved.RawPath = ""
	}
	return resolved.String()
}
