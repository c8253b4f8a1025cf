package sitegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLinks(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "absolute relative and protocol relative",
			html: `<a href="/about">About</a>
				<a href='https://acme.test/contact'>Contact</a>
				<script src="x.js"></script>
				<link href="//cdn.acme.test/lib.css">`,
			want: []string{
				"https://acme.test/about",
				"https://acme.test/contact",
				"https://cdn.acme.test/lib.css",
			},
		},
		{
			name: "duplicates collapse to first occurrence",
			html: `<a href="/a">1</a><a href="/b">2</a><a href="/a">3</a><a href="a">4</a><a href="https://acme.test/b">5</a>`,
			want: []string{"https://acme.test/a", "https://acme.test/b"},
		},
		{
			name: "non http schemes and fragments are dropped",
			html: `<a href="#top">top</a><a href="mailto:sec@acme.test">mail</a>
				<a href="javascript:void(0)">js</a><a href="tel:+100">tel</a><a href="">empty</a>`,
			want: []string{},
		},
		{
			name: "unparseable values are dropped",
			html: `<a href="http://[::1">bad</a><a href="https://">nohost</a><a href="/ok">ok</a>`,
			want: []string{"https://acme.test/ok"},
		},
		{
			name: "case insensitive attribute and dot segments",
			html: `<A HREF="/Docs/../Guide">g</A><a href = "../up">u</a>`,
			want: []string{"https://acme.test/Guide", "https://acme.test/up"},
		},
		{
			name: "empty paths and host case normalise before de-duplication",
			html: `<a href="https://acme.test">a</a><a href="https://acme.test/">b</a>
				<a href="https://ACME.test/x">c</a><a href="/x">d</a><a href="https://api.acme.test?v=1">e</a>`,
			want: []string{"https://acme.test/", "https://acme.test/x", "https://api.acme.test/?v=1"},
		},
		{
			name: "fragment-only hrefs are dropped rather than resolved to the homepage",
			html: `<a href="#top">top</a><a href="#">empty</a><a href="/#section">kept</a>`,
			want: []string{"https://acme.test/#section"},
		},
		{
			name: "query strings survive resolution",
			html: `<a href="/search?q=a&page=2">s</a><a href="http://other.test/x?y=1#frag">o</a>`,
			want: []string{"https://acme.test/search?q=a&page=2", "http://other.test/x?y=1#frag"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractLinks(tt.html, "acme.test")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractLinksOrderIndependentOfDuplication(t *testing.T) {
	once := ExtractLinks(`<a href="/x"></a><a href="/y"></a>`, "acme.test")
	repeated := ExtractLinks(`<a href="/x"></a><a href="/x"></a><a href="/y"></a><a href="/y"></a><a href="/x"></a>`, "acme.test")
	assert.Equal(t, once, repeated)
}

func TestExtractLinksUsesBaseHost(t *testing.T) {
	got := ExtractLinks(`<a href="/login">in</a>`, "api.acme.test")
	assert.Equal(t, []string{"https://api.acme.test/login"}, got)
}

func TestExtractLinksNoBound(t *testing.T) {
	html := ""
	for i := 0; i < 25; i++ {
		html += `<a href="/p` + string(rune('a'+i)) + `">x</a>`
	}
	assert.Len(t, ExtractLinks(html, "acme.test"), 25)
}
