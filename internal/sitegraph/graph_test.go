package sitegraph

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderStartsWithRoot(t *testing.T) {
	b := newBuilder()
	assert.True(t, b.empty())

	g := b.graph()
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, Node{Name: RootNodeName}, g.Nodes[0])
	assert.NotNil(t, g.Links)
	assert.Empty(t, g.Links)
}

func TestBuilderReusesNodesByExactName(t *testing.T) {
	b := newBuilder()
	first := b.addNode("acme.test", "")
	second := b.addNode("acme.test", LinkPage)
	other := b.addNode("acme.test/", LinkPage)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Len(t, b.nodes, 3)
	assert.Equal(t, LinkType(""), b.nodes[first].Type, "reuse must not retype a node")

	b.addLink(0, first, DomainLinkWeight)
	b.addLink(0, first, DomainLinkWeight)
	assert.Len(t, b.links, 2, "links are never aggregated")
	assert.False(t, b.empty())
}

func TestLinkNodeKeyTruncatesPath(t *testing.T) {
	tests := map[string]string{
		"https://acme.test":                               "acme.test",
		"https://acme.test/":                              "acme.test/",
		"https://acme.test/short?q=1":                     "acme.test/short",
		"https://acme.test/a/very/long/path/that/goes/on": "acme.test/a/very/long/path/th",
		"https://acme.test:8443/x":                        "acme.test/x",
	}
	for raw, want := range tests {
		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, want, linkNodeKey(u), raw)
	}
}

func TestGraphJSONShape(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{Name: "root"}, {Name: "acme.test"}, {Name: "acme.test/login", Type: LinkLogin}},
		Links: []Link{{Source: 0, Target: 1, Value: 5}, {Source: 1, Target: 2, Value: 1}},
	}
	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"nodes": [{"name":"root"},{"name":"acme.test"},{"name":"acme.test/login","type":"Login"}],
		"links": [{"source":0,"target":1,"value":5},{"source":1,"target":2,"value":1}]
	}`, string(data))
}

func TestGraphSummaries(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{Name: "root"},
			{Name: "acme.test"},
			{Name: "api.acme.test"},
			{Name: "acme.test/login", Type: LinkLogin},
			{Name: "evil.test/", Type: LinkExternal},
			{Name: "acme.test/about", Type: LinkPage},
			{Name: "acme.test/team", Type: LinkPage},
		},
		Links: []Link{
			{Source: 0, Target: 1, Value: 5},
			{Source: 0, Target: 2, Value: 5},
			{Source: 1, Target: 3, Value: 1},
			{Source: 1, Target: 4, Value: 1},
			{Source: 1, Target: 5, Value: 1},
			{Source: 2, Target: 6, Value: 1},
		},
	}

	counts := g.TypeCounts()
	assert.Equal(t, 1, counts[LinkLogin])
	assert.Equal(t, 1, counts[LinkExternal])
	assert.Equal(t, 2, counts[LinkPage])
	assert.Equal(t, 0, counts[LinkAPI])

	assert.Equal(t, []string{"acme.test", "api.acme.test"}, g.DomainNodes())

	var nilGraph *Graph
	assert.Empty(t, nilGraph.TypeCounts())
	assert.Nil(t, nilGraph.DomainNodes())
}
