package sitegraph

import (
	"net/url"
)

const (
	// RootNodeName is the name of the synthetic node every domain hangs off.
	RootNodeName = "root"
	// DomainLinkWeight is the edge value from root to a (sub)domain.
	DomainLinkWeight = 5
	// PageLinkWeight is the edge value from a domain to a link found on its homepage.
	PageLinkWeight = 1
	// PathKeyLength is how much of a link's path contributes to its node name.
	PathKeyLength = 20
	// MaxLinksPerPage caps link nodes taken from a single homepage.
	MaxLinksPerPage = 10
)

// Node is a vertex in the site graph. Type is empty for root and domain nodes.
type Node struct {
	Name string   `json:"name"`
	Type LinkType `json:"type,omitempty"`
}

// Link is a directed edge between two node indexes.
type Link struct {
	Source int `json:"source"`
	Target int `json:"target"`
	Value  int `json:"value"`
}

// Graph is the crawl result.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// TypeCounts tallies link-derived nodes per LinkType.
func (g *Graph) TypeCounts() map[LinkType]int {
	counts := make(map[LinkType]int, len(AllLinkTypes))
	if g == nil {
		return counts
	}
	for _, n := range g.Nodes {
		if n.Type != "" {
			counts[n.Type]++
		}
	}
	return counts
}

// DomainNodes returns the names of nodes linked directly from root.
func (g *Graph) DomainNodes() []string {
	if g == nil {
		return nil
	}
	var names []string
	for _, l := range g.Links {
		if l.Source == 0 && l.Value == DomainLinkWeight && l.Target < len(g.Nodes) {
			names = append(names, g.Nodes[l.Target].Name)
		}
	}
	return names
}

// builder accumulates nodes and links for a single crawl. Nodes are keyed by
// exact name; links are appended as-is.
type builder struct {
	nodes []Node
	links []Link
	index map[string]int
}

func newBuilder() *builder {
	b := &builder{index: make(map[string]int)}
	b.addNode(RootNodeName, "")
	return b
}

func (b *builder) addNode(name string, typ LinkType) int {
	if idx, ok := b.index[name]; ok {
		return idx
	}
	b.nodes = append(b.nodes, Node{Name: name, Type: typ})
	idx := len(b.nodes) - 1
	b.index[name] = idx
	return idx
}

func (b *builder) addLink(source, target, value int) {
	b.links = append(b.links, Link{Source: source, Target: target, Value: value})
}

func (b *builder) empty() bool {
	return len(b.nodes) == 1 && len(b.links) == 0
}

func (b *builder) graph() *Graph {
	return &Graph{
		Nodes: append([]Node(nil), b.nodes...),
		Links: append(make([]Link, 0, len(b.links)), b.links...),
	}
}

// linkNodeKey names a link node by host plus the first PathKeyLength bytes of its path.
func linkNodeKey(u *url.URL) string {
	path := u.EscapedPath()
	if len(path) > PathKeyLength {
		path = path[:PathKeyLength]
	}
	return u.Hostname() + path
}
