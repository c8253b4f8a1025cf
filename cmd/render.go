package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/khanhnv2901/netrax/internal/sitegraph"
)

// Output formats accepted by --format.
const (
	formatJSON  = "json"
	formatTable = "table"
	formatDOT   = "dot"
)

var outputFormats = []string{formatJSON, formatTable, formatDOT}

func joinFormats() string {
	return strings.Join(outputFormats, ", ")
}

func parseOutputFormat(s string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(s))
	for _, known := range outputFormats {
		if f == known {
			return f, nil
		}
	}
	return "", &UnsupportedFormatError{Format: s}
}

func parseLinkTypes(values []string) ([]sitegraph.LinkType, error) {
	var types []sitegraph.LinkType
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		t, err := sitegraph.ParseLinkType(v)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

// graphRenderer writes crawl results. Types filters table rows only.
type graphRenderer struct {
	Format string
	Types  []sitegraph.LinkType
}

func (r graphRenderer) Render(w io.Writer, domain string, g *sitegraph.Graph) error {
	switch r.Format {
	case formatJSON, "":
		return renderJSON(w, g)
	case formatTable:
		renderTable(w, domain, g, r.Types)
		return nil
	case formatDOT:
		return renderDOT(w, domain, g)
	}
	return &UnsupportedFormatError{Format: r.Format}
}

func renderJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderTable(w io.Writer, domain string, g *sitegraph.Graph, types []sitegraph.LinkType) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(domain)
	t.AppendHeader(table.Row{"Domain", "Link", "Type"})

	keep := func(lt sitegraph.LinkType) bool {
		if len(types) == 0 {
			return true
		}
		for _, want := range types {
			if lt == want {
				return true
			}
		}
		return false
	}

	rows := 0
	for _, l := range g.Links {
		if l.Value != sitegraph.PageLinkWeight || l.Source >= len(g.Nodes) || l.Target >= len(g.Nodes) {
			continue
		}
		target := g.Nodes[l.Target]
		if !keep(target.Type) {
			continue
		}
		t.AppendRow(table.Row{g.Nodes[l.Source].Name, target.Name, formatLinkTypeWithColor(target.Type)})
		rows++
	}

	counts := g.TypeCounts()
	summary := make([]string, 0, len(sitegraph.AllLinkTypes))
	for _, lt := range sitegraph.AllLinkTypes {
		summary = append(summary, fmt.Sprintf("%s=%d", lt, counts[lt]))
	}
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d domains", len(g.DomainNodes())),
		fmt.Sprintf("%d links", rows),
		strings.Join(summary, " "),
	})
	t.Render()
}

func renderDOT(w io.Writer, domain string, g *sitegraph.Graph) error {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", strconv.Quote(domain))
	b.WriteString("  rankdir=LR;\n")
	for i, n := range g.Nodes {
		attrs := []string{"label=" + strconv.Quote(n.Name)}
		if n.Type != "" {
			attrs = append(attrs, "type="+strconv.Quote(string(n.Type)))
		}
		fmt.Fprintf(&b, "  n%d [%s];\n", i, strings.Join(attrs, ", "))
	}
	for _, l := range g.Links {
		fmt.Fprintf(&b, "  n%d -> n%d [weight=%d];\n", l.Source, l.Target, l.Value)
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}
