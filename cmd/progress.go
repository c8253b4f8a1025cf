package cmd

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// progressPrinter shows which (sub)domain a crawl is visiting.
type progressPrinter struct {
	name    string
	spin    *spinner.Spinner
	mu      sync.Mutex
	visited int
	total   int
	started bool
}

func newProgressPrinter(w io.Writer, name string) *progressPrinter {
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(w))
	return &progressPrinter{name: name, spin: s}
}

func (p *progressPrinter) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	p.spin.Suffix = fmt.Sprintf(" [%s] resolving subdomains", p.name)
	p.spin.Start()
}

// OnDomain matches sitegraph.DomainFunc.
func (p *progressPrinter) OnDomain(domain string, index, total int) {
	p.mu.Lock()
	p.visited = index
	p.total = total
	p.mu.Unlock()

	p.spin.Lock()
	p.spin.Suffix = " " + p.line(domain)
	p.spin.Unlock()
}

func (p *progressPrinter) line(domain string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	percent := 0.0
	if p.total > 0 {
		percent = float64(p.visited) / float64(p.total) * 100
	}
	return fmt.Sprintf("[%s] Progress: %d/%d (%.1f%%) %s", p.name, p.visited, p.total, percent, domain)
}

func (p *progressPrinter) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	p.started = false
	p.spin.Stop()
}
