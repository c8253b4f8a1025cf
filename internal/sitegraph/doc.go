// Package sitegraph builds the NETRA-X site graph for a domain.
//
// Architecture overview:
//
//   - ExtractLinks scans raw homepage HTML for quoted href values and resolves
//     them against https://{host}, returning an ordered, de-duplicated list.
//   - ClassifyLink labels a resolved URL as External, Login, API or Page
//     relative to the crawl's root domain.
//   - Crawler drives the whole pipeline: it asks a SubdomainSource for the
//     domain's subdomains, then visits the seed domain and every subdomain in
//     discovery order, fetching each homepage through a PageFetcher and
//     appending classified link nodes to the graph.
//   - HTTPFetcher fetches pages over plain HTTP with the fixed browser user
//     agent; BrowserFetcher renders them in headless Chrome; RobotsGate wraps
//     either one with a robots.txt check.
//
// A graph is rebuilt from scratch on every Crawl call. Domains are visited one
// after another; a failing homepage is logged and skipped, while a failing
// subdomain lookup aborts the crawl.
package sitegraph
