package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claimsift/claimsift/internal/model"
	"github.com/temoto/robotstxt"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://html.duckduckgo.com"

// DuckDuckGo searches the DuckDuckGo HTML endpoint and flattens result
// pages into a plain-text evidence blob. The client is polite by
// construction: it checks robots.txt once per host and rate-limits its own
// requests independently of the collector's courtesy delay.
type DuckDuckGo struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	maxResults int
	limiter    *rate.Limiter
	robots     *robotsGate // nil when robots checking is disabled
}

// NewDuckDuckGo creates a search client from the given configuration
func NewDuckDuckGo(cfg model.SearchConfig) *DuckDuckGo {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 8
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}

	d := &DuckDuckGo{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:  cfg.UserAgent,
		maxBytes:   maxBytes,
		maxResults: maxResults,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}

	if cfg.RespectRobots {
		d.robots = newRobotsGate(cfg.UserAgent, cfg.Timeout)
	}

	return d
}

// Search runs one query and returns a text blob of titles, URLs, and
// snippets for the top results
func (d *DuckDuckGo) Search(ctx context.Context, query string) (string, error) {
	endpoint := d.baseURL + "/html/?" + url.Values{"q": {query}}.Encode()

	if d.robots != nil {
		allowed, err := d.robots.canFetch(ctx, endpoint)
		if err == nil && !allowed {
			return "", fmt.Errorf("robots.txt disallows fetching %s", endpoint)
		}
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	results, err := parseResults(io.LimitReader(resp.Body, d.maxBytes), d.maxResults)
	if err != nil {
		return "", fmt.Errorf("parse results: %w", err)
	}

	if len(results) == 0 {
		return fmt.Sprintf("No search results found for: %s", query), nil
	}

	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Title: %s\nURL: %s\nSnippet: %s", r.title, r.url, r.snippet)
	}
	return b.String(), nil
}

type searchResult struct {
	title   string
	url     string
	snippet string
}

// parseResults walks the DuckDuckGo HTML result page. Result links carry
// the class "result__a"; snippets carry "result__snippet".
func parseResults(r io.Reader, max int) ([]searchResult, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var results []searchResult
	var current *searchResult

	flush := func() {
		if current != nil && current.title != "" {
			results = append(results, *current)
		}
		current = nil
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(results) >= max {
			return
		}
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result__a"):
				flush()
				current = &searchResult{
					title: nodeText(n),
					url:   resolveResultURL(attr(n, "href")),
				}
			case hasClass(n, "result__snippet"):
				if current != nil && current.snippet == "" {
					current.snippet = nodeText(n)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	flush()

	if len(results) > max {
		results = results[:max]
	}
	return results, nil
}

// resolveResultURL unwraps DuckDuckGo's redirect links (/l/?uddg=<target>)
func resolveResultURL(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// robotsGate caches robots.txt decisions per host
type robotsGate struct {
	cache      map[string]*robotstxt.RobotsData
	httpClient *http.Client
	userAgent  string
}

func newRobotsGate(userAgent string, timeout time.Duration) *robotsGate {
	return &robotsGate{
		cache:      make(map[string]*robotstxt.RobotsData),
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// canFetch checks robots.txt for the URL's host. Inability to fetch
// robots.txt allows the request by default.
func (g *robotsGate) canFetch(ctx context.Context, rawURL string) (bool, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("parse URL: %w", err)
	}

	data, ok := g.cache[parsed.Host]
	if !ok {
		data, err = g.fetch(ctx, fmt.Sprintf("%s://%s/robots.txt", parsed.Scheme, parsed.Host))
		if err != nil {
			return true, nil
		}
		g.cache[parsed.Host] = data
	}

	return data.TestAgent(parsed.Path, g.userAgent), nil
}

func (g *robotsGate) fetch(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	return robotstxt.FromResponse(resp)
}
