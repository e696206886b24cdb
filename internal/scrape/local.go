package scrape

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

const (
	userAgent         = "Mozilla/5.0 (compatible; VenueQuoteBot/1.0)"
	defaultLocalMax   = 500
	maxHomepageBytes  = 1 << 20
	maxSitemapBytes   = 4 << 20
	maxNestedSitemaps = 5
)

// LocalMapper discovers site URLs without a paid API: it reads
// /sitemap.xml (following one level of sitemap index) and the links on the
// homepage. Only URLs on the site's own host are returned.
type LocalMapper struct {
	http *http.Client

	Matcher *PathMatcher
	// MaxPages caps the number of URLs returned.
	MaxPages int
}

// NewLocalMapper creates a LocalMapper. A nil matcher uses the default
// exclude patterns.
func NewLocalMapper(matcher *PathMatcher) *LocalMapper {
	if matcher == nil {
		matcher = NewPathMatcher(nil)
	}
	return &LocalMapper{
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		Matcher:  matcher,
		MaxPages: defaultLocalMax,
	}
}

// Map implements Mapper. Homepage links come first, then sitemap entries.
// It fails only when neither source produced a URL.
func (l *LocalMapper) Map(ctx context.Context, siteURL string) ([]string, error) {
	base, err := url.Parse(siteURL)
	if err != nil || base.Host == "" {
		return nil, eris.Errorf("local mapper: invalid site url %q", siteURL)
	}

	var (
		pageLinks, sitemapLinks []string
		pageErr                 error
	)
	var g errgroup.Group
	g.Go(func() error {
		pageLinks, pageErr = l.homepageLinks(ctx, base)
		return nil
	})
	g.Go(func() error {
		root := &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/sitemap.xml"}
		sitemapLinks = l.sitemapLinks(ctx, root.String(), 0)
		return nil
	})
	_ = g.Wait()

	if pageErr != nil {
		zap.L().Debug("local mapper: homepage unusable",
			zap.String("url", siteURL),
			zap.Error(pageErr),
		)
	}

	urls := l.merge(base, pageLinks, sitemapLinks)
	if len(urls) == 0 {
		if pageErr != nil {
			return nil, pageErr
		}
		return nil, eris.Errorf("local mapper: no links found on %s", siteURL)
	}
	return urls, nil
}

func (l *LocalMapper) merge(base *url.URL, sources ...[]string) []string {
	limit := l.MaxPages
	if limit <= 0 {
		limit = defaultLocalMax
	}

	seen := make(map[string]bool)
	var out []string
	for _, links := range sources {
		for _, link := range links {
			u, err := url.Parse(link)
			if err != nil || !sameSite(u.Host, base.Host) {
				continue
			}
			u.Fragment = ""
			normalized := u.String()
			if seen[normalized] || l.Matcher.IsExcluded(normalized) {
				continue
			}
			seen[normalized] = true
			out = append(out, normalized)
			if len(out) >= limit {
				return out
			}
		}
	}
	return out
}

func (l *LocalMapper) homepageLinks(ctx context.Context, base *url.URL) ([]string, error) {
	resp, body, err := l.get(ctx, base.String(), maxHomepageBytes)
	if err != nil {
		return nil, err
	}
	if block := DetectBlock(resp, body); block.Blocked() {
		return nil, eris.Errorf("local mapper: homepage blocked (%s)", block)
	}
	if resp.StatusCode >= 400 {
		return nil, eris.Errorf("local mapper: homepage status %d", resp.StatusCode)
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "local mapper: parse homepage")
	}

	// Resolve against the post-redirect URL so relative links land on the
	// host that actually served the page.
	pageURL := base
	if resp.Request != nil && resp.Request.URL != nil {
		pageURL = resp.Request.URL
	}
	return extractLinks(doc, pageURL), nil
}

// extractLinks collects absolute http(s) URLs from <a href> attributes.
func extractLinks(doc *html.Node, base *url.URL) []string {
	var links []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, a := range n.Attr {
				if a.Key != "href" {
					continue
				}
				if link, ok := resolveLink(base, a.Val); ok {
					links = append(links, link)
				}
				break
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}

func resolveLink(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	abs.Fragment = ""
	return abs.String(), true
}

type sitemapDoc struct {
	URLs     []sitemapLoc `xml:"url"`
	Sitemaps []sitemapLoc `xml:"sitemap"`
}

type sitemapLoc struct {
	Loc string `xml:"loc"`
}

// sitemapLinks reads a urlset or sitemapindex document. Failures yield nil;
// the sitemap is a best-effort source.
func (l *LocalMapper) sitemapLinks(ctx context.Context, sitemapURL string, depth int) []string {
	resp, body, err := l.get(ctx, sitemapURL, maxSitemapBytes)
	if err != nil || resp.StatusCode != http.StatusOK {
		return nil
	}

	var doc sitemapDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil
	}

	var links []string
	for _, u := range doc.URLs {
		if loc := strings.TrimSpace(u.Loc); loc != "" {
			links = append(links, loc)
		}
	}
	if depth > 0 {
		return links
	}
	for i, sm := range doc.Sitemaps {
		if i >= maxNestedSitemaps {
			break
		}
		if loc := strings.TrimSpace(sm.Loc); loc != "" {
			links = append(links, l.sitemapLinks(ctx, loc, depth+1)...)
		}
	}
	return links
}

func (l *LocalMapper) get(ctx context.Context, target string, limit int64) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, nil, eris.Wrap(err, "local mapper: create request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "local mapper: fetch %s", target)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, nil, eris.Wrap(err, "local mapper: read body")
	}
	return resp, body, nil
}

// sameSite treats "www.example.com" and "example.com" as one site.
func sameSite(a, b string) bool {
	return strings.TrimPrefix(strings.ToLower(a), "www.") == strings.TrimPrefix(strings.ToLower(b), "www.")
}
