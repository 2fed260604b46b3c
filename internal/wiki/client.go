package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

const (
	defaultBaseURL    = "https://en.wikipedia.org"
	defaultMetricsURL = "https://wikimedia.org/api/rest_v1/metrics/pageviews/top/en.wikipedia/all-access"
	defaultUserAgent  = "wikiguesser-bot/1.0"

	// maxSearchLimit caps Search result pages requested from the API.
	maxSearchLimit = 50
)

// ClientConfig holds knowledge-source client configuration.
type ClientConfig struct {
	BaseURL    string
	MetricsURL string
	UserAgent  string
	Timeout    time.Duration
}

// Client talks to the Wikipedia REST and Action APIs.
type Client struct {
	base    string
	metrics string
	ua      string
	http    *http.Client
}

// NewClient creates a knowledge-source client. A nil config uses defaults.
func NewClient(cfg *ClientConfig) *Client {
	c := &Client{
		base:    defaultBaseURL,
		metrics: defaultMetricsURL,
		ua:      defaultUserAgent,
		http:    &http.Client{Timeout: 20 * time.Second},
	}
	if cfg != nil {
		if cfg.BaseURL != "" {
			c.base = strings.TrimSuffix(cfg.BaseURL, "/")
		}
		if cfg.MetricsURL != "" {
			c.metrics = strings.TrimSuffix(cfg.MetricsURL, "/")
		}
		if cfg.UserAgent != "" {
			c.ua = cfg.UserAgent
		}
		if cfg.Timeout > 0 {
			c.http = &http.Client{Timeout: cfg.Timeout}
		}
	}
	return c
}

// summaryResponse is the REST page/summary payload subset we consume.
type summaryResponse struct {
	Title   string `json:"title"`
	Type    string `json:"type"`
	Extract string `json:"extract"`
	Thumb   struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Resolve fetches the full article for an exact title.
func (c *Client) Resolve(ctx context.Context, title string) (*Article, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidTitle
	}

	var summary summaryResponse
	endpoint := fmt.Sprintf("%s/api/rest_v1/page/summary/%s?redirect=true", c.base, url.PathEscape(title))
	if err := c.getJSON(ctx, endpoint, &summary); err != nil {
		return nil, fmt.Errorf("resolve %q: %w", title, err)
	}

	switch summary.Type {
	case "disambiguation":
		return nil, fmt.Errorf("resolve %q: %w", title, ErrAmbiguousQuery)
	case "no-extract", "standard":
	default:
		// Unknown page types are treated as non-articles.
		return nil, fmt.Errorf("resolve %q: %w", title, ErrInvalidTitle)
	}

	links, err := c.pageLinks(ctx, summary.Title)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", title, err)
	}

	categories, err := c.pageCategories(ctx, summary.Title)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", title, err)
	}

	return &Article{
		Title:      summary.Title,
		Sentences:  SplitSentences(summary.Extract),
		Links:      links,
		Categories: categories,
		ImageURL:   summary.Thumb.Source,
		URL:        summary.ContentURLs.Desktop.Page,
	}, nil
}

// Search queries the Action API full-text search and returns shallow results.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]*Article, error) {
	if limit <= 0 || limit > maxSearchLimit {
		limit = 10
	}

	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {fmt.Sprint(limit)},
		"format":   {"json"},
	}

	var resp struct {
		Query struct {
			Search []struct {
				Title string `json:"title"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := c.getJSON(ctx, c.actionURL(params), &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	results := make([]*Article, 0, len(resp.Query.Search))
	for _, hit := range resp.Query.Search {
		if !IsArticleTitle(hit.Title) {
			continue
		}
		results = append(results, &Article{Title: hit.Title})
	}
	return results, nil
}

// ByCategory intersects the member sets of every named category and returns
// shallow articles for the surviving titles.
func (c *Client) ByCategory(ctx context.Context, categories []string) ([]*Article, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	var survivors map[string]struct{}
	for _, category := range categories {
		members, err := c.categoryMembers(ctx, category)
		if err != nil {
			return nil, err
		}
		if survivors == nil {
			survivors = members
			continue
		}
		for title := range survivors {
			if _, ok := members[title]; !ok {
				delete(survivors, title)
			}
		}
	}

	results := make([]*Article, 0, len(survivors))
	for title := range survivors {
		results = append(results, &Article{Title: title})
	}
	return results, nil
}

// RandomPopular returns an article drawn from the most-read pages of the
// given date, skipping non-article titles.
func (c *Client) RandomPopular(ctx context.Context, date time.Time) (*Article, error) {
	endpoint := fmt.Sprintf("%s/%04d/%02d/%02d", c.metrics, date.Year(), int(date.Month()), date.Day())

	var resp struct {
		Items []struct {
			Articles []struct {
				Article string `json:"article"`
			} `json:"articles"`
		} `json:"items"`
	}
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("random popular: %w", err)
	}
	if len(resp.Items) == 0 || len(resp.Items[0].Articles) == 0 {
		return nil, fmt.Errorf("random popular: %w", ErrNotFound)
	}

	titles := make([]string, 0, len(resp.Items[0].Articles))
	for _, a := range resp.Items[0].Articles {
		titles = append(titles, strings.ReplaceAll(a.Article, "_", " "))
	}
	rand.Shuffle(len(titles), func(i, j int) { titles[i], titles[j] = titles[j], titles[i] })

	for _, title := range titles {
		if !IsArticleTitle(title) {
			continue
		}
		article, err := c.Resolve(ctx, title)
		if err != nil {
			log.Debug().Err(err).Str("title", title).Msg("Skipping unusable most-read candidate")
			continue
		}
		return article, nil
	}
	return nil, fmt.Errorf("random popular: %w", ErrNotFound)
}

// CategoryExists checks the category page via the Action API.
func (c *Client) CategoryExists(ctx context.Context, name string) (bool, error) {
	title := name
	if !strings.HasPrefix(title, "Category:") {
		title = "Category:" + title
	}

	params := url.Values{
		"action": {"query"},
		"titles": {title},
		"format": {"json"},
	}

	var resp struct {
		Query struct {
			Pages map[string]struct {
				Missing *string `json:"missing"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := c.getJSON(ctx, c.actionURL(params), &resp); err != nil {
		return false, fmt.Errorf("category exists %q: %w", name, err)
	}

	for id, page := range resp.Query.Pages {
		if id == "-1" || page.Missing != nil {
			return false, nil
		}
	}
	return len(resp.Query.Pages) > 0, nil
}

// pageLinks extracts outbound article links from the rendered page HTML.
func (c *Client) pageLinks(ctx context.Context, title string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/api/rest_v1/page/html/%s", c.base, url.PathEscape(title))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.ua)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page html: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page html returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page html: %w", err)
	}

	var titles []string
	doc.Find(`a[rel~="mw:WikiLink"]`).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		if linked := titleFromHref(href); linked != "" {
			titles = append(titles, linked)
		}
	})

	return FilterArticleTitles(titles), nil
}

// titleFromHref converts a Parsoid "./Some_Title#frag" href to a title.
func titleFromHref(href string) string {
	href = strings.TrimPrefix(href, "./")
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	decoded, err := url.PathUnescape(href)
	if err != nil {
		decoded = href
	}
	return strings.TrimSpace(strings.ReplaceAll(decoded, "_", " "))
}

// pageCategories fetches the category list for a page.
func (c *Client) pageCategories(ctx context.Context, title string) ([]string, error) {
	params := url.Values{
		"action":  {"query"},
		"titles":  {title},
		"prop":    {"categories"},
		"cllimit": {"max"},
		"format":  {"json"},
	}

	var resp struct {
		Query struct {
			Pages map[string]struct {
				Categories []struct {
					Title string `json:"title"`
				} `json:"categories"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := c.getJSON(ctx, c.actionURL(params), &resp); err != nil {
		return nil, fmt.Errorf("page categories: %w", err)
	}

	var categories []string
	for _, page := range resp.Query.Pages {
		for _, cat := range page.Categories {
			categories = append(categories, strings.TrimPrefix(cat.Title, "Category:"))
		}
	}
	return categories, nil
}

// categoryMembers returns the set of article titles in one category.
func (c *Client) categoryMembers(ctx context.Context, category string) (map[string]struct{}, error) {
	title := category
	if !strings.HasPrefix(title, "Category:") {
		title = "Category:" + title
	}

	params := url.Values{
		"action":      {"query"},
		"list":        {"categorymembers"},
		"cmtitle":     {title},
		"cmnamespace": {"0"},
		"cmlimit":     {"max"},
		"format":      {"json"},
	}

	var resp struct {
		Query struct {
			Members []struct {
				Title string `json:"title"`
			} `json:"categorymembers"`
		} `json:"query"`
	}
	if err := c.getJSON(ctx, c.actionURL(params), &resp); err != nil {
		return nil, fmt.Errorf("category members %q: %w", category, err)
	}

	members := make(map[string]struct{}, len(resp.Query.Members))
	for _, m := range resp.Query.Members {
		if IsArticleTitle(m.Title) {
			members[m.Title] = struct{}{}
		}
	}
	return members, nil
}

func (c *Client) actionURL(params url.Values) string {
	return c.base + "/w/api.php?" + params.Encode()
}

// getJSON performs a GET and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("api returned %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// RandHistoryDate picks a random day between eight years ago and yesterday,
// used to vary the most-read pool the random mode draws from.
func RandHistoryDate() time.Time {
	now := time.Now().UTC().AddDate(0, 0, -1)
	earliest := now.AddDate(-8, 0, 0)
	window := now.Unix() - earliest.Unix()
	return time.Unix(earliest.Unix()+rand.Int63n(window), 0).UTC()
}
