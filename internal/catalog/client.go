// Package catalog reads starships from the remote catalog API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"storefront/internal/domain"
)

const (
	DefaultBaseURL = "https://swapi-api.hbtn.io/api"
	DefaultTimeout = 10 * time.Second
)

// Page is one page of catalog results.
type Page struct {
	Results  []domain.Item `json:"results"`
	Next     *string       `json:"next"`
	Previous *string       `json:"previous"`
	Count    int           `json:"count"`
}

// HasNext reports whether another page follows.
func (p *Page) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

type Client struct {
	baseURL string
	http    *http.Client
	group   singleflight.Group
	logger  *zap.Logger
}

// NewClient builds a client for baseURL. Requests time out after timeout.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// FetchPage returns the given page of starships. Pages start at 1.
func (c *Client) FetchPage(ctx context.Context, page int) (*Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(max(page, 1)))
	return c.get(ctx, q)
}

// Search returns starships matching term. A blank term returns an empty page
// without calling the API.
func (c *Client) Search(ctx context.Context, term string, page int) (*Page, error) {
	if strings.TrimSpace(term) == "" {
		return &Page{Results: []domain.Item{}}, nil
	}
	q := url.Values{}
	q.Set("search", term)
	q.Set("page", strconv.Itoa(max(page, 1)))
	return c.get(ctx, q)
}

func (c *Client) get(ctx context.Context, query url.Values) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify(err)
	}
	endpoint := c.baseURL + "/starships/?" + query.Encode()

	// Identical concurrent requests share one round trip. The shared fetch is
	// bounded by the client timeout, and each caller waits on its own context.
	ch := c.group.DoChan(endpoint, func() (interface{}, error) {
		return c.fetch(context.WithoutCancel(ctx), endpoint)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, classify(ctx.Err())
	}
	if res.Err != nil {
		c.logger.Warn("catalog request failed", zap.String("url", endpoint), zap.Error(res.Err))
		return nil, res.Err
	}
	page := res.Val.(*Page)
	if res.Shared {
		cp := *page
		cp.Results = append([]domain.Item(nil), page.Results...)
		return &cp, nil
	}
	return page, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return nil, &FetchError{Kind: KindHTTP, StatusCode: resp.StatusCode}
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		if cerr := classify(err); isTimeout(cerr) {
			return nil, cerr
		}
		return nil, fmt.Errorf("decode catalog page: %w", err)
	}
	if page.Results == nil {
		page.Results = []domain.Item{}
	}
	for i := range page.Results {
		page.Results[i] = Enrich(page.Results[i])
	}

	c.logger.Debug("catalog page fetched",
		zap.String("url", endpoint),
		zap.Int("results", len(page.Results)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &page, nil
}

func isTimeout(err error) bool {
	fe, ok := err.(*FetchError)
	return ok && fe.Kind == KindTimeout
}

var trailingID = regexp.MustCompile(`/(\d+)/?$`)

// Enrich fills in a placeholder image for items that have none. The
// placeholder is keyed by the numeric id at the end of the item URL, or by
// the item name when the URL carries no id.
func Enrich(item domain.Item) domain.Item {
	if item.Image != "" {
		return item
	}
	key := url.QueryEscape(item.Name)
	if m := trailingID.FindStringSubmatch(item.URL); m != nil {
		key = m[1]
	}
	item.Image = "https://picsum.photos/200/200?random=" + key
	return item
}
