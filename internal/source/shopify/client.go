// Package shopify reads sales orders from the Shopify Admin REST API.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andresuchdata/reorder-advisor/internal/config"
	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/andresuchdata/reorder-advisor/internal/source"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	pageLimit       = 250
	maxPages        = 40
	maxResponseSize = 10 * 1024 * 1024
)

// Client implements source.SalesSource against a Shopify store
type Client struct {
	baseURL     string
	apiVersion  string
	accessToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxPages    int
	now         func() time.Time
}

// NewClient creates a Shopify client. All requests share one rate limiter.
func NewClient(cfg config.ShopifyConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("shopify base url must be provided")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("shopify access token must be provided")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiVersion:  cfg.APIVersion,
		accessToken: cfg.AccessToken,
		httpClient:  &http.Client{Timeout: timeout},
		limiter:     rate.NewLimiter(rate.Limit(rps), 1),
		maxPages:    maxPages,
		now:         time.Now,
	}, nil
}

// FetchOrders lists every order created in the last windowDays days. Orders
// are returned unfiltered; line items for other SKUs are left for the caller.
func (c *Client) FetchOrders(ctx context.Context, sku string, windowDays int) ([]source.Order, error) {
	if windowDays <= 0 {
		windowDays = 30
	}

	params := url.Values{}
	params.Set("status", "any")
	params.Set("limit", fmt.Sprintf("%d", pageLimit))
	params.Set("created_at_min", c.now().UTC().AddDate(0, 0, -windowDays).Format(time.RFC3339))
	params.Set("fields", "id,name,order_number,created_at,currency,total_price,line_items")

	next := fmt.Sprintf("%s/admin/api/%s/orders.json?%s", c.baseURL, c.apiVersion, params.Encode())

	var orders []source.Order
	for page := 0; next != "" && page < c.maxPages; page++ {
		batch, link, err := c.fetchPage(ctx, next)
		if err != nil {
			return nil, err
		}
		orders = append(orders, batch...)
		next = nextPageURL(link)
	}
	if next != "" {
		log.Warn().
			Str("sku", sku).
			Int("pages", c.maxPages).
			Int("orders", len(orders)).
			Msg("shopify: page limit reached, sales history truncated")
	}

	log.Debug().Str("sku", sku).Int("orders", len(orders)).Msg("shopify: fetched orders")
	return orders, nil
}

func (c *Client) fetchPage(ctx context.Context, pageURL string) ([]source.Order, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("%w: shopify rate limiter: %v", domain.ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: shopify request: %v", domain.ErrUpstream, err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: shopify orders: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: shopify orders returned status %d", domain.ErrUpstream, resp.StatusCode)
	}

	var payload source.OrdersResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&payload); err != nil {
		return nil, "", fmt.Errorf("%w: decode shopify orders: %v", domain.ErrUpstream, err)
	}

	return payload.Orders, resp.Header.Get("Link"), nil
}

// nextPageURL extracts the rel="next" target from a Shopify Link header.
func nextPageURL(link string) string {
	for _, part := range strings.Split(link, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}
		target := strings.TrimSpace(segments[0])
		for _, attr := range segments[1:] {
			if strings.TrimSpace(attr) == `rel="next"` {
				return strings.Trim(target, "<>")
			}
		}
	}
	return ""
}

var _ source.SalesSource = (*Client)(nil)
