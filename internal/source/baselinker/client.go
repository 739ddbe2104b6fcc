// Package baselinker reads inventory data from the BaseLinker connector API.
package baselinker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/reorder-advisor/internal/config"
	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/andresuchdata/reorder-advisor/internal/source"
)

const (
	maxResponseSize = 10 * 1024 * 1024
	listPageSize    = 1000
	dataBatchSize   = 100
	maxListPages    = 20
)

// Client implements source.InventorySource against BaseLinker
type Client struct {
	endpoint    string
	token       string
	inventoryID int64
	httpClient  *http.Client
}

// NewClient creates a BaseLinker client
func NewClient(cfg config.BaselinkerConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("baselinker base url must be provided")
	}
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("baselinker api token must be provided")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		endpoint:    strings.TrimRight(cfg.BaseURL, "/") + "/connector.php",
		token:       cfg.APIToken,
		inventoryID: cfg.InventoryID,
		httpClient:  &http.Client{Timeout: timeout},
	}, nil
}

type envelope struct {
	Status       string                     `json:"status"`
	ErrorCode    string                     `json:"error_code"`
	ErrorMessage string                     `json:"error_message"`
	Products     map[string]json.RawMessage `json:"products"`
}

type listedProduct struct {
	ID  int64  `json:"id"`
	SKU string `json:"sku"`
}

type productData struct {
	source.InventoryProduct
	TextFields struct {
		Name string `json:"name"`
	} `json:"text_fields"`
}

// FetchInventory returns the inventory payload for products matching sku.
// A non-success status is returned as-is; the reconciler decides what it means.
func (c *Client) FetchInventory(ctx context.Context, sku string) (*source.InventoryResponse, error) {
	listed, status, err := c.listProducts(ctx, map[string]any{"filter_sku": sku, "page": 1})
	if err != nil {
		return nil, err
	}
	if status != source.StatusSuccess {
		return &source.InventoryResponse{Status: status}, nil
	}
	return c.productsData(ctx, listed)
}

// FetchAllProducts returns the inventory payload for every product in the inventory.
func (c *Client) FetchAllProducts(ctx context.Context) (*source.InventoryResponse, error) {
	var all []int64
	for page := 1; page <= maxListPages; page++ {
		listed, status, err := c.listProducts(ctx, map[string]any{"page": page})
		if err != nil {
			return nil, err
		}
		if status != source.StatusSuccess {
			return &source.InventoryResponse{Status: status}, nil
		}
		all = append(all, listed...)
		if len(listed) < listPageSize {
			break
		}
	}
	return c.productsData(ctx, all)
}

func (c *Client) listProducts(ctx context.Context, params map[string]any) ([]int64, string, error) {
	params["inventory_id"] = c.inventoryID
	env, err := c.call(ctx, "getInventoryProductsList", params)
	if err != nil {
		return nil, "", err
	}
	if env.Status != source.StatusSuccess {
		return nil, env.Status, nil
	}

	ids := make([]int64, 0, len(env.Products))
	for key, raw := range env.Products {
		var p listedProduct
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, "", fmt.Errorf("%w: decode baselinker product %s: %v", domain.ErrUpstream, key, err)
		}
		if p.ID == 0 {
			p.ID, _ = strconv.ParseInt(key, 10, 64)
		}
		ids = append(ids, p.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, env.Status, nil
}

func (c *Client) productsData(ctx context.Context, ids []int64) (*source.InventoryResponse, error) {
	result := &source.InventoryResponse{
		Status:   source.StatusSuccess,
		Products: make(map[string]source.InventoryProduct, len(ids)),
	}

	for start := 0; start < len(ids); start += dataBatchSize {
		end := start + dataBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		env, err := c.call(ctx, "getInventoryProductsData", map[string]any{
			"inventory_id": c.inventoryID,
			"products":     ids[start:end],
		})
		if err != nil {
			return nil, err
		}
		if env.Status != source.StatusSuccess {
			return &source.InventoryResponse{Status: env.Status}, nil
		}

		for key, raw := range env.Products {
			var p productData
			if err := json.Unmarshal(raw, &p); err != nil {
				return nil, fmt.Errorf("%w: decode baselinker product %s: %v", domain.ErrUpstream, key, err)
			}
			product := p.InventoryProduct
			if product.ProductID == "" {
				product.ProductID = key
			}
			if product.Name == "" {
				product.Name = p.TextFields.Name
			}
			result.Products[key] = product
		}
	}

	return result, nil
}

func (c *Client) call(ctx context.Context, method string, params map[string]any) (*envelope, error) {
	encoded, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode baselinker parameters: %w", err)
	}

	form := url.Values{}
	form.Set("method", method)
	form.Set("parameters", string(encoded))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: baselinker request: %v", domain.ErrUpstream, err)
	}
	req.Header.Set("X-BLToken", c.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: baselinker %s: %v", domain.ErrUpstream, method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: baselinker %s returned status %d", domain.ErrUpstream, method, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: decode baselinker %s: %v", domain.ErrUpstream, method, err)
	}
	return &env, nil
}

var _ source.InventorySource = (*Client)(nil)
