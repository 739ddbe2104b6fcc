package baselinker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andresuchdata/reorder-advisor/internal/config"
	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/andresuchdata/reorder-advisor/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handle func(method string, params map[string]any) string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/connector.php", r.URL.Path)
		assert.Equal(t, "bl-token", r.Header.Get("X-BLToken"))

		var params map[string]any
		require.NoError(t, json.Unmarshal([]byte(r.PostForm.Get("parameters")), &params))
		_, _ = w.Write([]byte(handle(r.PostForm.Get("method"), params)))
	}))
}

func newTestClient(t *testing.T, url string) *Client {
	c, err := NewClient(config.BaselinkerConfig{BaseURL: url, APIToken: "bl-token", InventoryID: 7, TimeoutSeconds: 2})
	require.NoError(t, err)
	return c
}

func TestFetchInventory(t *testing.T) {
	srv := newServer(t, func(method string, params map[string]any) string {
		assert.Equal(t, float64(7), params["inventory_id"])
		switch method {
		case "getInventoryProductsList":
			assert.Equal(t, "SKU-001", params["filter_sku"])
			return `{"status":"SUCCESS","products":{"10001":{"id":10001,"sku":"SKU-001"}}}`
		case "getInventoryProductsData":
			assert.Equal(t, []any{float64(10001)}, params["products"])
			return `{"status":"SUCCESS","products":{"10001":{"sku":"SKU-001","text_fields":{"name":"Smart Watch"},
				"price_wholesale_netto":42.5,"stock":{"bl_1":5,"bl_2":7},"locations":{"bl_1":"A-1-01"}}}}`
		}
		t.Fatalf("unexpected method %s", method)
		return ""
	})
	defer srv.Close()

	resp, err := newTestClient(t, srv.URL).FetchInventory(context.Background(), "SKU-001")
	require.NoError(t, err)
	assert.Equal(t, source.StatusSuccess, resp.Status)

	p, ok := resp.Products["10001"]
	require.True(t, ok)
	assert.Equal(t, "10001", p.ProductID)
	assert.Equal(t, "Smart Watch", p.Name)
	assert.Equal(t, 12, p.TotalStock())
	assert.Equal(t, "A-1-01", p.Locations[domain.WarehouseID("bl_1")])
	require.NotNil(t, p.PriceWholesaleNetto)
	assert.InDelta(t, 42.5, *p.PriceWholesaleNetto, 0.0001)
}

func TestFetchInventory_ErrorStatusPassesThrough(t *testing.T) {
	srv := newServer(t, func(method string, params map[string]any) string {
		return `{"status":"ERROR","error_code":"ERROR_AUTH_TOKEN"}`
	})
	defer srv.Close()

	resp, err := newTestClient(t, srv.URL).FetchInventory(context.Background(), "SKU-001")
	require.NoError(t, err)
	assert.Equal(t, "ERROR", resp.Status)
	assert.Empty(t, resp.Products)
}

func TestFetchAllProducts(t *testing.T) {
	srv := newServer(t, func(method string, params map[string]any) string {
		if method == "getInventoryProductsList" {
			return `{"status":"SUCCESS","products":{"1":{"id":1,"sku":"A"},"2":{"id":2,"sku":"B"}}}`
		}
		return `{"status":"SUCCESS","products":{"1":{"sku":"A","name":"Alpha"},"2":{"sku":"B","name":"Beta"}}}`
	})
	defer srv.Close()

	resp, err := newTestClient(t, srv.URL).FetchAllProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.Products, 2)
	assert.Equal(t, "Beta", resp.Products["2"].Name)
}

func TestCall_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).FetchInventory(context.Background(), "SKU-001")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}
