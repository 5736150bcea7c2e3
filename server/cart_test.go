package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/tmstore/pkg/cart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartResponse struct {
	Data struct {
		Items      []cart.Item `json:"items"`
		TotalItems int         `json:"totalItems"`
		TotalPrice int64       `json:"totalPrice"`
	} `json:"data"`
}

func addToCart(t *testing.T, env *testEnv, session, body string) cartResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(body))
	req.Header.Set("X-Session-ID", session)
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp cartResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestAddCartItemSnapshotsCatalogPrice(t *testing.T) {
	env := newTestEnv()
	env.catalog.products = storefrontProducts()

	resp := addToCart(t, env, "s1", `{"productId":"p1","size":"L","color":"Black","quantity":2}`)

	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, int64(1850000), resp.Data.Items[0].Price)
	assert.Equal(t, 2, resp.Data.TotalItems)
	assert.Equal(t, int64(3700000), resp.Data.TotalPrice)
}

func TestAddCartItemMergesVariantAcrossRequests(t *testing.T) {
	env := newTestEnv()
	env.catalog.products = storefrontProducts()

	addToCart(t, env, "s1", `{"productId":"p1","size":"L","color":"Black","quantity":1}`)
	resp := addToCart(t, env, "s1", `{"productId":"p1","size":"L","color":"Black","quantity":2}`)

	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, 3, resp.Data.Items[0].Quantity)
}

func TestAddCartItemUnknownProduct(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"productId":"ghost"}`))
	req.Header.Set("X-Session-ID", "s1")
	rec := env.do(req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateCartItemZeroRemovesLine(t *testing.T) {
	env := newTestEnv()
	env.catalog.products = storefrontProducts()
	addToCart(t, env, "s1", `{"productId":"p1","size":"L","color":"Black","quantity":2}`)

	lineID := cart.LineID("p1", "L", "Black")
	req := httptest.NewRequest(http.MethodPatch, "/api/cart/items/"+lineID, strings.NewReader(`{"quantity":0}`))
	req.Header.Set("X-Session-ID", "s1")
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp cartResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Data.Items)
	assert.Equal(t, 0, resp.Data.TotalItems)
}

func TestCartsAreIsolatedPerSession(t *testing.T) {
	env := newTestEnv()
	env.catalog.products = storefrontProducts()

	addToCart(t, env, "s1", `{"productId":"p1","size":"L","color":"Black","quantity":1}`)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("X-Session-ID", "s2")
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp cartResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Data.Items)
}

func TestClearCart(t *testing.T) {
	env := newTestEnv()
	env.catalog.products = storefrontProducts()
	addToCart(t, env, "s1", `{"productId":"p1","size":"L","color":"Black","quantity":1}`)

	req := httptest.NewRequest(http.MethodDelete, "/api/cart", nil)
	req.Header.Set("X-Session-ID", "s1")
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	_, ok := env.carts.carts["s1"]
	assert.False(t, ok)
}

func TestCartMintsSessionWhenHeaderMissing(t *testing.T) {
	env := newTestEnv()

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Session-ID"))
}
