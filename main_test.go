package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"asin-scout/pkg/api"
	"asin-scout/pkg/metrics"
	"asin-scout/pkg/models"
	"asin-scout/pkg/scrapers/amazon"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	metrics.Init()
	os.Exit(m.Run())
}

// stubFetcher returns a canned body or error instead of hitting the network.
type stubFetcher struct {
	body []byte
	err  error
}

func (s *stubFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	return s.body, s.err
}

func newProductRequest(asin string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/product/"+asin, nil)
	req.SetPathValue("asin", asin)
	return req
}

func TestProductHandlerSuccess(t *testing.T) {
	page := `<html><body>
		<span id="productTitle">Acme Wireless Headphones</span>
		<span class="a-price"><span class="a-price-whole">1,999</span></span>
		<span class="a-price a-text-price"><span class="a-offscreen">₹2,999</span></span>
	</body></html>`
	handler := newProductHandler(&stubFetcher{body: []byte(page)})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newProductRequest("B0TEST1234"))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var product models.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &product))
	assert.Equal(t, "B0TEST1234", product.ASIN)
	assert.Equal(t, "Acme Wireless Headphones", product.Title)
	assert.Equal(t, "1,999", product.Price)
	assert.Equal(t, "₹2,999", product.MRP)
	assert.Equal(t, "33.34%", product.PercentageDiscount)
	assert.Equal(t, amazon.ContentTypeRegular, product.ContentType)
}

func TestProductHandlerFetchFailure(t *testing.T) {
	handler := newProductHandler(&stubFetcher{err: errors.New("connection refused")})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newProductRequest("B0MISSING0"))

	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))

	var pd api.ProblemDetails
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pd))
	assert.Equal(t, http.StatusNotFound, pd.Status)
	assert.Equal(t, "Product not found or error occurred while scraping", pd.Detail)
}

func TestProductHandlerEmptyFieldsStillSucceed(t *testing.T) {
	handler := newProductHandler(&stubFetcher{body: []byte("<html><body></body></html>")})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newProductRequest("B0EMPTY000"))

	require.Equal(t, http.StatusOK, rr.Code)

	var product models.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &product))
	assert.Equal(t, "B0EMPTY000", product.ASIN)
	assert.Empty(t, product.Title)
	assert.Equal(t, []string{}, product.AboutThisItem)
	assert.Equal(t, []string{}, product.Images)
}

func TestProductRouteRequiresAuth(t *testing.T) {
	handler := api.BearerAuth("s3cret-token", newProductHandler(&stubFetcher{body: []byte("<html></html>")}))

	t.Run("missing token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newProductRequest("B0TEST1234"))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid token runs the pipeline", func(t *testing.T) {
		req := newProductRequest("B0TEST1234")
		req.Header.Set("Authorization", "Bearer s3cret-token")

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
