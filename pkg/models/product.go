package models

import "errors"

// ErrProductNotFound is returned when the marketplace either has no page
// for the requested ASIN or refused to serve one.
var ErrProductNotFound = errors.New("product not found")

// Product is the flat record returned for one ASIN lookup. Fields that
// could not be extracted stay empty; extraction never fails a request.
type Product struct {
	ASIN               string   `json:"asin"`
	Title              string   `json:"title"`
	Price              string   `json:"price"`
	MRP                string   `json:"mrp"`
	SkuID              string   `json:"sku_id"`
	PercentageDiscount string   `json:"percentage_discount"`
	Rating             string   `json:"rating"`
	NumRatings         string   `json:"num_ratings"`
	AboutThisItem      []string `json:"about_this_item"`
	ContentType        string   `json:"content_type"`
	Images             []string `json:"images"`
}
