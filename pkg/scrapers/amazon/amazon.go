package amazon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"asin-scout/pkg/models"

	"github.com/PuerkitoBio/goquery"
)

// Content type labels. A+ pages carry manufacturer-authored rich
// content; everything else is treated as a plain seller description.
const (
	ContentTypeAPlus   = "A+ Content"
	ContentTypeRegular = "Regular Description"
)

const imageBaseURL = "https://m.media-amazon.com/images/I/"

var (
	hiResImageRe = regexp.MustCompile(`"hiRes":"(https://[^"]+)"`)
	largeImageRe = regexp.MustCompile(`"large":"(https://[^"]+)"`)
)

// Extract pulls the product record out of a rendered product page. Each
// field rule is independent: a selector that matches nothing leaves its
// field empty and the rest of the extraction proceeds. The ASIN is
// echoed from the caller, never re-read from the page.
func Extract(body []byte, asin string) models.Product {
	product := models.Product{
		ASIN:          asin,
		ContentType:   ContentTypeRegular,
		AboutThisItem: []string{},
		Images:        []string{},
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return product
	}

	product.Title = strings.TrimSpace(doc.Find("span#productTitle").First().Text())

	product.Price = strings.TrimSpace(doc.Find("span.a-price-whole").First().Text())
	if product.Price == "" {
		product.Price = strings.TrimSpace(doc.Find("span.a-price span.a-offscreen").First().Text())
	}

	product.MRP = strings.TrimSpace(doc.Find("span.a-price.a-text-price span.a-offscreen").First().Text())

	product.SkuID = extractSku(doc)
	product.PercentageDiscount = extractDiscount(doc, product.Price, product.MRP)

	// "4.3 out of 5 stars" -> "4.3"; the badge can render as pure
	// whitespace, which Fields reduces to nothing.
	if fields := strings.Fields(doc.Find("span.a-icon-alt").First().Text()); len(fields) > 0 {
		product.Rating = fields[0]
	}
	product.NumRatings = strings.TrimSpace(doc.Find("span#acrCustomerReviewText").First().Text())

	doc.Find("ul.a-unordered-list.a-vertical.a-spacing-small li span.a-list-item").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			product.AboutThisItem = append(product.AboutThisItem, text)
		}
	})

	if doc.Find("div#aplus").Length() > 0 {
		product.ContentType = ContentTypeAPlus
	}

	product.Images = extractImages(doc)

	return product
}

// extractSku looks for a SKU in the embedded structured data first,
// then falls back to the product detail tables.
func extractSku(doc *goquery.Document) string {
	var sku string

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var ld struct {
			Type string `json:"@type"`
			Sku  string `json:"sku"`
		}
		if err := json.Unmarshal([]byte(s.Text()), &ld); err != nil {
			return true
		}
		if ld.Sku != "" {
			sku = ld.Sku
			return false
		}
		return true
	})
	if sku != "" {
		return sku
	}

	doc.Find("div#productDetails_detailBullets_sections1 tr").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(s.Text(), "Item model number") {
			sku = strings.TrimSpace(s.Find("td").First().Text())
			return false
		}
		return true
	})
	if sku != "" {
		return sku
	}

	doc.Find("table#productDetails_techSpec_section_1 tr").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(s.Text(), "Model Number") {
			sku = strings.TrimSpace(s.Find("td").First().Text())
			return false
		}
		return true
	})
	if sku != "" {
		return sku
	}

	return strings.TrimSpace(doc.Find("tr.po-model_number td.a-span9").First().Text())
}

// extractDiscount prefers the savings badge the page already rendered
// and only computes the percentage itself when the badge is absent.
func extractDiscount(doc *goquery.Document, price, mrp string) string {
	if badge := strings.TrimSpace(doc.Find("span.savingsPercentage").First().Text()); badge != "" {
		return badge
	}
	return ComputeDiscount(price, mrp)
}

// ComputeDiscount derives the percentage discount from the displayed
// price and MRP strings. If either side is missing or unparseable, or
// the MRP is not positive, the result is empty rather than a guess. A
// price above MRP yields a negative percentage, surfaced as-is.
func ComputeDiscount(priceText, mrpText string) string {
	price, ok := parsePrice(priceText)
	if !ok {
		return ""
	}
	mrp, ok := parsePrice(mrpText)
	if !ok || mrp <= 0 {
		return ""
	}

	discount := (mrp - price) / mrp * 100

	return fmt.Sprintf("%.2f%%", discount)
}

// parsePrice strips currency symbols and thousands separators from a
// displayed price, e.g. "₹1,999.00" -> 1999.00.
func parsePrice(text string) (float64, bool) {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimSuffix(b.String(), ".")
	if cleaned == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}

	return value, true
}

// extractImages reads gallery URLs from the image block script payload,
// falling back to rebuilding full-size URLs from the visible thumbnails.
func extractImages(doc *goquery.Document) []string {
	images := []string{}
	seen := map[string]bool{}

	add := func(url string) {
		if url != "" && !seen[url] {
			seen[url] = true
			images = append(images, url)
		}
	}

	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, "colorImages") {
			return true
		}

		matches := hiResImageRe.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			matches = largeImageRe.FindAllStringSubmatch(text, -1)
		}
		for _, m := range matches {
			add(m[1])
		}

		return len(images) == 0
	})
	if len(images) > 0 {
		return images
	}

	doc.Find("div#altImages img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if !strings.Contains(src, "/images/I/") {
			return
		}
		// Thumbnail URLs carry the image id before the size suffix:
		// .../images/I/<id>._AC_US40_.jpg
		rest := strings.SplitN(src, "/images/I/", 2)[1]
		id := strings.SplitN(rest, "._", 2)[0]
		if id != "" {
			add(imageBaseURL + id + "._SY395_.jpg")
		}
	})

	return images
}
