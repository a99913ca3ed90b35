package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vietcart/catalog-harvester/internal/domain"
)

// The catalog API is not strict about its own schema: price arrives as a
// number, a numeric string, or an object carrying one of several price
// fields, and image entries name their URL field inconsistently. Extraction
// mirrors that looseness on purpose.

type rawProduct struct {
	ID          json.Number     `json:"id"`
	Name        string          `json:"name"`
	URLKey      string          `json:"url_key"`
	Price       json.RawMessage `json:"price"`
	Description string          `json:"description"`
	Images      []rawImage      `json:"images"`
}

type rawImage struct {
	BaseURL string `json:"base_url"`
	URL     string `json:"url"`
}

type rawPriceObject struct {
	Value         *json.Number `json:"value"`
	OriginalPrice *json.Number `json:"original_price"`
	FinalPrice    *json.Number `json:"final_price"`
}

// extractProduct decodes a 200 payload into a Product. id and name are
// required; everything else degrades to a zero value.
func extractProduct(body []byte) (*domain.Product, error) {
	var raw rawProduct
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}

	id, err := raw.ID.Int64()
	if err != nil || id <= 0 {
		return nil, errors.New("missing or invalid id field")
	}

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return nil, errors.New("missing name field")
	}

	price, err := extractPrice(raw.Price)
	if err != nil {
		return nil, fmt.Errorf("price field: %w", err)
	}

	return &domain.Product{
		ID:          id,
		Name:        name,
		URLKey:      strings.TrimSpace(raw.URLKey),
		Price:       price,
		Description: raw.Description,
		Images:      extractImageURLs(raw.Images),
	}, nil
}

// extractPrice accepts a number, a numeric string, or an object with
// value/original_price/final_price, in that preference order. An absent
// price is zero, not an error.
func extractPrice(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}

	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		return priceToInt(num)
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return priceToInt(json.Number(strings.TrimSpace(str)))
	}

	var obj rawPriceObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0, errors.New("unrecognized price shape")
	}
	for _, candidate := range []*json.Number{obj.Value, obj.OriginalPrice, obj.FinalPrice} {
		if candidate != nil {
			return priceToInt(*candidate)
		}
	}
	return 0, nil
}

func priceToInt(num json.Number) (int64, error) {
	if v, err := num.Int64(); err == nil {
		return v, nil
	}
	f, err := num.Float64()
	if err != nil {
		return 0, fmt.Errorf("non-numeric price %q", num.String())
	}
	return int64(f), nil
}

// extractImageURLs keeps entries that carry a usable URL, preferring base_url.
func extractImageURLs(images []rawImage) []string {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		u := strings.TrimSpace(img.BaseURL)
		if u == "" {
			u = strings.TrimSpace(img.URL)
		}
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
