package models

import "encoding/json"

// Category is a top-level storefront grouping, e.g. "bibs".
type Category struct {
	ID            int64  `json:"id" db:"id"`
	Name          string `json:"name" db:"name"`
	Description   string `json:"description" db:"description"`
	ImageFilename string `json:"imageFilename" db:"image_filename"`
}

// Style is a sub-grouping inside one Category.
type Style struct {
	ID            int64  `json:"id" db:"id"`
	CategoryID    int64  `json:"categoryId" db:"category_id"`
	Name          string `json:"name" db:"name"`
	Description   string `json:"description" db:"description"`
	ImageFilename string `json:"imageFilename" db:"image_filename"`

	// Joined for display, not a column.
	CategoryName string `json:"categoryName,omitempty" db:"-"`
}

// Product may sit under a Category and/or Style; both references are nullable
// so deleting a parent orphans the product instead of removing it.
type Product struct {
	ID            int64  `json:"id" db:"id"`
	Name          string `json:"name" db:"name"`
	PriceCents    int64  `json:"priceCents" db:"price_cents"`
	Description   string `json:"description" db:"description"`
	ImageFilename string `json:"imageFilename" db:"image_filename"`
	CategoryID    *int64 `json:"categoryId,omitempty" db:"category_id"`
	StyleID       *int64 `json:"styleId,omitempty" db:"style_id"`

	// Joins (not in the products table, populated by the store)
	CategoryName string    `json:"categoryName,omitempty" db:"-"`
	StyleName    string    `json:"styleName,omitempty" db:"-"`
	Variants     []Variant `json:"variants,omitempty" db:"-"`
}

// PriceDisplay renders the price as a two-decimal major-unit string.
func (p Product) PriceDisplay() string {
	return FormatCents(p.PriceCents)
}

// Variant is a SKU/stock record with a free-form attribute document.
type Variant struct {
	ID             int64  `json:"id" db:"id"`
	ProductID      int64  `json:"productId" db:"product_id"`
	SKU            string `json:"sku" db:"sku"`
	Stock          int    `json:"stock" db:"stock"`
	AttributesJSON string `json:"attributesJson" db:"attributes_json"` // stored as JSON text
}

// Attributes decodes AttributesJSON. Anything that is not a JSON object
// yields an empty map.
func (v Variant) Attributes() map[string]any {
	attrs := map[string]any{}
	if v.AttributesJSON == "" {
		return attrs
	}
	if err := json.Unmarshal([]byte(v.AttributesJSON), &attrs); err != nil {
		return map[string]any{}
	}
	return attrs
}
