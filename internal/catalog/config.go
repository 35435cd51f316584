// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package catalog

// Config carries the merge-time constants: placeholder values for
// synthesized fields and the image URL layout. Timeout and retry policy
// stay with the transport layer; the engine works within whatever
// context it is handed.
type Config struct {
	// ImageBaseURL is the bucket-style base for constructed image URLs.
	// A trailing slash is tolerated and stripped.
	ImageBaseURL string

	// FallbackImageURL is served when a product has no usable SKU.
	// Empty means derive ImageBaseURL + "/placeholder.jpg".
	FallbackImageURL string

	// PlaceholderPrice is assigned to products synthesized from detail
	// documents and to detail-only items on the full listing.
	PlaceholderPrice float64

	// PlaceholderStock is assigned to synthesized products.
	PlaceholderStock int

	// PlaceholderSKU is assigned to synthesized products that carry no
	// SKU of their own. It is also an enrichment sentinel: products
	// wearing it get the fallback image, not a constructed URL.
	PlaceholderSKU string

	// DefaultCategory names synthesized products whose source document
	// has no category.
	DefaultCategory string

	// DefaultUserID is attributed to interaction events that name no
	// user.
	DefaultUserID string
}

// DefaultConfig returns the stock placeholder values. Production
// deployments override ImageBaseURL at minimum; the defaults exist so
// tests and tooling can build an engine without a config file.
func DefaultConfig() Config {
	return Config{
		ImageBaseURL:     "https://storage.googleapis.com/placeholder-bucket",
		FallbackImageURL: "",
		PlaceholderPrice: 39.99,
		PlaceholderStock: 999,
		PlaceholderSKU:   "SYNTH-001",
		DefaultCategory:  "Generic",
		DefaultUserID:    "User",
	}
}
