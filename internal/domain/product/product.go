// Package product defines the canonical catalog document indexed and returned
// by the search engine.
package product

// Attribute is a single name/value pair of a product characteristic.
// Attributes keep their insertion order; order carries no search semantics.
type Attribute struct {
	Name  string `json:"attr_name"`
	Value string `json:"attr_value"`
}

// OfferPrice is one price tier of a supplier offer.
type OfferPrice struct {
	Qnt      int     `json:"qnt"`
	Discount float64 `json:"discount"`
	Price    float64 `json:"price"`
}

// SupplierOffer is a single purchasable offer within a supplier record.
type SupplierOffer struct {
	Price        []OfferPrice `json:"price,omitempty"`
	Stock        string       `json:"stock,omitempty"`
	DeliveryTime string       `json:"delivery_time,omitempty"`
	PackageInfo  string       `json:"package_info,omitempty"`
	PurchaseURL  string       `json:"purchase_url,omitempty"`
}

// Supplier is a nested supplier record with its offers.
type Supplier struct {
	DealerID    string          `json:"dealer_id,omitempty"`
	Name        string          `json:"supplier_name,omitempty"`
	Tel         string          `json:"supplier_tel,omitempty"`
	Address     string          `json:"supplier_address,omitempty"`
	Description string          `json:"supplier_description,omitempty"`
	Offers      []SupplierOffer `json:"supplier_offers,omitempty"`
}

// Document is the canonical unit stored in the index. The ID is always a
// plain string by the time a Document exists; raw-input id shapes are
// resolved by the normalizer.
type Document struct {
	ID              string            `json:"id"`
	Title           string            `json:"title,omitempty"`
	Description     string            `json:"description,omitempty"`
	Article         string            `json:"article,omitempty"`
	Brand           string            `json:"brand,omitempty"`
	CountryOfOrigin string            `json:"country_of_origin,omitempty"`
	WarrantyMonths  string            `json:"warranty_months,omitempty"`
	Category        string            `json:"category,omitempty"`
	CreatedAt       string            `json:"created_at,omitempty"`
	Attributes      []Attribute       `json:"attributes,omitempty"`
	FlatAttributes  map[string]string `json:"flat_attributes,omitempty"`
	Suppliers       []Supplier        `json:"suppliers,omitempty"`
}

// FlattenAttributes derives the flat name->value map from the attribute list.
// Pairs with an empty name or value are skipped. Truncation of long values is
// the normalizer's job; this derivation is shape-only.
func FlattenAttributes(attrs []Attribute) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	flat := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if a.Name == "" || a.Value == "" {
			continue
		}
		flat[a.Name] = a.Value
	}
	if len(flat) == 0 {
		return nil
	}
	return flat
}
