package db

// ProductMapping declares the catalog index structure: analyzers, field types
// and nested mappings. Attribute values get three parallel representations
// (analyzed text, exact keyword, best-effort numeric) so that fuzzy, exact
// and range lookups all work against the same pair. flat_attributes is a
// schema-less flattened map for ad hoc keyword filtering.
//
// Nested mappings keep per-sub-document field coupling: a query for
// "this attribute name with this exact value" cannot match across two
// sibling attributes.
func ProductMapping() map[string]any {
	return map[string]any{
		"settings": map[string]any{
			"number_of_shards":   1,
			"number_of_replicas": 0,
			"analysis": map[string]any{
				"analyzer": map[string]any{
					"catalog_text": map[string]any{
						"type":      "custom",
						"tokenizer": "standard",
						"filter": []string{
							"lowercase",
							"asciifolding",
							"catalog_stop",
							"catalog_stemmer",
						},
					},
				},
				"filter": map[string]any{
					"catalog_stop": map[string]any{
						"type":      "stop",
						"stopwords": "_russian_",
					},
					"catalog_stemmer": map[string]any{
						"type":     "stemmer",
						"language": "russian",
					},
				},
			},
		},
		"mappings": map[string]any{
			"properties": map[string]any{
				"id": map[string]any{"type": "keyword"},
				"title": map[string]any{
					"type":     "text",
					"analyzer": "catalog_text",
					"fields": map[string]any{
						"keyword": map[string]any{
							"type":         "keyword",
							"ignore_above": 256,
						},
					},
				},
				"description": map[string]any{
					"type":     "text",
					"analyzer": "catalog_text",
				},
				"article":           map[string]any{"type": "keyword"},
				"brand":             map[string]any{"type": "keyword"},
				"country_of_origin": map[string]any{"type": "keyword"},
				"warranty_months":   map[string]any{"type": "keyword"},
				"category":          map[string]any{"type": "keyword"},
				"created_at": map[string]any{
					"type":   "date",
					"format": "dd.MM.yyyy HH:mm||strict_date_optional_time||epoch_millis",
				},
				"attributes": map[string]any{
					"type": "nested",
					"properties": map[string]any{
						"attr_name": map[string]any{"type": "keyword"},
						"attr_value": map[string]any{
							"type":     "text",
							"analyzer": "catalog_text",
							"fields": map[string]any{
								"keyword": map[string]any{
									"type":         "keyword",
									"ignore_above": 256,
								},
								"numeric": map[string]any{
									"type":             "double",
									"ignore_malformed": true,
								},
							},
						},
					},
				},
				"suppliers": map[string]any{
					"type": "nested",
					"properties": map[string]any{
						"dealer_id":            map[string]any{"type": "keyword"},
						"supplier_name":        map[string]any{"type": "keyword"},
						"supplier_tel":         map[string]any{"type": "keyword"},
						"supplier_address":     map[string]any{"type": "text"},
						"supplier_description": map[string]any{"type": "text"},
						"supplier_offers": map[string]any{
							"type": "nested",
							"properties": map[string]any{
								"price": map[string]any{
									"type": "nested",
									"properties": map[string]any{
										"qnt":      map[string]any{"type": "integer"},
										"discount": map[string]any{"type": "double"},
										"price":    map[string]any{"type": "double"},
									},
								},
								"stock":         map[string]any{"type": "keyword"},
								"delivery_time": map[string]any{"type": "keyword"},
								"package_info":  map[string]any{"type": "text"},
								"purchase_url": map[string]any{
									"type":  "keyword",
									"index": false,
								},
							},
						},
					},
				},
				"flat_attributes": map[string]any{"type": "flattened"},
			},
		},
	}
}
