// Package indexer converts attribute-bag documents into backend index
// entries through the declared field types.
//
// The indexer sits between the document pipeline and the backend engine:
//
//	┌─────────────────┐
//	│ Document source │  (attribute bags: map[string]any)
//	└────────┬────────┘
//	         │
//	┌────────▼────────┐
//	│     Indexer     │  ← This package
//	│ (type coercion, │
//	│  shadow fields) │
//	└────────┬────────┘
//	         │
//	┌────────▼────────┐
//	│  Backend index  │  (bleve)
//	└─────────────────┘
//
// Each attribute is coerced through its field's declared value type before
// indexing; attributes that fail coercion are dropped from that document.
// Range-capable sortable fields additionally emit their shadow sort field
// (the "sort_" prefix convention) so OrderBy clauses have a stable
// normalized form to sort on.
//
// # Usage
//
//	im := indexer.BuildIndexMapping(registry)
//	idx, err := indexer.Open("path/to/index", im)
//	if err != nil { ... }
//	ix := indexer.New(idx, registry, indexer.Options{})
//	err = ix.Index(ctx, docs)
package indexer
