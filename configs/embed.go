// Package configs provides embedded schema templates for structsearch.
//
// Templates are embedded at build time using Go's //go:embed directive so
// they are available in all distributions. `structsearch init` writes the
// schema template as a starting point for a new index.
package configs

import _ "embed"

// SchemaTemplate is the example index schema declaration.
//
//go:embed schema.example.yaml
var SchemaTemplate string
