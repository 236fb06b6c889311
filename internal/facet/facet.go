// Package facet declares which fields participate in facet-count
// aggregation and how facet values are bucketed.
//
// Facet declarations are independent of query-time value types: a field can
// be queryable, facetable, both, or neither. The configuration is read-only
// after construction and consumed by the search executor.
package facet

import (
	"sort"
	"time"

	"github.com/blevesearch/bleve/v2"
)

// DefaultSize is the term-facet bucket count used when a rule does not set one.
const DefaultSize = 10

// NumericRange is a named numeric bucket. Nil bounds are unbounded.
type NumericRange struct {
	Name string
	Min  *float64
	Max  *float64
}

// DateRange is a named datetime bucket. Zero times are unbounded.
type DateRange struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Rule describes how facet values are extracted for one field.
// With no ranges configured the field aggregates as a term facet.
type Rule struct {
	// Size caps the number of term buckets returned. Zero means DefaultSize.
	Size int

	// NumericRanges buckets a numeric field. Mutually exclusive with
	// DateRanges in practice; if both are set, both are requested.
	NumericRanges []NumericRange

	// DateRanges buckets a date field.
	DateRanges []DateRange
}

// Config enumerates the facetable fields for one index.
type Config struct {
	rules map[string]Rule
}

// NewConfig creates an empty facet configuration.
func NewConfig() *Config {
	return &Config{rules: make(map[string]Rule)}
}

// Declare marks a field as facetable with the given extraction rule.
// Re-declaring a field overwrites the previous rule.
func (c *Config) Declare(field string, rule Rule) {
	if rule.Size <= 0 {
		rule.Size = DefaultSize
	}
	c.rules[field] = rule
}

// IsFacetField reports whether field participates in facet aggregation.
func (c *Config) IsFacetField(field string) bool {
	_, ok := c.rules[field]
	return ok
}

// Rule returns the extraction rule declared for field.
func (c *Config) Rule(field string) (Rule, bool) {
	r, ok := c.rules[field]
	return r, ok
}

// Fields returns the facetable field names in sorted order.
func (c *Config) Fields() []string {
	fields := make([]string, 0, len(c.rules))
	for f := range c.rules {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Requests translates the declarations into backend facet requests,
// keyed by field name. Date fields index in their normalized integral
// form (epoch milliseconds), so date buckets translate to numeric ranges
// over that form.
func (c *Config) Requests() map[string]*bleve.FacetRequest {
	reqs := make(map[string]*bleve.FacetRequest, len(c.rules))
	for field, rule := range c.rules {
		fr := bleve.NewFacetRequest(field, rule.Size)
		for _, nr := range rule.NumericRanges {
			fr.AddNumericRange(nr.Name, nr.Min, nr.Max)
		}
		for _, dr := range rule.DateRanges {
			var lo, hi *float64
			if !dr.Start.IsZero() {
				f := float64(dr.Start.UnixMilli())
				lo = &f
			}
			if !dr.End.IsZero() {
				f := float64(dr.End.UnixMilli())
				hi = &f
			}
			fr.AddNumericRange(dr.Name, lo, hi)
		}
		reqs[field] = fr
	}
	return reqs
}
