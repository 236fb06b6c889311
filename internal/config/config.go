// Package config loads the index schema declaration: field-to-type
// bindings and facet declarations, written as YAML.
//
// A schema file is the single place an index's field semantics are
// declared. Loading produces a populated field-type registry and facet
// configuration; both are immutable once handed to the index.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/structsearch/structsearch/internal/errors"
	"github.com/structsearch/structsearch/internal/facet"
	"github.com/structsearch/structsearch/internal/schema"
	"github.com/structsearch/structsearch/internal/valuetype"
)

// CurrentSchemaVersion is the schema file format version this build reads.
const CurrentSchemaVersion = 1

// Schema is the YAML schema declaration for one index.
type Schema struct {
	Version int         `yaml:"version"`
	Fields  []FieldDecl `yaml:"fields"`
	Facets  []FacetDecl `yaml:"facets"`
}

// FieldDecl declares one field's value type.
type FieldDecl struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Store bool   `yaml:"store"`

	// Resolution applies to date fields: year, month, day, hour, minute,
	// second, millisecond (default).
	Resolution string `yaml:"resolution,omitempty"`

	// Format is the time.Parse layout for date string inputs.
	Format string `yaml:"format,omitempty"`
}

// FacetDecl declares one facetable field.
type FacetDecl struct {
	Field      string          `yaml:"field"`
	Size       int             `yaml:"size,omitempty"`
	Ranges     []RangeDecl     `yaml:"ranges,omitempty"`
	DateRanges []DateRangeDecl `yaml:"date_ranges,omitempty"`
}

// RangeDecl declares one named numeric facet bucket. Nil bounds are open.
type RangeDecl struct {
	Name string   `yaml:"name"`
	Min  *float64 `yaml:"min,omitempty"`
	Max  *float64 `yaml:"max,omitempty"`
}

// DateRangeDecl declares one named datetime facet bucket, RFC3339 bounds.
type DateRangeDecl struct {
	Name  string `yaml:"name"`
	Start string `yaml:"start,omitempty"`
	End   string `yaml:"end,omitempty"`
}

// Load reads and parses a schema file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeSchemaNotFound,
				fmt.Sprintf("schema file not found: %s", path), err)
		}
		return nil, errors.Wrap(errors.ErrCodeSchemaInvalid, err)
	}
	return Parse(data)
}

// Parse decodes a schema declaration from YAML.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.New(errors.ErrCodeSchemaInvalid,
			fmt.Sprintf("schema is not valid YAML: %v", err), err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the declaration for caller mistakes. Unknown type keys
// fail here, at setup time, rather than degrading silently at query time.
func (s *Schema) Validate() error {
	if s.Version != 0 && s.Version != CurrentSchemaVersion {
		return errors.ConfigError(
			fmt.Sprintf("unsupported schema version %d (want %d)", s.Version, CurrentSchemaVersion), nil)
	}
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return errors.ConfigError("field declaration missing name", nil)
		}
		if _, ok := schema.Builtin(f.Type, schema.TypeOptions{}); !ok {
			return errors.New(errors.ErrCodeUnknownType,
				fmt.Sprintf("field %q declares unknown type %q", f.Name, f.Type), nil)
		}
		if f.Resolution != "" {
			if _, ok := valuetype.ParseResolution(f.Resolution); !ok {
				return errors.ConfigError(
					fmt.Sprintf("field %q declares unknown date resolution %q", f.Name, f.Resolution), nil)
			}
		}
		// Last declaration wins, matching registry semantics, but a
		// duplicate in one file is almost always a mistake worth flagging.
		if seen[f.Name] {
			return errors.ConfigError(
				fmt.Sprintf("field %q declared more than once", f.Name), nil)
		}
		seen[f.Name] = true
	}
	for _, fd := range s.Facets {
		if fd.Field == "" {
			return errors.ConfigError("facet declaration missing field", nil)
		}
		for _, dr := range fd.DateRanges {
			if dr.Start != "" {
				if _, err := time.Parse(time.RFC3339, dr.Start); err != nil {
					return errors.ConfigError(
						fmt.Sprintf("facet %q date range %q has invalid start", fd.Field, dr.Name), err)
				}
			}
			if dr.End != "" {
				if _, err := time.Parse(time.RFC3339, dr.End); err != nil {
					return errors.ConfigError(
						fmt.Sprintf("facet %q date range %q has invalid end", fd.Field, dr.Name), err)
				}
			}
		}
	}
	return nil
}

// Build materializes the declaration into a populated registry and facet
// configuration.
func (s *Schema) Build() (*schema.Registry, *facet.Config, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}

	reg := schema.NewRegistry()
	for _, f := range s.Fields {
		res, _ := valuetype.ParseResolution(f.Resolution)
		d, _ := schema.Builtin(f.Type, schema.TypeOptions{
			Store:      f.Store,
			Resolution: res,
			Layout:     f.Format,
		})
		reg.Register(f.Name, d)
	}

	facets := facet.NewConfig()
	for _, fd := range s.Facets {
		rule := facet.Rule{Size: fd.Size}
		for _, r := range fd.Ranges {
			rule.NumericRanges = append(rule.NumericRanges, facet.NumericRange{
				Name: r.Name, Min: r.Min, Max: r.Max,
			})
		}
		for _, dr := range fd.DateRanges {
			var start, end time.Time
			if dr.Start != "" {
				start, _ = time.Parse(time.RFC3339, dr.Start)
			}
			if dr.End != "" {
				end, _ = time.Parse(time.RFC3339, dr.End)
			}
			rule.DateRanges = append(rule.DateRanges, facet.DateRange{
				Name: dr.Name, Start: start, End: end,
			})
		}
		facets.Declare(fd.Field, rule)
	}

	return reg, facets, nil
}
