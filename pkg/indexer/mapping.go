package indexer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/structsearch/structsearch/internal/schema"
	"github.com/structsearch/structsearch/internal/valuetype"
)

// BuildIndexMapping derives the backend index mapping from the registered
// field types. Keyword fields index verbatim, numeric and date fields index
// as backend numerics (dates in their normalized integral form), and every
// sortable field gets its shadow sort field mapped alongside.
func BuildIndexMapping(reg *schema.Registry) mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	doc := bleve.NewDocumentMapping()

	for _, field := range reg.Fields() {
		vt, _ := reg.Resolve(field)

		var fm *mapping.FieldMapping
		switch vt.Kind() {
		case valuetype.KindKeyword:
			fm = bleve.NewTextFieldMapping()
			fm.Analyzer = keyword.Name
		case valuetype.KindNumeric, valuetype.KindDate:
			fm = bleve.NewNumericFieldMapping()
		default:
			fm = bleve.NewTextFieldMapping()
		}
		fm.Store = vt.Store()
		doc.AddFieldMappingsAt(field, fm)

		if s, ok := vt.(valuetype.Sortable); ok {
			sfm := bleve.NewNumericFieldMapping()
			sfm.Store = false
			sfm.IncludeInAll = false
			doc.AddFieldMappingsAt(s.SortField(), sfm)
		}
	}

	im.DefaultMapping = doc
	return im
}

// Open opens or creates a backend index at path with the given mapping.
// An empty path creates an in-memory index, used by tests.
func Open(path string, im mapping.IndexMapping) (bleve.Index, error) {
	if path == "" {
		return bleve.NewMemOnly(im)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, im)
	} else if err != nil && isCorruptionError(err) {
		// A half-written index cannot be repaired; clear and rebuild.
		if removeErr := os.RemoveAll(path); removeErr != nil {
			return nil, fmt.Errorf("index corrupted at %s and cannot remove: %w (original error: %v)",
				path, removeErr, err)
		}
		idx, err = bleve.New(path, im)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	return idx, nil
}

// isCorruptionError checks if an error indicates backend index corruption.
func isCorruptionError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "unexpected end of JSON") ||
		strings.Contains(errStr, "error parsing mapping JSON") ||
		strings.Contains(errStr, "failed to load segment") ||
		strings.Contains(errStr, "error opening bolt") ||
		err == bleve.ErrorIndexMetaCorrupt
}
