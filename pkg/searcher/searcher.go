package searcher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/structsearch/structsearch/internal/criteria"
	"github.com/structsearch/structsearch/internal/facet"
	"github.com/structsearch/structsearch/internal/schema"
)

// Defaults for search requests.
const (
	DefaultSize      = 10
	MaxSize          = 1000
	DefaultCacheSize = 128
)

// Options configures a Searcher.
type Options struct {
	// CacheSize is the number of cached results. Zero means
	// DefaultCacheSize; negative disables caching.
	CacheSize int
}

// Request describes one search execution.
type Request struct {
	// Criteria is the query tree to execute. Nil matches all documents.
	Criteria *criteria.Builder

	// Size caps the number of hits returned (default DefaultSize).
	Size int

	// From skips leading hits for pagination.
	From int

	// Fields lists stored fields to load into each hit. Empty loads none.
	Fields []string
}

// Hit is one matched document.
type Hit struct {
	ID     string
	Score  float64
	Fields map[string]any
}

// TermCount is one term facet bucket.
type TermCount struct {
	Term  string
	Count int
}

// RangeCount is one range facet bucket, numeric or date.
type RangeCount struct {
	Name  string
	Count int
}

// FacetResult is the aggregated distribution for one facet field.
type FacetResult struct {
	Field   string
	Total   int
	Missing int
	Other   int
	Terms   []TermCount
	Ranges  []RangeCount
}

// Result is the outcome of one search execution.
type Result struct {
	Total  uint64
	Took   time.Duration
	Hits   []*Hit
	Facets map[string]*FacetResult
}

// Searcher executes criteria queries against one backend index.
// Safe for concurrent use.
type Searcher struct {
	mu     sync.RWMutex
	index  bleve.Index
	reg    *schema.Registry
	facets *facet.Config
	cache  *lru.Cache[string, *Result]
	closed bool
}

// New creates a searcher over an open backend index. facets may be nil
// when no facet aggregation is declared.
func New(index bleve.Index, reg *schema.Registry, facets *facet.Config, opts Options) (*Searcher, error) {
	s := &Searcher{index: index, reg: reg, facets: facets}

	size := opts.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}
	if size > 0 {
		cache, err := lru.New[string, *Result](size)
		if err != nil {
			return nil, fmt.Errorf("failed to create result cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Search compiles and executes a request. The compiled tree plus the
// declared facet configuration are handed to the backend; facet counts
// come back filtered to the declared facet fields.
func (s *Searcher) Search(ctx context.Context, req Request) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("searcher is closed")
	}

	compiled, err := s.compile(req.Criteria)
	if err != nil {
		return nil, err
	}

	size := req.Size
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}

	key := s.cacheKey(compiled, size, req.From, req.Fields)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return cached, nil
		}
	}

	sr := bleve.NewSearchRequest(compiled.Query)
	sr.Size = size
	sr.From = req.From
	sr.Fields = req.Fields
	if len(compiled.SortBy) > 0 {
		sr.SortBy(compiled.SortBy)
	}
	if s.facets != nil {
		for field, fr := range s.facets.Requests() {
			sr.AddFacet(field, fr)
		}
	}

	raw, err := s.index.SearchInContext(ctx, sr)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	result := &Result{
		Total:  raw.Total,
		Took:   raw.Took,
		Hits:   make([]*Hit, 0, len(raw.Hits)),
		Facets: make(map[string]*FacetResult),
	}
	for _, hit := range raw.Hits {
		result.Hits = append(result.Hits, &Hit{
			ID:     hit.ID,
			Score:  hit.Score,
			Fields: hit.Fields,
		})
	}
	for field, fr := range raw.Facets {
		// The backend only reports facets we requested, but keep the
		// declared-fields filter explicit at the boundary.
		if s.facets == nil || !s.facets.IsFacetField(field) {
			continue
		}
		out := &FacetResult{
			Field:   fr.Field,
			Total:   fr.Total,
			Missing: fr.Missing,
			Other:   fr.Other,
		}
		if fr.Terms != nil {
			for _, t := range fr.Terms.Terms() {
				out.Terms = append(out.Terms, TermCount{Term: t.Term, Count: t.Count})
			}
		}
		for _, nr := range fr.NumericRanges {
			out.Ranges = append(out.Ranges, RangeCount{Name: nr.Name, Count: nr.Count})
		}
		for _, dr := range fr.DateRanges {
			out.Ranges = append(out.Ranges, RangeCount{Name: dr.Name, Count: dr.Count})
		}
		result.Facets[field] = out
	}

	if s.cache != nil {
		s.cache.Add(key, result)
	}
	return result, nil
}

// compile finalizes the criteria tree. A nil builder matches all documents.
func (s *Searcher) compile(b *criteria.Builder) (*criteria.Compiled, error) {
	if b == nil {
		return &criteria.Compiled{Query: query.NewMatchAllQuery()}, nil
	}
	return b.Compile()
}

// cacheKey renders the canonical form of a compiled request. Backend query
// nodes marshal deterministically to JSON, which makes the compiled tree
// its own cache key.
func (s *Searcher) cacheKey(c *criteria.Compiled, size, from int, fields []string) string {
	qj, err := json.Marshal(c.Query)
	if err != nil {
		// Unmarshalable queries fall back to an address-unique key,
		// effectively uncached.
		qj = []byte(fmt.Sprintf("%p", c.Query))
	}
	return fmt.Sprintf("%s|%s|%d|%d|%s",
		qj, strings.Join(c.SortBy, ","), size, from, strings.Join(fields, ","))
}

// Purge drops all cached results. Call after the index content changes.
func (s *Searcher) Purge() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

// Close marks the searcher closed. The underlying index is owned by the
// caller and is not closed here.
func (s *Searcher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.cache != nil {
		s.cache.Purge()
	}
	return nil
}
